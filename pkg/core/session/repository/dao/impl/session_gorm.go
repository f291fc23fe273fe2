package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "recipehub-web/pkg/common/errors"
	"recipehub-web/pkg/core/session/model"
	"recipehub-web/pkg/core/session/repository/dao"
)

type GormSessionRepository struct {
	db *gorm.DB
}

var _ dao.SessionRepository = (*GormSessionRepository)(nil)

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Load 过期的记录视为不存在
func (r *GormSessionRepository) Load(ctx context.Context, sid string) (string, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Select("token", "expires_at").
		Where("id = ?", sid).
		First(&s).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", apperrors.ErrSessionNotFound
	case err != nil:
		return "", apperrors.WrapStoreError(err)
	case !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt):
		return "", apperrors.ErrSessionNotFound
	default:
		return s.Token, nil
	}
}

// Save 同一个 sid 重复登录时覆盖旧 token
func (r *GormSessionRepository) Save(ctx context.Context, sid, token string, ttl time.Duration) error {
	s := model.Session{ID: sid, Token: token}
	if ttl > 0 {
		s.ExpiresAt = time.Now().UTC().Add(ttl)
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at", "updated_at"}),
	}).Create(&s).Error
	return apperrors.WrapStoreError(err)
}

func (r *GormSessionRepository) Delete(ctx context.Context, sid string) error {
	err := r.db.WithContext(ctx).Where("id = ?", sid).Delete(&model.Session{}).Error
	return apperrors.WrapStoreError(err)
}

func (r *GormSessionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return apperrors.WrapStoreError(err)
	}
	return apperrors.WrapStoreError(sqlDB.PingContext(ctx))
}

// PurgeExpired 清理已过期的会话，返回删除条数
func (r *GormSessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at > ? AND expires_at < ?", time.Time{}, time.Now().UTC()).
		Delete(&model.Session{})
	return result.RowsAffected, apperrors.WrapStoreError(result.Error)
}
