package dao

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "recipehub-web/pkg/common/errors"
	"recipehub-web/pkg/core/session/repository/dao"
)

type RedisSessionRepository struct {
	rdb    *redis.Client
	prefix string
}

var _ dao.SessionRepository = (*RedisSessionRepository)(nil)

func NewRedisSessionRepository(rdb *redis.Client, prefix string) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, prefix: prefix}
}

func (r *RedisSessionRepository) key(sid string) string {
	return r.prefix + sid
}

func (r *RedisSessionRepository) Load(ctx context.Context, sid string) (string, error) {
	token, err := r.rdb.Get(ctx, r.key(sid)).Result()
	if err != nil {
		return "", apperrors.WrapStoreError(err)
	}
	return token, nil
}

// Save ttl<=0 时 redis 不设置过期
func (r *RedisSessionRepository) Save(ctx context.Context, sid, token string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return apperrors.WrapStoreError(r.rdb.Set(ctx, r.key(sid), token, ttl).Err())
}

func (r *RedisSessionRepository) Delete(ctx context.Context, sid string) error {
	return apperrors.WrapStoreError(r.rdb.Del(ctx, r.key(sid)).Err())
}

func (r *RedisSessionRepository) Ping(ctx context.Context) error {
	return apperrors.WrapStoreError(r.rdb.Ping(ctx).Err())
}
