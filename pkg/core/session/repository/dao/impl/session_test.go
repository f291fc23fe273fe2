package dao

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "recipehub-web/pkg/common/errors"
	"recipehub-web/pkg/core/session/model"
	"recipehub-web/pkg/core/session/repository/dao"
)

func newSQLiteRepo(t *testing.T) *GormSessionRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // 内存库每个连接独立
	require.NoError(t, model.AutoMigrate(db))
	return NewGormSessionRepository(db)
}

func exerciseRepository(t *testing.T, repo dao.SessionRepository) {
	ctx := context.Background()
	sid := uuid.NewString()

	_, err := repo.Load(ctx, sid)
	assert.True(t, apperrors.IsSessionNotFound(err))

	require.NoError(t, repo.Save(ctx, sid, "tok-1", 0))
	got, err := repo.Load(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	require.NoError(t, repo.Save(ctx, sid, "tok-2", time.Hour))
	got, err = repo.Load(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got, "save overwrites")

	require.NoError(t, repo.Delete(ctx, sid))
	_, err = repo.Load(ctx, sid)
	assert.True(t, apperrors.IsSessionNotFound(err))

	assert.NoError(t, repo.Ping(ctx))
}

func TestGormSessionRepository(t *testing.T) {
	exerciseRepository(t, newSQLiteRepo(t))
}

func TestGormSessionExpiry(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "old", "tok", time.Millisecond))
	require.NoError(t, repo.Save(ctx, "forever", "tok", 0))
	time.Sleep(5 * time.Millisecond)

	_, err := repo.Load(ctx, "old")
	assert.True(t, apperrors.IsSessionNotFound(err))

	n, err := repo.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.Load(ctx, "forever")
	assert.NoError(t, err)
}

func TestRedisSessionRepository(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	exerciseRepository(t, NewRedisSessionRepository(rdb, "test-session:"))
}
