package dao

import (
	"context"
	"time"
)

// SessionRepository sid -> token 的服务端存储，ttl<=0 表示不过期
type SessionRepository interface {
	Load(ctx context.Context, sid string) (string, error)
	Save(ctx context.Context, sid, token string, ttl time.Duration) error
	Delete(ctx context.Context, sid string) error
	Ping(ctx context.Context) error
}
