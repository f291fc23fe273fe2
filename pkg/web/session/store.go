// Package session 把浏览器会话里的登录令牌抽象成按请求打开的 TokenStore
package session

import (
	"context"
	"sync"

	"github.com/cloudwego/hertz/pkg/app"
)

// TokenStore 固定键 "token" 下的令牌读写，每次 Get 都读当前值
type TokenStore interface {
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

// Provider 为每个请求绑定一个 TokenStore
type Provider interface {
	Open(ctx context.Context, c *app.RequestContext) TokenStore
	Ping(ctx context.Context) error
	Name() string
}

// MemoryStore 进程内实现，不跨请求
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Get() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *MemoryStore) Set(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	return m.Set("")
}
