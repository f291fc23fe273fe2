package session

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"

	apperrors "recipehub-web/pkg/common/errors"
	"recipehub-web/pkg/core/session/repository/dao"
)

// ServerProvider cookie 里只放随机 sid，令牌保存在 redis 或数据库
type ServerProvider struct {
	name string
	repo dao.SessionRepository
	opts CookieOptions
}

func NewServerProvider(name string, repo dao.SessionRepository, opts CookieOptions) *ServerProvider {
	if opts.Name == "" {
		opts.Name = "sid"
	}
	return &ServerProvider{name: name, repo: repo, opts: opts}
}

func (p *ServerProvider) Name() string { return p.name }

func (p *ServerProvider) Ping(ctx context.Context) error { return p.repo.Ping(ctx) }

func (p *ServerProvider) Open(ctx context.Context, c *app.RequestContext) TokenStore {
	return &serverStore{ctx: ctx, c: c, p: p, sid: string(c.Cookie(p.opts.Name))}
}

type serverStore struct {
	ctx context.Context
	c   *app.RequestContext
	p   *ServerProvider
	sid string
}

// Get 存储出错时按未登录处理
func (s *serverStore) Get() (string, bool) {
	if s.sid == "" {
		return "", false
	}
	token, err := s.p.repo.Load(s.ctx, s.sid)
	if err != nil {
		if !apperrors.IsSessionNotFound(err) {
			hlog.CtxErrorf(s.ctx, "session load failed: %v", err)
		}
		return "", false
	}
	return token, token != ""
}

func (s *serverStore) Set(token string) error {
	if s.sid == "" {
		s.sid = uuid.NewString()
	}
	if err := s.p.repo.Save(s.ctx, s.sid, token, time.Duration(s.p.opts.MaxAge)*time.Second); err != nil {
		return err
	}
	writeCookie(s.c, s.p.opts, s.sid, s.p.opts.MaxAge)
	return nil
}

func (s *serverStore) Clear() error {
	if s.sid == "" {
		return nil
	}
	err := s.p.repo.Delete(s.ctx, s.sid)
	writeCookie(s.c, s.p.opts, "", -1)
	s.sid = ""
	return err
}
