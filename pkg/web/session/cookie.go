package session

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol"
)

// CookieOptions 写 cookie 时使用的属性
type CookieOptions struct {
	Name   string
	MaxAge int // 0 表示浏览器会话 cookie
	Secure bool
}

// CookieProvider 令牌本身放在 HttpOnly cookie 中
type CookieProvider struct {
	opts CookieOptions
}

func NewCookieProvider(opts CookieOptions) *CookieProvider {
	if opts.Name == "" {
		opts.Name = "token"
	}
	return &CookieProvider{opts: opts}
}

func (p *CookieProvider) Name() string { return "cookie" }

func (p *CookieProvider) Ping(context.Context) error { return nil }

func (p *CookieProvider) Open(_ context.Context, c *app.RequestContext) TokenStore {
	return &cookieStore{c: c, opts: p.opts}
}

type cookieStore struct {
	c    *app.RequestContext
	opts CookieOptions

	// 本次请求内写过之后以写入值为准
	written bool
	value   string
}

func (s *cookieStore) Get() (string, bool) {
	if s.written {
		return s.value, s.value != ""
	}
	v := string(s.c.Cookie(s.opts.Name))
	return v, v != ""
}

func (s *cookieStore) Set(token string) error {
	writeCookie(s.c, s.opts, token, s.opts.MaxAge)
	s.written, s.value = true, token
	return nil
}

func (s *cookieStore) Clear() error {
	writeCookie(s.c, s.opts, "", -1)
	s.written, s.value = true, ""
	return nil
}

// writeCookie maxAge<0 时写入过期时间删除 cookie
func writeCookie(c *app.RequestContext, opts CookieOptions, value string, maxAge int) {
	ck := protocol.AcquireCookie()
	defer protocol.ReleaseCookie(ck)
	ck.SetKey(opts.Name)
	ck.SetValue(value)
	ck.SetPath("/")
	ck.SetSameSite(protocol.CookieSameSiteLaxMode)
	ck.SetSecure(opts.Secure)
	ck.SetHTTPOnly(true)
	switch {
	case maxAge > 0:
		ck.SetMaxAge(maxAge)
	case maxAge < 0:
		ck.SetExpire(protocol.CookieExpireDelete)
	}
	c.Response.Header.SetCookie(ck)
}
