// Package fakeapi 是 RecipeHub 后端的内存实现，用于本地开发和接口测试
package fakeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/hertz-contrib/jwt"
)

const identityKey = "user_id"

// Request 记录的一次入站请求
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          string
}

type Server struct {
	Store *Store

	h    *server.Hertz
	auth *jwt.HertzJWTMiddleware
	addr string

	mu       sync.Mutex
	requests []Request
	failWith atomic.Int32
}

// New 创建但不启动服务，secret 用于签发 HS256 令牌
func New(addr, secret string) (*Server, error) {
	s := &Server{Store: NewStore(), addr: addr}

	auth, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:         "recipehub",
		Key:           []byte(secret),
		Timeout:       time.Hour,
		IdentityKey:   identityKey,
		TokenLookup:   "header: Authorization",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		Authenticator: s.authenticator,
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if u, ok := data.(*user); ok {
				return jwt.MapClaims{identityKey: u.ID, "username": u.Username, "role": u.Role}
			}
			return jwt.MapClaims{}
		},
		LoginResponse: func(ctx context.Context, c *app.RequestContext, code int, token string, expire time.Time) {
			c.JSON(code, utils.H{"token": token})
		},
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, utils.H{"message": message})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init jwt middleware: %w", err)
	}
	s.auth = auth

	s.h = server.Default(
		server.WithHostPorts(addr),
		server.WithExitWaitTime(time.Second),
		server.WithDisablePrintRoute(true),
	)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.h.Use(s.record, s.injectFailure)

	s.h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(200, utils.H{"status": "ok"})
	})
	s.h.POST("/auth/register", s.register)
	s.h.POST("/auth/login", s.auth.LoginHandler)
	s.h.GET("/recipes", s.listRecipes)
	s.h.GET("/recipes/:id", s.getRecipe)

	authed := s.h.Group("", s.auth.MiddlewareFunc())
	authed.POST("/recipes", s.createRecipe)
	authed.POST("/recipes/:id/rate", s.rateRecipe)
}

// Hertz 供 cmd/devapi 直接 Spin
func (s *Server) Hertz() *server.Hertz { return s.h }

func (s *Server) URL() string { return "http://" + s.addr }

// Start 后台运行并等待端口可连接
func (s *Server) Start() error {
	go func() {
		if err := s.h.Run(); err != nil {
			hlog.Errorf("fake api stopped: %v", err)
		}
	}()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", s.addr, 100*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("fake api did not start on %s", s.addr)
}

func (s *Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.h.Shutdown(ctx)
}

// NewTestServer 在随机端口启动并在测试结束时关闭
func NewTestServer(t testing.TB) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	s, err := New(addr, "test-secret")
	if err != nil {
		t.Fatalf("new fake api: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start fake api: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// Requests 返回目前收到的请求副本
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) ResetRequests() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

// FailWith 让 /recipes 下所有接口返回指定状态码，0 表示恢复
func (s *Server) FailWith(status int) {
	s.failWith.Store(int32(status))
}

func (s *Server) record(ctx context.Context, c *app.RequestContext) {
	r := Request{
		Method:        string(c.Method()),
		Path:          string(c.Path()),
		Query:         string(c.URI().QueryString()),
		Authorization: string(c.GetHeader("Authorization")),
		Body:          string(c.Request.Body()),
	}
	s.mu.Lock()
	s.requests = append(s.requests, r)
	s.mu.Unlock()
	c.Next(ctx)
}

func (s *Server) injectFailure(ctx context.Context, c *app.RequestContext) {
	if status := int(s.failWith.Load()); status != 0 && strings.HasPrefix(string(c.Path()), "/recipes") {
		c.AbortWithStatusJSON(status, utils.H{"message": "injected failure"})
		return
	}
	c.Next(ctx)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) authenticator(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	var req credentials
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil || req.Username == "" || req.Password == "" {
		return nil, jwt.ErrMissingLoginValues
	}
	u, err := s.Store.authenticate(req.Username, req.Password)
	if err != nil {
		return nil, jwt.ErrFailedAuthentication
	}
	return u, nil
}

func (s *Server) register(ctx context.Context, c *app.RequestContext) {
	var req credentials
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(400, utils.H{"message": "username and password required"})
		return
	}
	if _, err := s.Store.AddUser(req.Username, req.Password); err != nil {
		c.JSON(400, utils.H{"message": err.Error()})
		return
	}
	c.JSON(201, utils.H{"message": "user created"})
}

func (s *Server) listRecipes(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, s.Store.list(c.Query("search"), c.Query("tag")))
}

func (s *Server) getRecipe(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(404, utils.H{"message": "recipe not found"})
		return
	}
	r, err := s.Store.get(id)
	if err != nil {
		c.JSON(404, utils.H{"message": err.Error()})
		return
	}
	c.JSON(200, r)
}

func (s *Server) currentUser(ctx context.Context, c *app.RequestContext) (*user, bool) {
	claims := jwt.ExtractClaims(ctx, c)
	id, ok := claims[identityKey].(float64)
	if !ok {
		return nil, false
	}
	return s.Store.userByID(int64(id))
}

func (s *Server) createRecipe(ctx context.Context, c *app.RequestContext) {
	u, ok := s.currentUser(ctx, c)
	if !ok {
		c.JSON(401, utils.H{"message": "Token is invalid!"})
		return
	}
	var r Recipe
	if err := json.Unmarshal(c.Request.Body(), &r); err != nil ||
		r.Title == "" || r.Description == "" || r.Ingredients == "" || r.Steps == "" {
		c.JSON(400, utils.H{"message": "missing required fields"})
		return
	}
	id, err := s.Store.AddRecipe(u.Username, r)
	if err != nil {
		c.JSON(400, utils.H{"message": err.Error()})
		return
	}
	c.JSON(201, utils.H{"id": id, "message": "recipe created"})
}

func (s *Server) rateRecipe(ctx context.Context, c *app.RequestContext) {
	var payload struct {
		Rating *int `json:"rating"`
	}
	if err := json.Unmarshal(c.Request.Body(), &payload); err != nil ||
		payload.Rating == nil || *payload.Rating < 1 || *payload.Rating > 5 {
		c.JSON(400, utils.H{"message": "rating must be between 1 and 5"})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(404, utils.H{"message": "recipe not found"})
		return
	}
	if err := s.Store.Rate(id, *payload.Rating); err != nil {
		c.JSON(404, utils.H{"message": err.Error()})
		return
	}
	c.JSON(201, utils.H{"message": "rating saved"})
}
