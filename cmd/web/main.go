package main

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"recipehub-web/pkg/common/config"
	daoimpl "recipehub-web/pkg/core/recipe/repository/dao/impl"
	sessionmodel "recipehub-web/pkg/core/session/model"
	sessionimpl "recipehub-web/pkg/core/session/repository/dao/impl"
	"recipehub-web/pkg/web/router"
	"recipehub-web/pkg/web/session"
)

func main() {
	// 初始化配置
	cfg := config.Load()
	hlog.SetLevel(cfg.HlogLevel())

	// 后端 API 客户端
	api, err := daoimpl.NewHertzRecipeAPI(
		cfg.API.BaseURL,
		time.Duration(cfg.API.DialTimeout)*time.Second,
		time.Duration(cfg.API.RequestTimeout)*time.Second,
	)
	if err != nil {
		panic("Failed to initialize api client: " + err.Error())
	}

	sessions := initSessions(cfg)

	// 创建Hertz实例
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(int(cfg.Middleware.Security.MaxBodySize)),
	)

	// 注册路由
	router.RegisterRoutes(h, cfg, api, sessions)

	hlog.Infof("recipehub-web listening on %s, api=%s, sessions=%s", cfg.Server.Address, cfg.API.BaseURL, sessions.Name())
	h.Spin()
}

// initSessions 按配置选择会话存储
func initSessions(cfg *config.Config) session.Provider {
	opts := session.CookieOptions{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.MaxAge,
		Secure: cfg.Session.Secure || cfg.IsProd(),
	}

	switch cfg.Session.Driver {
	case config.SessionDriverRedis:
		rdb, err := cfg.InitRedis()
		if err != nil {
			panic("Failed to initialize redis: " + err.Error())
		}
		opts.Name = "sid"
		return session.NewServerProvider("redis", sessionimpl.NewRedisSessionRepository(rdb, cfg.Session.KeyPrefix), opts)

	case config.SessionDriverDatabase:
		db, err := cfg.InitDB()
		if err != nil {
			panic("Failed to initialize database: " + err.Error())
		}
		if err := sessionmodel.AutoMigrate(db); err != nil {
			panic("Failed to migrate session table: " + err.Error())
		}
		repo := sessionimpl.NewGormSessionRepository(db)
		go purgeLoop(repo)
		opts.Name = "sid"
		return session.NewServerProvider("database", repo, opts)

	default:
		return session.NewCookieProvider(opts)
	}
}

// purgeLoop 定期清理过期会话
func purgeLoop(repo *sessionimpl.GormSessionRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		n, err := repo.PurgeExpired(context.Background())
		if err != nil {
			hlog.Warnf("purge expired sessions: %v", err)
			continue
		}
		if n > 0 {
			hlog.Infof("purged %d expired sessions", n)
		}
	}
}
