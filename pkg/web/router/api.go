package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"recipehub-web/pkg/common/config"
	"recipehub-web/pkg/core/recipe/repository/dao"
	"recipehub-web/pkg/web/handler"
	"recipehub-web/pkg/web/middleware"
	"recipehub-web/pkg/web/session"
)

// RegisterRoutes 注册所有页面路由
func RegisterRoutes(h *server.Hertz, cfg *config.Config, api dao.RecipeAPI, sessions session.Provider) {
	healthHandler := handler.NewHealthCheckHandler(api, sessions)
	pages := handler.NewPageHandler(api, sessions)

	// 注册全局中间件（按执行顺序）
	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.LoggerMiddleware(),
		middleware.SecurityCheckMiddleware(cfg.Middleware.Security),
		middleware.TimeoutMiddleware(cfg.Middleware.Timeout.RequestTimeout),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
		middleware.RateLimitMiddleware(cfg.Middleware.RateLimit),
	)

	// 基础接口
	h.GET("/health", healthHandler.AdvancedHealthCheck)

	// 页面
	h.GET("/", func(ctx context.Context, c *app.RequestContext) {
		c.Redirect(consts.StatusFound, []byte("/index.html"))
	})
	h.GET("/index.html", pages.Index)
	h.GET("/login.html", pages.LoginPage)
	h.POST("/login.html", pages.Login)
	h.GET("/register.html", pages.RegisterPage)
	h.POST("/register.html", pages.Register)
	h.GET("/create.html", pages.CreatePage)
	h.POST("/create.html", pages.Create)
	h.GET("/recipe.html", pages.Recipe)
	h.POST("/recipe.html", pages.Rate)
	h.POST("/logout", pages.Logout)
	h.GET("/export.xlsx", pages.Export)
}
