package middleware

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/google/uuid"
	"github.com/hertz-contrib/cors"
	"golang.org/x/time/rate"

	"recipehub-web/pkg/common/config"
)

const (
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID 从上下文取出当前请求 id
func RequestID(ctx *app.RequestContext) string {
	return ctx.GetString(requestIDKey)
}

// LoggerMiddleware 结构化的请求日志记录，同时分配请求 id
func LoggerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		id := string(ctx.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(requestIDKey, id)
		ctx.Response.Header.Set(HeaderRequestID, id)

		ctx.Next(c) // 放行到后续处理器
		latency := time.Since(start)

		hlog.CtxInfof(c, "| %3d | %13v | %15s | %-7s | %s | rid=%s",
			ctx.Response.StatusCode(),
			latency,
			ctx.ClientIP(),
			ctx.Method(),
			ctx.Path(),
			id,
		)
	}
}

/*
	启动时指定环境变量
	export APP_ENV=production
	go run ./cmd/web
*/

// RecoveryMiddleware 异常捕获，生产环境不返回堆栈
func RecoveryMiddleware(cfg *config.Config) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				hlog.CtxErrorf(c, "[PANIC RECOVERED] %v\n%s", err, stack)

				if cfg.IsProd() {
					ctx.AbortWithStatusJSON(500, utils.H{
						"code":    500,
						"message": "internal server error",
					})
				} else { // 开发环境显示详细错误
					ctx.AbortWithStatusJSON(500, utils.H{
						"code":  500,
						"error": fmt.Sprintf("%v", err),
						"stack": strings.Split(stack, "\n"),
					})
				}
			}
		}()
		ctx.Next(c)
	}
}

// CORSMiddleware 跨域配置；TrustedDomains 为空时只认 AllowOrigins
func CORSMiddleware(corsConfig config.CORSConfig) app.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     corsConfig.AllowOrigins,
		AllowMethods:     corsConfig.AllowMethods,
		AllowHeaders:     corsConfig.AllowHeaders,
		ExposeHeaders:    corsConfig.ExposeHeaders,
		AllowCredentials: corsConfig.AllowCredentials,
		MaxAge:           corsConfig.MaxAge,
	}
	if len(corsConfig.TrustedDomains) > 0 {
		allowed := make(map[string]bool, len(corsConfig.AllowOrigins))
		for _, o := range corsConfig.AllowOrigins {
			allowed[o] = true
		}
		cfg.AllowOrigins = nil
		// 动态校验来源
		cfg.AllowOriginFunc = func(origin string) bool {
			if allowed[origin] {
				return true
			}
			for _, domain := range corsConfig.TrustedDomains {
				if strings.HasSuffix(origin, domain) {
					return true
				}
			}
			return false
		}
	}
	return cors.New(cfg)
}

// TimeoutMiddleware 给后续处理器设置截止时间，后端调用会据此提前结束
func TimeoutMiddleware(seconds int) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if seconds <= 0 {
			ctx.Next(c)
			return
		}
		timeoutCtx, cancel := context.WithTimeout(c, time.Duration(seconds)*time.Second)
		defer cancel()

		ctx.Next(timeoutCtx)

		if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			hlog.CtxWarnf(timeoutCtx, "request exceeded %ds path=%s", seconds, ctx.Path())
		}
	}
}

// RateLimitMiddleware 令牌桶限流，整个进程共享一个桶
func RateLimitMiddleware(cfg config.RateLimitConfig) app.HandlerFunc {
	if cfg.Rate <= 0 {
		return func(c context.Context, ctx *app.RequestContext) { ctx.Next(c) }
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(cfg.Rate) + 1
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.Rate), burst)

	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.Allow() {
			hlog.CtxInfof(c, "[RATE LIMIT] path=%s", ctx.Path())
			ctx.AbortWithStatusJSON(429, utils.H{
				"code":    429001,
				"message": "too many requests",
			})
			return
		}
		ctx.Next(c)
	}
}

// SecurityCheckMiddleware 全局安全校验中间件
func SecurityCheckMiddleware(sec config.SecurityConfig) app.HandlerFunc {
	// 只检查查询参数；表单内容原样交给后端，页面输出统一转义
	xssRegex := regexp.MustCompile(`(?i)<script.*?>|</script>|javascript:|onerror=`)
	allowed := make(map[string]bool, len(sec.AllowedMethods))
	for _, m := range sec.AllowedMethods {
		allowed[strings.ToUpper(m)] = true
	}

	return func(c context.Context, ctx *app.RequestContext) {
		// 防护机制1：检查User-Agent
		if isInvalidUserAgent(ctx) {
			securityResponse(c, ctx, 400001, "missing required header: User-Agent", 400)
			return
		}

		// 防护机制2：请求体大小限制
		if sec.MaxBodySize > 0 && int64(ctx.Request.Header.ContentLength()) > sec.MaxBodySize {
			securityResponse(c, ctx, 413001, "request body exceeds max size", 413)
			return
		}

		// 防护机制3：参数恶意字符检查
		if hasMaliciousQuery(ctx, xssRegex) {
			securityResponse(c, ctx, 422001, "request contains invalid characters", 422)
			return
		}

		// 防护机制4：检查HTTP方法
		if len(allowed) > 0 && !allowed[string(ctx.Method())] {
			securityResponse(c, ctx, 405001, "method not allowed", 405)
			return
		}

		ctx.Next(c)
	}
}

// 辅助方法：判断User-Agent合法性
func isInvalidUserAgent(ctx *app.RequestContext) bool {
	return len(ctx.GetHeader("User-Agent")) == 0
}

func hasMaliciousQuery(ctx *app.RequestContext, xss *regexp.Regexp) bool {
	var found int32
	ctx.QueryArgs().VisitAll(func(key, value []byte) {
		if atomic.LoadInt32(&found) == 1 {
			return // 已经找到匹配，跳过后续检查
		}
		if xss.Match(key) || xss.Match(value) {
			atomic.StoreInt32(&found, 1)
		}
	})
	return atomic.LoadInt32(&found) == 1
}

// 安全响应统一处理
func securityResponse(c context.Context, ctx *app.RequestContext, code int, msg string, status int) {
	hlog.CtxWarnf(c, "SecurityAlert[code=%d]: %s path=%s", code, msg, ctx.Path())
	ctx.AbortWithStatusJSON(status, utils.H{
		"code":    code,
		"message": msg,
	})
}
