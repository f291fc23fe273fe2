package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"recipehub-web/pkg/core/recipe/repository/dao"
	"recipehub-web/pkg/web/session"
)

type HealthCheckHandler struct {
	api      dao.RecipeAPI
	sessions session.Provider
}

func NewHealthCheckHandler(api dao.RecipeAPI, sessions session.Provider) *HealthCheckHandler {
	return &HealthCheckHandler{api: api, sessions: sessions}
}

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Components []ComponentStatus `json:"components,omitempty"`
}

// 启用关键组件标签判断
type ComponentStatus struct {
	Name    string        `json:"name"`
	Status  string        `json:"status"`
	IsCore  bool          `json:"is_core"`
	Latency time.Duration `json:"latency,omitempty"`
	Error   string        `json:"error,omitempty"`
}

var startupTime = time.Now()

// AdvancedHealthCheck 检查后端 API 与会话存储
func (h *HealthCheckHandler) AdvancedHealthCheck(ctx context.Context, c *app.RequestContext) {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(startupTime).Round(time.Second).String(),
		Components: []ComponentStatus{
			checkComponent(ctx, "recipe-api", true, h.api.Health),
			checkComponent(ctx, "session-store:"+h.sessions.Name(), h.sessions.Name() != "cookie", h.sessions.Ping),
		},
	}

	if hasCriticalErrors(status.Components) {
		status.Status = "degraded"
		c.JSON(503, status)
		return
	}

	c.JSON(200, status)
}

func checkComponent(ctx context.Context, name string, core bool, probe func(context.Context) error) ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := probe(ctx)
	comp := ComponentStatus{Name: name, Status: "ok", IsCore: core, Latency: time.Since(start)}
	if err != nil {
		comp.Status = "error"
		comp.Error = err.Error()
	}
	return comp
}

func hasCriticalErrors(components []ComponentStatus) bool {
	for _, comp := range components {
		// 核心组件状态异常或任意组件发生严重错误
		if (comp.IsCore && comp.Status != "ok") || comp.Status == "critical" {
			return true
		}
	}
	return false
}
