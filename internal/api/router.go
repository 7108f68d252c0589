package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"constructhub/pkg/otel"
	"constructhub/pkg/rbac"
)

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

type RouterConfig struct {
	JWTSecret   string
	ServiceName string
	// Tracing adds the otelgin middleware.
	Tracing bool
	Checks  map[string]ReadinessCheck
}

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	cfg RouterConfig,
	projectHandler *ProjectHandler,
	reportHandler *ReportHandler,
	notificationHandler *NotificationHandler,
	adminHandler *AdminHandler,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otel.GinMiddleware(cfg.ServiceName))
	}
	r.Use(TraceMiddleware(), RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/readyz", readyHandler(cfg.Checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := r.Group("/")
	authed.Use(AuthMiddleware(cfg.JWTSecret))
	{
		projects := authed.Group("/projects/:id")
		projects.GET("", RequirePermission(rbac.PermissionReadProject), projectHandler.GetProject)
		projects.GET("/budget", RequirePermission(rbac.PermissionReadProject), projectHandler.GetBudget)
		projects.GET("/progress", RequirePermission(rbac.PermissionReadProject), projectHandler.GetProgress)
		projects.GET("/overview", RequirePermission(rbac.PermissionReadProject), projectHandler.GetOverview)
		projects.PATCH("/stages/:index", RequirePermission(rbac.PermissionUpdateProject), projectHandler.SetStageStatus)
		projects.GET("/updates", RequirePermission(rbac.PermissionReadProject), projectHandler.ListUpdates)
		projects.POST("/updates", RequirePermission(rbac.PermissionUpdateProject), projectHandler.PostUpdate)

		authed.GET("/reports/revenue", RequirePermission(rbac.PermissionReadRevenue), reportHandler.GetRevenue)

		authed.POST("/notifications/fanout", RequirePermission(rbac.PermissionSendNotification), notificationHandler.FanOut)
		authed.GET("/notifications", notificationHandler.List)
		authed.POST("/notifications/:id/read", notificationHandler.MarkRead)

		admin := authed.Group("/admin", RequirePermission(rbac.PermissionReplayOutbox))
		admin.POST("/outbox/replay", adminHandler.ReplayOutboxEvent)
		admin.POST("/outbox/replay-failed", adminHandler.ReplayFailedEvents)
	}

	return &Router{Engine: r}
}

func readyHandler(checks map[string]ReadinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		failed := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "failed": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
