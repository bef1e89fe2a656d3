package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-dashboard/internal/dashboard"
	"resume-dashboard/internal/documents"
	"resume-dashboard/internal/scores"
	"resume-dashboard/internal/services/health"
	"resume-dashboard/internal/shared/auth"
	"resume-dashboard/internal/shared/config"
	"resume-dashboard/internal/shared/metrics"
	"resume-dashboard/internal/shared/server/middleware"
	"resume-dashboard/internal/shared/server/respond"
)

// RouterDeps are the handlers and services the router mounts.
type RouterDeps struct {
	Config           config.Config
	Verifier         *auth.Verifier
	Health           *health.Service
	DashboardHandler *dashboard.Handler
	DocumentHandler  *documents.Handler
	ScoreHandler     *scores.Handler
	// RateLimiter backs the dashboard and score routes. Nil creates one.
	RateLimiter *middleware.RateLimiter
}

// Per-caller request budgets. Dashboard reads are polled by the UI.
var rateLimitRules = map[string]middleware.RateLimitRule{
	"DEFAULT":   {Rate: 2, Burst: 20},
	"DASHBOARD": {Rate: 5, Burst: 30},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	authed := api.Group("", middleware.Auth(deps.Verifier))
	authed.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules:        rateLimitRules,
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet && c.FullPath() == "/api/v1/dashboard" {
				return "DASHBOARD"
			}
			return "DEFAULT"
		},
		Limiter: deps.RateLimiter,
	}))

	registerMeRoutes(authed)
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.RegisterRoutes(authed)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(authed)
	}
	if deps.ScoreHandler != nil {
		deps.ScoreHandler.RegisterRoutes(authed)
	}
	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
