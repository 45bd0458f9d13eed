package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	middleware "promote-social.com/promote-social/internal/http/middlewares"
)

type RouteConfig struct {
	RateLimitPerMinute int
	JWTSecret          string
	AdminAPIKey        string
	Gatherer           prometheus.Gatherer
	Logger             *zap.Logger
}

func Register(e *echo.Echo, h *Handler, cfg RouteConfig) {
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	e.GET("/healthz", h.Health)
	if cfg.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("", middleware.JWTAuth([]byte(cfg.JWTSecret)))

	api.POST("/users", h.RegisterUser)
	api.GET("/users/me", h.Me)
	api.GET("/users/:id", h.GetUser)

	api.POST("/tasks", h.CreateTask)
	api.GET("/tasks", h.ListTasks)
	api.GET("/tasks/mine", h.ListMyTasks)
	api.GET("/tasks/:id", h.GetTask)
	api.PATCH("/tasks/:id/status", h.UpdateTaskStatus)
	api.POST("/tasks/:id/tokens", h.RegisterToken)
	api.GET("/tasks/:id/requirements", h.Requirements)
	api.POST("/tasks/:id/completions", h.SubmitCompletion)
	api.GET("/tasks/:id/completions", h.ListTaskCompletions)

	api.GET("/completions/mine", h.ListMyCompletions)
	api.GET("/completions/:id", h.GetCompletion)
	api.POST("/completions/:id/approve", h.ApproveCompletion)
	api.POST("/completions/:id/reject", h.RejectCompletion)

	api.POST("/verifications", h.CreateVerification)
	api.GET("/verifications", h.ListVerifications)
	api.POST("/verifications/:id/verify", h.VerifyPlatform, middleware.AdminKey(cfg.AdminAPIKey))
}
