package api

import (
	"ordercore/api/health"
	apiorder "ordercore/api/order"
	"ordercore/api/middleware"
	"ordercore/config"

	"github.com/gin-gonic/gin"
)

// Router wires gin's engine with the middleware chain and controllers
// this application exposes.
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	healthController *health.Controller
	orderController  *apiorder.Controller
}

// NewRouter builds the engine and installs the middleware chain. Order
// matters: request id must be assigned before anything logs, recovery
// must wrap everything downstream of it.
func NewRouter(
	cfg *config.Config,
	healthController *health.Controller,
	orderController *apiorder.Controller,
) *Router {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.TimeoutMiddleware(cfg.Server.RequestTimeout))
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimiterConfig()))

	return &Router{
		engine:           engine,
		config:           cfg,
		healthController: healthController,
		orderController:  orderController,
	}
}

// SetupRoutes registers every controller's routes under /api/v1.
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(apiGroup)
		r.orderController.RegisterRoutes(apiGroup)
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
