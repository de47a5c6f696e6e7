// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/entrypoint/controller"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine           *gin.Engine
	healthController *controller.HealthController
	reportController *controller.ReportController
	rawController    *controller.RawController
	syncController   *controller.SyncController
	basicAuth        *middleware.BasicAuth
	rateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	reportController *controller.ReportController,
	rawController *controller.RawController,
	syncController *controller.SyncController,
	basicAuth *middleware.BasicAuth,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController: healthController,
		reportController: reportController,
		rawController:    rawController,
		syncController:   syncController,
		basicAuth:        basicAuth,
		rateLimiter:      rateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	r.engine.Use(middleware.Metrics())

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	if r.rateLimiter != nil {
		v1.Use(r.rateLimiter.Middleware())
	}

	// The demo report is shared through its token and stays outside the
	// authenticated group. It lives under /demo because a static "demo"
	// segment cannot coexist with the :year parameter in the routing tree.
	if r.reportController != nil {
		v1.GET("/demo/:token", r.reportController.GetDemoReport)
	}

	authed := v1.Group("")
	if r.basicAuth != nil {
		authed.Use(r.basicAuth.Middleware())
	}

	if r.reportController != nil {
		reports := authed.Group("/reports")
		{
			reports.GET("/:year", r.reportController.GetReport)
			reports.POST("/:year/simulate", r.reportController.Simulate)
			reports.GET("/:year/hours", r.reportController.GetHoursDetail)
		}
	}

	if r.rawController != nil {
		authed.GET("/raw/:resource", r.rawController.GetDocuments)
	}

	if r.syncController != nil {
		sync := authed.Group("/sync")
		{
			sync.POST("", r.syncController.TriggerSync)
			sync.GET("/tasks", r.syncController.ListTasks)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
