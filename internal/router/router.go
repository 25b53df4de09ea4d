package router

import (
	"github.com/gin-gonic/gin"

	"creativecheck/internal/handler"
	"creativecheck/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	checkH *handler.CheckHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.GET("/formats", checkH.Formats)

	checks := v1.Group("/checks")
	checks.POST("", checkH.Create)
	checks.GET("/:id", checkH.GetByID)
	checks.GET("/:id/export", checkH.Export)
	checks.POST("/:id/publish", checkH.Publish)

	return r
}
