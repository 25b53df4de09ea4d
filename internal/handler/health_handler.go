package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessChecker reports whether optional backends are usable.
type ReadinessChecker interface {
	RasterizerAvailable() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	backends ReadinessChecker
	provider string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(backends ReadinessChecker, provider string) *HealthHandler {
	return &HealthHandler{backends: backends, provider: provider}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. Image checks work without the rasterizer,
// so a missing one degrades the service instead of failing readiness.
func (h *HealthHandler) Readiness(c *gin.Context) {
	pdf := h.backends != nil && h.backends.RasterizerAvailable()
	status := "ok"
	if !pdf {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      status,
		"provider":    h.provider,
		"pdf_enabled": pdf,
	})
}
