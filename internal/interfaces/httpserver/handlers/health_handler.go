package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HealthChecker probes one dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler reports per-dependency health. Checkers may be nil when the
// dependency is not configured.
type HealthHandler struct {
	serviceName string
	storage     HealthChecker
	cache       HealthChecker
	log         zerolog.Logger
}

func NewHealthHandler(serviceName string, storage, cache HealthChecker, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		storage:     storage,
		cache:       cache,
		log:         log.With().Str("component", "health-handler").Logger(),
	}
}

// Check handles GET /v1/health. The cache is optional, so a cache failure
// degrades the report without failing it; storage failure returns 503.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	deps := gin.H{}
	healthy := true

	if h.storage != nil {
		if err := h.storage.Health(ctx); err != nil {
			h.log.Warn().Err(err).Msg("storage health check failed")
			deps["storage"] = "unavailable"
			healthy = false
		} else {
			deps["storage"] = "ok"
		}
	}

	if h.cache == nil {
		deps["cache"] = "disabled"
	} else if err := h.cache.Health(ctx); err != nil {
		h.log.Warn().Err(err).Msg("cache health check failed")
		deps["cache"] = "unavailable"
	} else {
		deps["cache"] = "ok"
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"service":      h.serviceName,
		"status":       overall,
		"dependencies": deps,
	})
}
