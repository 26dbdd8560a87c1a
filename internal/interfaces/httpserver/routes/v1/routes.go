package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/microlearn/certificate-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under the /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")
	group.POST("/certificates/generate", r.handlers.Certificate.Generate)
	group.POST("/certificates/batch", r.handlers.Certificate.GenerateBatch)
	group.GET("/certificates/:id", r.handlers.Certificate.Status)
	group.GET("/certificates/:id/verify", r.handlers.Certificate.Verify)
	group.GET("/certificates/:id/download-url", r.handlers.Certificate.DownloadURL)
	group.GET("/batch/:job_id", r.handlers.Certificate.BatchStatus)
	group.GET("/health", r.handlers.Health.Check)
}
