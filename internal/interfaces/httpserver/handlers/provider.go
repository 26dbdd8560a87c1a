package handlers

import (
	"github.com/rs/zerolog"

	"github.com/microlearn/certificate-api/internal/config"
)

// Provider wires HTTP handlers.
type Provider struct {
	Certificate *CertificateHandler
	Health      *HealthHandler
}

func NewProvider(cfg *config.Config, gen Generator, verifier Verifier, storageHealth, cacheHealth HealthChecker, log zerolog.Logger) *Provider {
	return &Provider{
		Certificate: NewCertificateHandler(cfg, gen, verifier, log),
		Health:      NewHealthHandler(cfg.ServiceName, storageHealth, cacheHealth, log),
	}
}
