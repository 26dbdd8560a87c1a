package storage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/microlearn/certificate-api/internal/config"
	"github.com/microlearn/certificate-api/internal/domain/certificate"
)

// New selects the storage backend variant from configuration. Both variants
// satisfy certificate.Storage; nothing downstream knows which one is in play.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (certificate.Storage, error) {
	if cfg.IsLocalStorage() {
		return NewLocalStorage(cfg, log)
	}
	return NewS3Storage(ctx, cfg, log)
}
