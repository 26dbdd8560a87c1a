//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/microlearn/certificate-api/internal/config"
	"github.com/microlearn/certificate-api/internal/infrastructure/logger"
	"github.com/microlearn/certificate-api/internal/infrastructure/storage"
	"github.com/microlearn/certificate-api/internal/interfaces/httpserver"
)

var certificateSet = wire.NewSet(
	storage.New,
	provideRedis,
	provideGenerationService,
	provideVerificationService,
	provideHandlerProvider,
)

// BuildApplication assembles the certificate API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		certificateSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}
