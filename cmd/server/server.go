package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/microlearn/certificate-api/internal/config"
	"github.com/microlearn/certificate-api/internal/domain/certificate"
	"github.com/microlearn/certificate-api/internal/infrastructure/cache"
	"github.com/microlearn/certificate-api/internal/infrastructure/logger"
	"github.com/microlearn/certificate-api/internal/infrastructure/metrics"
	"github.com/microlearn/certificate-api/internal/infrastructure/observability"
	"github.com/microlearn/certificate-api/internal/infrastructure/renderer"
	"github.com/microlearn/certificate-api/internal/infrastructure/storage"
	"github.com/microlearn/certificate-api/internal/interfaces/httpserver"
	"github.com/microlearn/certificate-api/internal/interfaces/httpserver/handlers"
)

// Application bundles the long-running pieces of the service.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	storageClient, err := storage.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	redisCache := provideRedis(ctx, cfg, log)
	if redisCache != nil {
		defer redisCache.Close()
	}

	genService := provideGenerationService(cfg, storageClient, redisCache, log)
	verifyService := provideVerificationService(cfg, storageClient, redisCache, log)

	provider := provideHandlerProvider(cfg, storageClient, redisCache, genService, verifyService, log)
	httpServer := httpserver.New(cfg, log, provider)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// provideRedis connects the optional key cache. A missing or unreachable Redis
// degrades the service to resolver-only lookups instead of failing startup.
func provideRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) *cache.RedisCache {
	if cfg.RedisURL == "" {
		log.Info().Msg("no redis configured, key caching disabled")
		return nil
	}
	redisCache, err := cache.New(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, continuing without key cache")
		return nil
	}
	return redisCache
}

func provideGenerationService(cfg *config.Config, storageClient certificate.Storage, redisCache *cache.RedisCache, log zerolog.Logger) *certificate.Service {
	var (
		keyCache certificate.KeyCache
		jobStore certificate.JobStore
	)
	if redisCache != nil {
		keyCache = redisCache
		jobStore = redisCache
	}
	pdfRenderer := renderer.New(cfg, log)
	return certificate.NewService(storageClient, keyCache, jobStore, pdfRenderer, metrics.Recorder{}, cfg.CacheTTL, cfg.PresignTTL, log)
}

func provideVerificationService(cfg *config.Config, storageClient certificate.Storage, redisCache *cache.RedisCache, log zerolog.Logger) *certificate.VerificationService {
	var keyCache certificate.KeyCache
	if redisCache != nil {
		keyCache = redisCache
	}
	resolver := certificate.NewResolver(storageClient, cfg.LookbackMonths, log)
	return certificate.NewVerificationService(storageClient, keyCache, resolver, metrics.Recorder{}, cfg.CacheTTL, cfg.PresignTTL, cfg.VerifyBaseURL, log)
}

func provideHandlerProvider(cfg *config.Config, storageClient certificate.Storage, redisCache *cache.RedisCache, gen *certificate.Service, verify *certificate.VerificationService, log zerolog.Logger) *handlers.Provider {
	var (
		storageHealth handlers.HealthChecker
		cacheHealth   handlers.HealthChecker
	)
	if hc, ok := storageClient.(handlers.HealthChecker); ok {
		storageHealth = hc
	}
	if redisCache != nil {
		cacheHealth = redisCache
	}
	return handlers.NewProvider(cfg, gen, verify, storageHealth, cacheHealth, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
