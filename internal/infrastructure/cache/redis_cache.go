package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/microlearn/certificate-api/internal/config"
	"github.com/microlearn/certificate-api/internal/domain/certificate"
)

const (
	certKeyPrefix  = "cert:"
	batchKeyPrefix = "batch:"
)

// RedisCache maps certificate IDs to resolved storage keys and tracks batch
// job metadata. It satisfies both certificate.KeyCache and certificate.JobStore.
type RedisCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// New connects to Redis. The cache is optional infrastructure: connection
// failures here are reported so main can log and continue without it.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*RedisCache, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("CERT_REDIS_URL is not set")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	logger := log.With().Str("component", "redis-cache").Logger()
	logger.Info().Msg("connected to redis cache")
	return &RedisCache{client: client, log: logger}, nil
}

// Get returns the cached storage key for the certificate, or "" on miss.
func (r *RedisCache) Get(ctx context.Context, certificateID string) (string, error) {
	val, err := r.client.Get(ctx, certKeyPrefix+certificateID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("cache get %s: %w", certificateID, err)
	}
	return val, nil
}

// Set records the certificate's storage key with the given TTL.
func (r *RedisCache) Set(ctx context.Context, certificateID, key string, ttl time.Duration) error {
	if err := r.client.Set(ctx, certKeyPrefix+certificateID, key, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", certificateID, err)
	}
	return nil
}

// Delete invalidates the certificate's cache entry.
func (r *RedisCache) Delete(ctx context.Context, certificateID string) error {
	if err := r.client.Del(ctx, certKeyPrefix+certificateID).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", certificateID, err)
	}
	return nil
}

// SaveJob records batch job metadata under the job ID. Only metadata is
// persisted; per-certificate detail is never written here.
func (r *RedisCache) SaveJob(ctx context.Context, job *certificate.BatchJob) error {
	fields := map[string]interface{}{
		"total":      job.TotalCertificates,
		"status":     string(job.Status),
		"created_at": job.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := r.client.HSet(ctx, batchKeyPrefix+job.JobID, fields).Err(); err != nil {
		return fmt.Errorf("save job %s: %w", job.JobID, err)
	}
	return nil
}

// GetJob loads batch job metadata. Returns (nil, nil) when the job is unknown.
func (r *RedisCache) GetJob(ctx context.Context, jobID string) (*certificate.BatchJob, error) {
	fields, err := r.client.HGetAll(ctx, batchKeyPrefix+jobID).Result()
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	job := &certificate.BatchJob{
		JobID:  jobID,
		Status: certificate.BatchStatus(fields["status"]),
	}
	if total, err := strconv.Atoi(fields["total"]); err == nil {
		job.TotalCertificates = total
	}
	if createdAt, err := time.Parse(time.RFC3339, fields["created_at"]); err == nil {
		job.CreatedAt = createdAt
	}
	return job, nil
}

// Health pings the Redis server.
func (r *RedisCache) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
