package certificate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/microlearn/certificate-api/internal/infrastructure/observability"
	"github.com/microlearn/certificate-api/utils/certid"
)

const pdfContentType = "application/pdf"

// Storage defines the blob store operations the certificate core needs.
// Implementations must make individual operations atomic; the core performs
// no multi-key transactions.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) (bool, error)
	Metadata(ctx context.Context, key string) (map[string]string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// KeyCache maps certificate IDs to resolved storage keys with expiry.
// A nil KeyCache is legal everywhere; callers treat nil, miss and cache error
// identically.
type KeyCache interface {
	Get(ctx context.Context, certificateID string) (string, error)
	Set(ctx context.Context, certificateID, key string, ttl time.Duration) error
	Delete(ctx context.Context, certificateID string) error
}

// JobStore persists batch job metadata.
type JobStore interface {
	SaveJob(ctx context.Context, job *BatchJob) error
	GetJob(ctx context.Context, jobID string) (*BatchJob, error)
}

// Renderer turns a certificate request into PDF bytes. Pure: no side effects.
type Renderer interface {
	Render(req *Request) ([]byte, error)
}

// Metrics is the observability collaborator the service reports to. May be nil.
type Metrics interface {
	RecordGeneration(certificateType string, durationSec float64)
}

// Service orchestrates certificate generation, storage, caching and URL issuance.
type Service struct {
	storage    Storage
	cache      KeyCache
	jobs       JobStore
	renderer   Renderer
	metrics    Metrics
	cacheTTL   time.Duration
	presignTTL time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

// NewService builds the generation service. cache, jobs and metrics may be
// nil, in which case the service degrades to uncached, unmetered operation.
func NewService(storage Storage, cache KeyCache, jobs JobStore, renderer Renderer, metrics Metrics, cacheTTL, presignTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		storage:    storage,
		cache:      cache,
		jobs:       jobs,
		renderer:   renderer,
		metrics:    metrics,
		cacheTTL:   cacheTTL,
		presignTTL: presignTTL,
		log:        log.With().Str("component", "certificate-service").Logger(),
		now:        time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Validate rejects structurally invalid requests before any side effect.
func (r *Request) Validate() error {
	switch {
	case strings.TrimSpace(r.UserName) == "":
		return fmt.Errorf("%w: user_name is required", ErrValidation)
	case strings.TrimSpace(r.UserEmail) == "":
		return fmt.Errorf("%w: user_email is required", ErrValidation)
	case strings.TrimSpace(r.Title) == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case !r.Kind.Valid():
		return fmt.Errorf("%w: unknown certificate_type %q", ErrValidation, r.Kind)
	}
	return nil
}

// Generate renders, stores and caches one certificate, returning a signed
// download URL. Retried requests carrying the same caller-supplied ID are
// replayed from cache without re-rendering; identical IDs are taken to mean
// identical content, which is the caller's contract to uphold.
//
// Two concurrent first-time requests for the same ID may both render and both
// upload; last write wins. The cache entry is written only after a successful
// upload, so a failed generation leaves no partial state behind.
func (s *Service) Generate(ctx context.Context, req *Request) (*Certificate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.CertificateID == "" {
		req.CertificateID = certid.New()
	}

	ctx, span := observability.StartGenerateSpan(ctx, req.CertificateID, string(req.Kind))
	defer span.End()

	if key := s.cachedKey(ctx, req.CertificateID); key != "" {
		url, err := s.storage.PresignGet(ctx, key, s.presignTTL)
		if err != nil {
			return nil, fmt.Errorf("%w: presign cached key %s: %v", ErrBackendUnavailable, key, err)
		}
		s.log.Debug().Str("certificate_id", req.CertificateID).Str("key", key).Msg("returning cached certificate")
		return &Certificate{
			CertificateID: req.CertificateID,
			StorageKey:    key,
			DownloadURL:   url,
			GeneratedAt:   s.now().UTC(),
			Status:        "cached",
		}, nil
	}

	start := s.now()
	issued := start.UTC()
	if req.IssuedDate != nil {
		issued = req.IssuedDate.UTC()
	}

	pdf, err := s.renderer.Render(req)
	if err != nil {
		return nil, fmt.Errorf("%w: render: %v", ErrGenerationFailed, err)
	}

	key := KeyFor(req.CertificateID, s.now())
	if err := s.storage.Upload(ctx, key, pdf, pdfContentType, s.uploadMetadata(req, issued)); err != nil {
		return nil, fmt.Errorf("%w: upload %s: %v", ErrGenerationFailed, key, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, req.CertificateID, key, s.cacheTTL); err != nil {
			s.log.Debug().Err(err).Str("certificate_id", req.CertificateID).Msg("cache write failed, continuing")
		}
	}

	elapsed := s.now().Sub(start).Seconds()
	s.recordGeneration(string(req.Kind), elapsed)

	url, err := s.storage.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: presign %s: %v", ErrBackendUnavailable, key, err)
	}

	s.log.Info().
		Str("certificate_id", req.CertificateID).
		Str("key", key).
		Str("certificate_type", string(req.Kind)).
		Msg("certificate generated")

	return &Certificate{
		CertificateID: req.CertificateID,
		StorageKey:    key,
		DownloadURL:   url,
		GeneratedAt:   s.now().UTC(),
		Status:        "completed",
	}, nil
}

// GenerateBatch issues many certificates under one job ID. Asynchronous
// batches record job metadata and return immediately; synchronous batches
// generate sequentially and fail whole on the first item failure, with no
// partial-success aggregation.
func (s *Service) GenerateBatch(ctx context.Context, reqs []*Request, async bool) (*BatchJob, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: batch contains no certificates", ErrValidation)
	}

	job := &BatchJob{
		JobID:             certid.NewBatch(),
		TotalCertificates: len(reqs),
		CreatedAt:         s.now().UTC(),
	}

	if async {
		job.Status = BatchQueued
		if s.jobs == nil {
			s.log.Warn().Str("job_id", job.JobID).Msg("no job store configured, batch status will not be queryable")
			return job, nil
		}
		if err := s.jobs.SaveJob(ctx, job); err != nil {
			return nil, fmt.Errorf("%w: save job %s: %v", ErrBackendUnavailable, job.JobID, err)
		}
		return job, nil
	}

	job.Status = BatchProcessing
	certs := make([]*Certificate, 0, len(reqs))
	for _, req := range reqs {
		cert, err := s.Generate(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("batch %s item %s: %w", job.JobID, req.CertificateID, err)
		}
		certs = append(certs, cert)
	}
	job.Status = BatchCompleted
	job.Certificates = certs
	return job, nil
}

// BatchStatus reports the state of an asynchronous batch job.
func (s *Service) BatchStatus(ctx context.Context, jobID string) (*BatchJob, error) {
	if s.jobs == nil {
		return nil, fmt.Errorf("%w: job store not configured", ErrBackendUnavailable)
	}
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("%w: get job %s: %v", ErrBackendUnavailable, jobID, err)
	}
	if job == nil {
		return nil, fmt.Errorf("%w: batch job %s", ErrNotFound, jobID)
	}
	return job, nil
}

func (s *Service) recordGeneration(certificateType string, durationSec float64) {
	if s.metrics != nil {
		s.metrics.RecordGeneration(certificateType, durationSec)
	}
}

func (s *Service) cachedKey(ctx context.Context, certificateID string) string {
	if s.cache == nil {
		return ""
	}
	key, err := s.cache.Get(ctx, certificateID)
	if err != nil {
		s.log.Debug().Err(err).Str("certificate_id", certificateID).Msg("cache lookup failed, treating as miss")
		return ""
	}
	return key
}

func (s *Service) uploadMetadata(req *Request, issued time.Time) map[string]string {
	md := map[string]string{
		"user_name":        req.UserName,
		"user_email":       req.UserEmail,
		"certificate_type": string(req.Kind),
		"title":            req.Title,
		"description":      req.Description,
		"items_completed":  strings.Join(req.ItemsCompleted, ","),
		"issued_date":      issued.Format(time.RFC3339),
	}
	for k, v := range req.Metadata {
		md[k] = v
	}
	return md
}
