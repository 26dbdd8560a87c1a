package certificate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/microlearn/certificate-api/internal/infrastructure/observability"
)

// Placeholder identity values. The recipient record is owned by an upstream
// system of record; this service attests existence only and passes fixed
// values through. Do not enrich these from storage metadata.
const (
	placeholderName  = "Certificate Holder"
	placeholderEmail = "certificate@microlearn.university"
	placeholderTitle = "Certificate"
)

// CacheMetrics records key cache lookup outcomes. May be nil.
type CacheMetrics interface {
	RecordCacheLookup(result string)
}

// VerificationService handles lookup-only flows: resolve a certificate's
// storage key, confirm it exists and hand out time-limited access URLs.
type VerificationService struct {
	storage       Storage
	cache         KeyCache
	resolver      *Resolver
	metrics       CacheMetrics
	cacheTTL      time.Duration
	presignTTL    time.Duration
	verifyBaseURL string
	log           zerolog.Logger
	now           func() time.Time
}

// NewVerificationService builds the verification service. cache and metrics
// may be nil.
func NewVerificationService(storage Storage, cache KeyCache, resolver *Resolver, metrics CacheMetrics, cacheTTL, presignTTL time.Duration, verifyBaseURL string, log zerolog.Logger) *VerificationService {
	return &VerificationService{
		storage:       storage,
		cache:         cache,
		resolver:      resolver,
		metrics:       metrics,
		cacheTTL:      cacheTTL,
		presignTTL:    presignTTL,
		verifyBaseURL: verifyBaseURL,
		log:           log.With().Str("component", "verification-service").Logger(),
		now:           time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (v *VerificationService) WithClock(now func() time.Time) *VerificationService {
	v.now = now
	return v
}

// Verify confirms a certificate exists and returns a verification record with
// a fresh one-hour download URL. Returns ErrNotFound when nothing resolves.
func (v *VerificationService) Verify(ctx context.Context, certificateID string) (*Verification, error) {
	ctx, span := observability.StartVerifySpan(ctx, certificateID)
	defer span.End()

	key, err := v.resolveKey(ctx, certificateID)
	if err != nil {
		return nil, err
	}

	url, err := v.storage.PresignGet(ctx, key, v.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: presign %s: %v", ErrBackendUnavailable, key, err)
	}

	return &Verification{
		CertificateID:   certificateID,
		UserName:        placeholderName,
		UserEmail:       placeholderEmail,
		Kind:            KindTrack,
		Title:           placeholderTitle,
		ItemsCompleted:  []string{},
		IssuedDate:      v.now().UTC(),
		VerificationURL: fmt.Sprintf("%s/%s", v.verifyBaseURL, certificateID),
		DownloadURL:     url,
	}, nil
}

// GetStatus reports whether the certificate is retrievable. It never returns
// an error: unresolved and backend-failed lookups both map to "not_found"
// with an error message.
func (v *VerificationService) GetStatus(ctx context.Context, certificateID string) *Status {
	key, err := v.resolveKey(ctx, certificateID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			v.log.Warn().Err(err).Str("certificate_id", certificateID).Msg("status lookup failed")
		}
		return &Status{
			CertificateID: certificateID,
			Status:        "not_found",
			ErrorMessage:  "Certificate not found",
		}
	}

	url, err := v.storage.PresignGet(ctx, key, v.presignTTL)
	if err != nil {
		v.log.Warn().Err(err).Str("key", key).Msg("presign failed during status lookup")
		return &Status{
			CertificateID: certificateID,
			Status:        "not_found",
			ErrorMessage:  "Certificate not found",
		}
	}

	now := v.now().UTC()
	return &Status{
		CertificateID: certificateID,
		Status:        "completed",
		CreatedAt:     &now,
		UpdatedAt:     &now,
		DownloadURL:   url,
	}
}

// DownloadURL issues a fresh signed URL for an existing certificate.
func (v *VerificationService) DownloadURL(ctx context.Context, certificateID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = v.presignTTL
	}
	key, err := v.resolveKey(ctx, certificateID)
	if err != nil {
		return "", err
	}
	url, err := v.storage.PresignGet(ctx, key, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %v", ErrBackendUnavailable, key, err)
	}
	return url, nil
}

// resolveKey runs the shared resolution path: cache lookup, resolver search
// with the cached key as hint, stale-entry invalidation, and cache
// re-population after a successful full search.
func (v *VerificationService) resolveKey(ctx context.Context, certificateID string) (string, error) {
	hint := ""
	if v.cache != nil {
		cached, err := v.cache.Get(ctx, certificateID)
		switch {
		case err != nil:
			v.recordCacheLookup("error")
			v.log.Debug().Err(err).Str("certificate_id", certificateID).Msg("cache lookup failed, treating as miss")
		case cached != "":
			v.recordCacheLookup("hit")
			hint = cached
		default:
			v.recordCacheLookup("miss")
		}
	}

	key, staleHint, err := v.resolver.Resolve(ctx, certificateID, hint)
	if staleHint && v.cache != nil {
		if delErr := v.cache.Delete(ctx, certificateID); delErr != nil {
			v.log.Debug().Err(delErr).Str("certificate_id", certificateID).Msg("stale cache invalidation failed")
		}
	}
	if err != nil {
		return "", err
	}

	if v.cache != nil && key != hint {
		if setErr := v.cache.Set(ctx, certificateID, key, v.cacheTTL); setErr != nil {
			v.log.Debug().Err(setErr).Str("certificate_id", certificateID).Msg("cache write failed, continuing")
		}
	}
	return key, nil
}

func (v *VerificationService) recordCacheLookup(result string) {
	if v.metrics != nil {
		v.metrics.RecordCacheLookup(result)
	}
}
