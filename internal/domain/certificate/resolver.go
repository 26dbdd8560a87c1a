package certificate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// graceDayLimit is the day-of-month below which a lookup is allowed to probe
// prior calendar periods. Certificates are filed under the period active at
// generation time, so a request arriving just after a month boundary may need
// to look one or more months back.
const graceDayLimit = 5

// KeyFor derives the storage key for a certificate filed in the calendar
// period containing t. The layout is fixed: certificates/<year>/<month>/<id>.pdf
// with a zero-padded month, UTC calendar.
func KeyFor(certificateID string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("certificates/%04d/%02d/%s.pdf", t.Year(), int(t.Month()), certificateID)
}

// Resolver locates a certificate's storage key from its ID alone. There is no
// index of issued certificates; the resolver reconstructs candidate keys from
// the ID and nearby calendar periods and asks the store which one exists.
type Resolver struct {
	storage  Storage
	lookback int
	now      func() time.Time
	log      zerolog.Logger
}

// NewResolver builds a resolver probing up to lookbackMonths prior periods
// when inside the early-month grace window.
func NewResolver(storage Storage, lookbackMonths int, log zerolog.Logger) *Resolver {
	if lookbackMonths < 0 {
		lookbackMonths = 0
	}
	return &Resolver{
		storage:  storage,
		lookback: lookbackMonths,
		now:      time.Now,
		log:      log.With().Str("component", "location-resolver").Logger(),
	}
}

// WithClock overrides the resolver's clock. Test hook.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve returns the storage key holding certificateID. A non-empty hint
// (typically a cached key) is checked first and short-circuits the period
// search. staleHint is true when the hint was supplied but no longer exists,
// which tells the caller to invalidate its cache entry; the search then
// continues without it.
//
// Outside the grace window only the current period is probed: a certificate
// filed under an older period is unreachable without a cached key. That is a
// documented limitation of index-free lookup, not something to paper over.
func (r *Resolver) Resolve(ctx context.Context, certificateID, hint string) (key string, staleHint bool, err error) {
	if hint != "" {
		exists, err := r.storage.Exists(ctx, hint)
		if err != nil {
			return "", false, fmt.Errorf("%w: head %s: %v", ErrBackendUnavailable, hint, err)
		}
		if exists {
			return hint, false, nil
		}
		staleHint = true
		r.log.Debug().Str("certificate_id", certificateID).Str("hint", hint).Msg("cached key is stale, falling back to period search")
	}

	now := r.now().UTC()
	candidates := []time.Time{now}
	if now.Day() < graceDayLimit {
		year, month := now.Year(), int(now.Month())
		for i := 0; i < r.lookback; i++ {
			month--
			if month < 1 {
				month = 12
				year--
			}
			candidates = append(candidates, time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
		}
	}

	for _, period := range candidates {
		candidate := KeyFor(certificateID, period)
		exists, err := r.storage.Exists(ctx, candidate)
		if err != nil {
			return "", staleHint, fmt.Errorf("%w: head %s: %v", ErrBackendUnavailable, candidate, err)
		}
		if exists {
			return candidate, staleHint, nil
		}
	}

	return "", staleHint, ErrNotFound
}
