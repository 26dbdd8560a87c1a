package certificate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		at       time.Time
		expected string
	}{
		{
			name:     "zero-pads single digit months",
			id:       "CERT-20250315-ABCD1234",
			at:       time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC),
			expected: "certificates/2025/03/CERT-20250315-ABCD1234.pdf",
		},
		{
			name:     "double digit month",
			id:       "CERT-20251120-ABCD1234",
			at:       time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC),
			expected: "certificates/2025/11/CERT-20251120-ABCD1234.pdf",
		},
		{
			name:     "converts non-UTC times to UTC calendar",
			id:       "CERT-20250701-ABCD1234",
			at:       time.Date(2025, time.June, 30, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600)),
			expected: "certificates/2025/07/CERT-20250701-ABCD1234.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyFor(tt.id, tt.at); got != tt.expected {
				t.Errorf("KeyFor() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResolver_Resolve_HintFastPath(t *testing.T) {
	storage := newFakeStorage()
	storage.objects["certificates/2025/01/CERT-20250110-AAAA1111.pdf"] = []byte("pdf")

	resolver := NewResolver(storage, 3, zerolog.Nop()).
		WithClock(fixedClock(time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)))

	key, stale, err := resolver.Resolve(context.Background(), "CERT-20250110-AAAA1111", "certificates/2025/01/CERT-20250110-AAAA1111.pdf")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if stale {
		t.Error("Resolve() reported a valid hint as stale")
	}
	if key != "certificates/2025/01/CERT-20250110-AAAA1111.pdf" {
		t.Errorf("Resolve() key = %q, want the hinted key", key)
	}
}

func TestResolver_Resolve_StaleHintFallsBack(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	storage := newFakeStorage()
	storage.objects[KeyFor("CERT-20250615-BBBB2222", now)] = []byte("pdf")

	resolver := NewResolver(storage, 3, zerolog.Nop()).WithClock(fixedClock(now))

	key, stale, err := resolver.Resolve(context.Background(), "CERT-20250615-BBBB2222", "certificates/2024/01/CERT-20250615-BBBB2222.pdf")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !stale {
		t.Error("Resolve() did not flag the dead hint as stale")
	}
	if key != KeyFor("CERT-20250615-BBBB2222", now) {
		t.Errorf("Resolve() key = %q, want current-period key", key)
	}
}

func TestResolver_Resolve_GraceWindow(t *testing.T) {
	const id = "CERT-20250228-CCCC3333"

	tests := []struct {
		name      string
		now       time.Time
		storedAt  time.Time
		expectErr error
	}{
		{
			name:     "day 3 finds previous month",
			now:      time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC),
			storedAt: time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "day 3 finds three months back",
			now:      time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC),
			storedAt: time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "day 3 does not look four months back",
			now:       time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC),
			storedAt:  time.Date(2024, time.November, 15, 0, 0, 0, 0, time.UTC),
			expectErr: ErrNotFound,
		},
		{
			name:      "day 10 only probes the current period",
			now:       time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC),
			storedAt:  time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
			expectErr: ErrNotFound,
		},
		{
			name:     "january 2nd walks back across the year boundary",
			now:      time.Date(2026, time.January, 2, 8, 0, 0, 0, time.UTC),
			storedAt: time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newFakeStorage()
			storage.objects[KeyFor(id, tt.storedAt)] = []byte("pdf")

			resolver := NewResolver(storage, 3, zerolog.Nop()).WithClock(fixedClock(tt.now))

			key, _, err := resolver.Resolve(context.Background(), id, "")
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.expectErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if key != KeyFor(id, tt.storedAt) {
				t.Errorf("Resolve() key = %q, want %q", key, KeyFor(id, tt.storedAt))
			}
		})
	}
}

func TestResolver_Resolve_BackendError(t *testing.T) {
	storage := newFakeStorage()
	storage.existsErr = errors.New("connection refused")

	resolver := NewResolver(storage, 3, zerolog.Nop()).
		WithClock(fixedClock(time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)))

	_, _, err := resolver.Resolve(context.Background(), "CERT-20250615-DDDD4444", "")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("Resolve() error = %v, want ErrBackendUnavailable", err)
	}
}

func TestResolver_Resolve_NegativeLookbackClamped(t *testing.T) {
	storage := newFakeStorage()
	resolver := NewResolver(storage, -1, zerolog.Nop()).
		WithClock(fixedClock(time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)))

	_, _, err := resolver.Resolve(context.Background(), "CERT-20250302-EEEE5555", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}
