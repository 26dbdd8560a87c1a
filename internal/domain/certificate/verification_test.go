package certificate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const verifyBase = "https://tracks.microlearn.university/verify"

func newVerifyService(storage *fakeStorage, cache *fakeCache, now time.Time) *VerificationService {
	var kc KeyCache
	if cache != nil {
		kc = cache
	}
	resolver := NewResolver(storage, 3, zerolog.Nop()).WithClock(fixedClock(now))
	return NewVerificationService(storage, kc, resolver, nil, time.Hour, time.Hour, verifyBase, zerolog.Nop()).
		WithClock(fixedClock(now))
}

func TestVerificationService_Verify_RoundTrip(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	storage := newFakeStorage()
	cache := newFakeCache()

	gen := newTestService(storage, cache, nil, &fakeRenderer{}).WithClock(fixedClock(now))
	cert, err := gen.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	svc := newVerifyService(storage, cache, now)
	ver, err := svc.Verify(context.Background(), cert.CertificateID)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if ver.CertificateID != cert.CertificateID {
		t.Errorf("Verify() ID = %q, want %q", ver.CertificateID, cert.CertificateID)
	}
	if ver.UserName != "Certificate Holder" {
		t.Errorf("Verify() user_name = %q, want fixed placeholder", ver.UserName)
	}
	if ver.UserEmail != "certificate@microlearn.university" {
		t.Errorf("Verify() user_email = %q, want fixed placeholder", ver.UserEmail)
	}
	if ver.Title != "Certificate" {
		t.Errorf("Verify() title = %q, want fixed placeholder", ver.Title)
	}
	if ver.Kind != KindTrack {
		t.Errorf("Verify() kind = %q, want %q", ver.Kind, KindTrack)
	}
	if len(ver.ItemsCompleted) != 0 {
		t.Error("Verify() must not expose completion items")
	}
	if ver.VerificationURL != verifyBase+"/"+cert.CertificateID {
		t.Errorf("Verify() verification_url = %q", ver.VerificationURL)
	}
	if !strings.Contains(ver.DownloadURL, cert.StorageKey) {
		t.Errorf("Verify() download_url = %q, want signed URL for %q", ver.DownloadURL, cert.StorageKey)
	}
}

func TestVerificationService_Verify_NoCacheConfigured(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	storage := newFakeStorage()
	storage.objects[KeyFor("CERT-20250315-AAAA1111", now)] = []byte("pdf")

	svc := newVerifyService(storage, nil, now)
	if _, err := svc.Verify(context.Background(), "CERT-20250315-AAAA1111"); err != nil {
		t.Fatalf("Verify() without cache error = %v", err)
	}
}

func TestVerificationService_Verify_Unknown(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc := newVerifyService(newFakeStorage(), newFakeCache(), now)

	_, err := svc.Verify(context.Background(), "CERT-20250101-MISSING0")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Verify() error = %v, want ErrNotFound", err)
	}
}

func TestVerificationService_Verify_StaleCacheEntryInvalidated(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	storage := newFakeStorage()
	cache := newFakeCache()
	cache.entries["CERT-20250215-BBBB2222"] = "certificates/2025/02/CERT-20250215-BBBB2222.pdf"

	svc := newVerifyService(storage, cache, now)
	_, err := svc.Verify(context.Background(), "CERT-20250215-BBBB2222")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Verify() error = %v, want ErrNotFound", err)
	}
	if cache.deleteCalls != 1 {
		t.Errorf("stale cache entry delete calls = %d, want 1", cache.deleteCalls)
	}
	if _, ok := cache.entries["CERT-20250215-BBBB2222"]; ok {
		t.Error("stale cache entry was not removed")
	}
}

func TestVerificationService_Verify_StaleCacheThenFound(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	storage := newFakeStorage()
	currentKey := KeyFor("CERT-20250315-CCCC3333", now)
	storage.objects[currentKey] = []byte("pdf")

	cache := newFakeCache()
	cache.entries["CERT-20250315-CCCC3333"] = "certificates/2024/06/CERT-20250315-CCCC3333.pdf"

	svc := newVerifyService(storage, cache, now)
	ver, err := svc.Verify(context.Background(), "CERT-20250315-CCCC3333")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !strings.Contains(ver.DownloadURL, currentKey) {
		t.Errorf("Verify() download_url = %q, want URL for %q", ver.DownloadURL, currentKey)
	}
	if cache.entries["CERT-20250315-CCCC3333"] != currentKey {
		t.Errorf("cache entry = %q, want refreshed to %q", cache.entries["CERT-20250315-CCCC3333"], currentKey)
	}
}

func TestVerificationService_Verify_CacheErrorDegradesToSearch(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	storage := newFakeStorage()
	storage.objects[KeyFor("CERT-20250315-DDDD4444", now)] = []byte("pdf")

	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")

	svc := newVerifyService(storage, cache, now)
	if _, err := svc.Verify(context.Background(), "CERT-20250315-DDDD4444"); err != nil {
		t.Fatalf("Verify() error = %v, cache failure must degrade not fail", err)
	}
}

func TestVerificationService_GetStatus(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

	t.Run("completed when resolvable", func(t *testing.T) {
		storage := newFakeStorage()
		storage.objects[KeyFor("CERT-20250315-EEEE5555", now)] = []byte("pdf")
		svc := newVerifyService(storage, nil, now)

		status := svc.GetStatus(context.Background(), "CERT-20250315-EEEE5555")
		if status.Status != "completed" {
			t.Errorf("GetStatus() = %q, want completed", status.Status)
		}
		if status.DownloadURL == "" {
			t.Error("GetStatus() completed without download URL")
		}
		if status.ErrorMessage != "" {
			t.Errorf("GetStatus() error message = %q, want empty", status.ErrorMessage)
		}
	})

	t.Run("not_found for unknown ID", func(t *testing.T) {
		svc := newVerifyService(newFakeStorage(), nil, now)
		status := svc.GetStatus(context.Background(), "CERT-20250101-MISSING0")
		if status.Status != "not_found" {
			t.Errorf("GetStatus() = %q, want not_found", status.Status)
		}
		if status.ErrorMessage != "Certificate not found" {
			t.Errorf("GetStatus() error message = %q", status.ErrorMessage)
		}
	})

	t.Run("not_found when backend is down", func(t *testing.T) {
		storage := newFakeStorage()
		storage.existsErr = errors.New("connection refused")
		svc := newVerifyService(storage, nil, now)

		status := svc.GetStatus(context.Background(), "CERT-20250315-EEEE5555")
		if status.Status != "not_found" {
			t.Errorf("GetStatus() = %q, want not_found", status.Status)
		}
	})
}

func TestVerificationService_DownloadURL(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	storage := newFakeStorage()
	key := KeyFor("CERT-20250315-FFFF6666", now)
	storage.objects[key] = []byte("pdf")

	svc := newVerifyService(storage, nil, now)

	t.Run("uses requested ttl", func(t *testing.T) {
		url, err := svc.DownloadURL(context.Background(), "CERT-20250315-FFFF6666", 30*time.Minute)
		if err != nil {
			t.Fatalf("DownloadURL() error = %v", err)
		}
		if !strings.Contains(url, "expires=1800") {
			t.Errorf("DownloadURL() = %q, want 30m expiry", url)
		}
	})

	t.Run("falls back to default ttl", func(t *testing.T) {
		url, err := svc.DownloadURL(context.Background(), "CERT-20250315-FFFF6666", 0)
		if err != nil {
			t.Fatalf("DownloadURL() error = %v", err)
		}
		if !strings.Contains(url, "expires=3600") {
			t.Errorf("DownloadURL() = %q, want default 1h expiry", url)
		}
	})

	t.Run("unknown ID is not found", func(t *testing.T) {
		_, err := svc.DownloadURL(context.Background(), "CERT-20250101-MISSING0", time.Minute)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("DownloadURL() error = %v, want ErrNotFound", err)
		}
	})
}
