package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/microlearn/certificate-api/internal/config"
	"github.com/microlearn/certificate-api/internal/domain/certificate"
)

const metaSuffix = ".meta.json"

type localMeta struct {
	ContentType string            `json:"content_type"`
	Metadata    map[string]string `json:"metadata"`
}

// LocalStorage stores certificates on the local filesystem. Metadata lives in
// a sidecar <key>.meta.json file next to each object.
type LocalStorage struct {
	basePath    string
	baseURL     string
	serviceName string
	log         zerolog.Logger
}

// NewLocalStorage creates the filesystem backend rooted at the configured path.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	basePath := strings.TrimSpace(cfg.LocalStoragePath)
	if basePath == "" {
		return nil, fmt.Errorf("CERT_LOCAL_STORAGE_PATH is required for the local storage backend")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create local storage directory: %w", err)
	}

	logger := log.With().Str("component", "local-storage").Logger()
	logger.Info().Str("path", basePath).Msg("local storage initialized")

	return &LocalStorage{
		basePath:    basePath,
		baseURL:     strings.TrimSuffix(strings.TrimSpace(cfg.LocalStorageBaseURL), "/"),
		serviceName: cfg.ServiceName,
		log:         logger,
	}, nil
}

func (l *LocalStorage) fullPath(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}

// Upload writes the object and its metadata sidecar.
func (l *LocalStorage) Upload(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	fullPath := l.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	md := map[string]string{
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
		"service":     l.serviceName,
	}
	for k, v := range metadata {
		md[k] = v
	}
	meta, err := json.Marshal(localMeta{ContentType: contentType, Metadata: md})
	if err != nil {
		return fmt.Errorf("marshal metadata for %s: %w", key, err)
	}
	if err := os.WriteFile(fullPath+metaSuffix, meta, 0o644); err != nil {
		return fmt.Errorf("write metadata for %s: %w", key, err)
	}

	l.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("object written")
	return nil
}

// Download reads the object, or returns certificate.ErrNotFound.
func (l *LocalStorage) Download(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(l.fullPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, certificate.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Exists checks for the object file.
func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(l.fullPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the object and its metadata sidecar. Returns false when the
// object was not there to delete.
func (l *LocalStorage) Delete(ctx context.Context, key string) (bool, error) {
	err := os.Remove(l.fullPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove %s: %w", key, err)
	}
	_ = os.Remove(l.fullPath(key) + metaSuffix)
	return true, nil
}

// Metadata reads the sidecar metadata, or returns certificate.ErrNotFound.
func (l *LocalStorage) Metadata(ctx context.Context, key string) (map[string]string, error) {
	raw, err := os.ReadFile(l.fullPath(key) + metaSuffix)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, certificate.ErrNotFound
		}
		return nil, fmt.Errorf("read metadata for %s: %w", key, err)
	}
	var meta localMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", key, err)
	}
	return meta.Metadata, nil
}

// PresignGet returns a direct URL to the file. Local files need no signing:
// the base URL is used when configured, file:// otherwise. The ttl is ignored.
func (l *LocalStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	fullPath := l.fullPath(key)
	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", certificate.ErrNotFound
		}
		return "", fmt.Errorf("stat %s: %w", key, err)
	}

	if l.baseURL != "" {
		return fmt.Sprintf("%s/%s", l.baseURL, filepath.ToSlash(key)), nil
	}
	return fmt.Sprintf("file://%s", fullPath), nil
}

// Health checks that the storage directory is writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	probe := filepath.Join(l.basePath, ".health_check")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("storage directory not writable: %w", err)
	}
	_ = os.Remove(probe)
	return nil
}
