package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "certificate-api", cfg.ServiceName)
	assert.True(t, cfg.IsS3Storage())
	assert.Equal(t, 3, cfg.LookbackMonths)
	assert.NotEmpty(t, cfg.VerifyBaseURL)
	assert.Equal(t, ":8001", cfg.Addr())
}

func TestLoad_StorageBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		local   bool
		wantErr bool
	}{
		{"explicit s3", "s3", false, false},
		{"local", "local", true, false},
		{"case insensitive", "LOCAL", true, false},
		{"unknown backend", "gcs", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CERT_STORAGE_BACKEND", tt.backend)
			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.local, cfg.IsLocalStorage())
		})
	}
}

func TestLoad_VerifyBaseURLTrimsSlash(t *testing.T) {
	t.Setenv("CERTIFICATE_VERIFY_URL", "https://example.com/verify/")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/verify", cfg.VerifyBaseURL)
}

func TestLoad_PageSize(t *testing.T) {
	t.Setenv("CERT_PAGE_SIZE", "a4")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "A4", cfg.PageSize)

	t.Setenv("CERT_PAGE_SIZE", "tabloid")
	_, err = Load()
	assert.Error(t, err, "unsupported page size must be rejected")
}
