package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.BackendBaseURL)
	assert.Equal(t, 3*time.Second, cfg.RotationInterval())
	assert.Equal(t, time.Minute, cfg.CatalogTTL())
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL())
	assert.False(t, cfg.S3Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend:5000")
	t.Setenv("ROTATION_INTERVAL_MS", "500")
	t.Setenv("S3_URL", "http://minio:9000")
	t.Setenv("S3_BUCKET", "media")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://coursefinder.lk")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://backend:5000", cfg.BackendBaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.RotationInterval())
	assert.True(t, cfg.S3Enabled())
	assert.Equal(t, []string{"http://localhost:5173", "https://coursefinder.lk"}, cfg.Origins())
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("CATALOG_TTL_SEC", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestOriginsFallsBackToWildcard(t *testing.T) {
	cfg := &Config{AllowedOrigins: " , "}
	assert.Equal(t, []string{"*"}, cfg.Origins())
}
