package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Security.SessionTTL)
	assert.Equal(t, "admin", cfg.Security.AdminUsername)
	assert.Equal(t, "admin123", cfg.Security.AdminPassword)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "portfolio:tasks", cfg.Redis.Stream)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxResumeBytes)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_SECURITY_JWTSECRET", "fixture-secret")
	t.Setenv("PORTFOLIO_SECURITY_ADMINUSERNAME", "alice")
	t.Setenv("PORTFOLIO_ENVIRONMENT", "production")
	t.Setenv("PORTFOLIO_SECURITY_SESSIONTTL", "2h")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "fixture-secret", cfg.Security.JWTSecret)
	assert.Equal(t, "alice", cfg.Security.AdminUsername)
	assert.Equal(t, 2*time.Hour, cfg.Security.SessionTTL)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	body := []byte("database:\n  driver: memory\nstorage:\n  driver: memory\nallowcorsorigins: [\"https://example.com\"]\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, []string{"https://example.com"}, cfg.AllowCORSOrigins)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
