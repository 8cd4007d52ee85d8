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

	assert.Equal(t, "Storefront API", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(1024*1024), cfg.Upload.MaxImageSize)
	assert.Contains(t, cfg.Upload.AllowedExtensions, "jpg")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_ACCESS_EXPIRE", "15m")
	t.Setenv("JWT_SECRET", "an-explicit-secret-of-sufficient-length")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
}

func TestValidateRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetDatabaseDSN(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "storefront_db")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_SSL_MODE", "disable")

	cfg, err := Load()
	require.NoError(t, err)

	dsn := cfg.GetDatabaseDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=storefront_db")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestGetRedisAddr(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cache.internal:6380", cfg.GetRedisAddr())
}
