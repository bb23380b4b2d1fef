package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "./storage/shotboard.db", cfg.DatabaseURL)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, time.Minute, cfg.RateLimitPeriod)
	assert.Equal(t, 8, cfg.AggregateWorkers)
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestParse_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shots.example")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")
	_, err = Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS_ALLOWED_ORIGINS")

	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParse_PostgresFromParts(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_USER", "shot")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "shots")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "postgres://shot:p%40ss@db:5432/shots?sslmode=disable", cfg.DatabaseURL)
}

func TestParse_UnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mysql")
	_, err := Parse()
	assert.Error(t, err)
}
