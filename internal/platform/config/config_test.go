package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_HOST", "db")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Contains(t, cfg.DBConnStr, "host=db ")
	assert.Contains(t, cfg.DBConnStr, "dbname=solution_share")
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", defaultJWTSecret)

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []byte("a-real-secret"), cfg.JWTKey)
}

func TestValidatePoolSizes(t *testing.T) {
	cfg := &Config{Env: "development", JWTKey: []byte("x"), DBMaxOpenConns: 5, DBMaxIdleConns: 10}
	assert.Error(t, cfg.Validate())
}
