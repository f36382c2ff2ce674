package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := InitConfig()
		require.NoError(t, err)

		assert.Equal(t, "memory", cfg.Store.Backend)
		assert.Equal(t, "local", cfg.Mail.Driver)
		assert.Equal(t, "8000", cfg.Server.HTTPPort)
		assert.Equal(t, 60*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 5*time.Minute, cfg.Cache.CityTTL)
		assert.False(t, cfg.Auth.Enabled)
		assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("CITYINFO_STORE_BACKEND", "postgres")
		t.Setenv("CITYINFO_MAIL_DRIVER", "cloud")

		cfg, err := InitConfig()
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Store.Backend)
		assert.Equal(t, "cloud", cfg.Mail.Driver)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("CITYINFO_STORE_BACKEND", "mongo")

		_, err := InitConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported store backend")
	})
}

func TestConfig_Validate(t *testing.T) {
	var cfg Config
	cfg.Store.Backend = "memory"
	cfg.Mail.Driver = "local"
	require.NoError(t, cfg.Validate())

	cfg.Auth.Enabled = true
	assert.Error(t, cfg.Validate(), "auth without a secret must be rejected")

	cfg.Auth.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.Mail.Driver = "pigeon"
	assert.Error(t, cfg.Validate())
}
