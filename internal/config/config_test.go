package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("BaseURL prefers explicit site URL", func(t *testing.T) {
		cfg := &Config{SiteURL: "https://dengeterapi.com/", AppURL: "https://app.example.com", FlyAppName: "clinic"}
		assert.Equal(t, "https://dengeterapi.com", cfg.BaseURL())
	})

	t.Run("BaseURL falls back to app URL", func(t *testing.T) {
		cfg := &Config{AppURL: "https://app.example.com", FlyAppName: "clinic"}
		assert.Equal(t, "https://app.example.com", cfg.BaseURL())
	})

	t.Run("BaseURL falls back to platform hostname", func(t *testing.T) {
		cfg := &Config{FlyAppName: "clinic"}
		assert.Equal(t, "https://clinic.fly.dev", cfg.BaseURL())
	})

	t.Run("BaseURL defaults to localhost", func(t *testing.T) {
		cfg := &Config{}
		assert.Equal(t, "http://localhost:3000", cfg.BaseURL())
	})

	t.Run("EncryptionSecret fallback order", func(t *testing.T) {
		cfg := &Config{AdminEncryptionSecret: "a", AdminSessionSecret: "b", AppSecret: "c"}
		assert.Equal(t, "a", cfg.EncryptionSecret())

		cfg.AdminEncryptionSecret = ""
		assert.Equal(t, "b", cfg.EncryptionSecret())

		cfg.AdminSessionSecret = ""
		assert.Equal(t, "c", cfg.EncryptionSecret())

		cfg.AppSecret = ""
		assert.Equal(t, "", cfg.EncryptionSecret())
	})
}

func TestValidate(t *testing.T) {
	strong := "0123456789abcdef0123456789abcdef"

	t.Run("accepts strong session secret in production", func(t *testing.T) {
		cfg := &Config{SessionSecret: strong}
		assert.NoError(t, cfg.Validate(true))
	})

	t.Run("rejects short session secret in production", func(t *testing.T) {
		cfg := &Config{SessionSecret: "short"}
		assert.Error(t, cfg.Validate(true))
	})

	t.Run("rejects known weak secrets in production", func(t *testing.T) {
		cfg := &Config{SessionSecret: "change-me"}
		assert.Error(t, cfg.Validate(true))
	})

	t.Run("skips checks outside production", func(t *testing.T) {
		cfg := &Config{}
		assert.NoError(t, cfg.Validate(false))
	})
}

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"PORT":         os.Getenv("PORT"),
		"DATABASE_URL": os.Getenv("DATABASE_URL"),
		"REDIS_URL":    os.Getenv("REDIS_URL"),
		"LOG_LEVEL":    os.Getenv("LOG_LEVEL"),
	}
	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	t.Run("loads with defaults", func(t *testing.T) {
		os.Setenv("DATABASE_URL", "postgres://localhost/clinic")
		os.Setenv("REDIS_URL", "redis://localhost:6379")
		os.Unsetenv("PORT")
		os.Unsetenv("LOG_LEVEL")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("fails without required database URL", func(t *testing.T) {
		os.Unsetenv("DATABASE_URL")
		os.Setenv("REDIS_URL", "redis://localhost:6379")

		_, err := Load()
		assert.Error(t, err)
	})
}
