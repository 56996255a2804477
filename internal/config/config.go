package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Base URL resolution inputs. FlyAppName doubles as the production
	// signal and the platform-provided hostname.
	SiteURL    string `env:"SITE_URL"`
	AppURL     string `env:"APP_URL"`
	FlyAppName string `env:"FLY_APP_NAME"`

	SessionSecret string `env:"SESSION_SECRET"`
	CronSecret    string `env:"CRON_SECRET"`

	// Encryption secret fallback chain for secrets stored at rest.
	AdminEncryptionSecret string `env:"ADMIN_ENCRYPTION_SECRET"`
	AdminSessionSecret    string `env:"ADMIN_SESSION_SECRET"`
	AppSecret             string `env:"APP_SECRET"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPNotifyTo string `env:"SMTP_NOTIFY_TO"`

	WhatsAppAPIURL    string `env:"WHATSAPP_API_URL"`
	WhatsAppToken     string `env:"WHATSAPP_TOKEN"`
	WhatsAppDefaultTo string `env:"WHATSAPP_DEFAULT_TO"`

	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// BaseURL resolves the externally visible site URL: explicit site URL,
// then app URL, then the platform-provided hostname, then localhost.
func (c *Config) BaseURL() string {
	if c.SiteURL != "" {
		return strings.TrimRight(c.SiteURL, "/")
	}
	if c.AppURL != "" {
		return strings.TrimRight(c.AppURL, "/")
	}
	if c.FlyAppName != "" {
		return fmt.Sprintf("https://%s.fly.dev", c.FlyAppName)
	}
	return "http://localhost:3000"
}

// EncryptionSecret resolves the secret protecting stored settings. An empty
// result means encryption is unavailable; callers that actually need to
// encrypt must treat that as fatal.
func (c *Config) EncryptionSecret() string {
	if c.AdminEncryptionSecret != "" {
		return c.AdminEncryptionSecret
	}
	if c.AdminSessionSecret != "" {
		return c.AdminSessionSecret
	}
	return c.AppSecret
}

func (c *Config) IsProduction() bool {
	return c.FlyAppName != ""
}

func (c *Config) Validate(isProduction bool) error {
	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}

		if c.CronSecret == "" {
			log.Warn().Msg("CRON_SECRET is empty in production: scheduled backup endpoint will refuse all requests")
		}
		if c.EncryptionSecret() == "" {
			log.Warn().Msg("no encryption secret configured in production: settings secrets cannot be stored")
		}
		if c.S3Bucket == "" {
			log.Warn().Msg("S3_BUCKET is empty in production: media upload and backups are disabled")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
