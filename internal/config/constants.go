package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const CleanupJobInterval = 5 * time.Minute

// Session lifetimes
const (
	SessionTTL         = 24 * time.Hour
	RememberSessionTTL = 30 * 24 * time.Hour
)

// Password reset token lifetime
const ResetTokenTTL = 30 * time.Minute

// Outbound provider call timeout (email excluded: net/smtp manages its own)
const ProviderTimeout = 10 * time.Second

// Media upload limits
const (
	MaxUploadSize = 10 << 20 // 10MB
)

// Contact form rate limit (per IP per minute)
const ContactRateLimitPerMin = 5
