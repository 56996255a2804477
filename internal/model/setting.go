package model

import (
	"encoding/json"
	"time"
)

// AppSetting is a generic key to JSON value row. Structured configuration
// (site info, email settings, backup settings) lives under fixed keys
// instead of dedicated tables.
type AppSetting struct {
	Key       string          `db:"key" json:"key"`
	Value     json.RawMessage `db:"value" json:"value"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// Fixed setting keys. Adding a key here means adding a typed accessor on
// the settings service.
const (
	SettingKeySiteInfo       = "site_info"
	SettingKeyEmailSettings  = "email_settings"
	SettingKeyBackupSettings = "backup_settings"
)

type SiteInfo struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	WorkingHours string `json:"workingHours"`
	InstagramURL string `json:"instagramUrl,omitempty"`
}

// EmailSettings overrides the env-provided SMTP defaults at runtime.
// PasswordEncrypted holds the SMTP password sealed with the secret helper.
type EmailSettings struct {
	Host              string `json:"host"`
	Port              int    `json:"port"`
	Username          string `json:"username"`
	PasswordEncrypted string `json:"passwordEncrypted,omitempty"`
	From              string `json:"from"`
	NotifyTo          string `json:"notifyTo"`
}

type BackupSettings struct {
	Enabled       bool       `json:"enabled"`
	IntervalHours int        `json:"intervalHours"`
	LastRunAt     *time.Time `json:"lastRunAt,omitempty"`
}
