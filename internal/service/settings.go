package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/notify"
	"github.com/dengeterapi/clinic-server-go/internal/repository"
	"github.com/dengeterapi/clinic-server-go/internal/util"
)

// SettingsService exposes typed accessors over the app_settings key/value
// table. Reads never fail the caller: a missing or unreadable value falls
// back to the provided default with a warning log.
type SettingsService struct {
	repo             repository.SettingRepository
	encryptionSecret string
	smtpDefaults     notify.SMTPConfig
}

func NewSettingsService(repo repository.SettingRepository, encryptionSecret string, smtpDefaults notify.SMTPConfig) *SettingsService {
	return &SettingsService{
		repo:             repo,
		encryptionSecret: encryptionSecret,
		smtpDefaults:     smtpDefaults,
	}
}

func getSetting[T any](ctx context.Context, repo repository.SettingRepository, key string, fallback T) T {
	setting, err := repo.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("settings read failed, using fallback")
		return fallback
	}
	if setting == nil {
		return fallback
	}

	var value T
	if err := json.Unmarshal(setting.Value, &value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("settings value malformed, using fallback")
		return fallback
	}
	return value
}

func setSetting[T any](ctx context.Context, repo repository.SettingRepository, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal setting %s: %w", key, err)
	}
	return repo.Set(ctx, key, raw)
}

func (s *SettingsService) SiteInfo(ctx context.Context) model.SiteInfo {
	return getSetting(ctx, s.repo, model.SettingKeySiteInfo, model.SiteInfo{})
}

func (s *SettingsService) SetSiteInfo(ctx context.Context, info model.SiteInfo) error {
	return setSetting(ctx, s.repo, model.SettingKeySiteInfo, info)
}

func (s *SettingsService) EmailSettings(ctx context.Context) model.EmailSettings {
	return getSetting(ctx, s.repo, model.SettingKeyEmailSettings, model.EmailSettings{})
}

// SetEmailSettings stores SMTP overrides. A non-empty rawPassword is sealed
// before it hits the database; an empty one keeps the previously stored
// ciphertext.
func (s *SettingsService) SetEmailSettings(ctx context.Context, settings model.EmailSettings, rawPassword string) error {
	if rawPassword != "" {
		encrypted, err := util.EncryptSecret(s.encryptionSecret, rawPassword)
		if err != nil {
			return fmt.Errorf("encrypt smtp password: %w", err)
		}
		settings.PasswordEncrypted = encrypted
	} else {
		settings.PasswordEncrypted = s.EmailSettings(ctx).PasswordEncrypted
	}
	return setSetting(ctx, s.repo, model.SettingKeyEmailSettings, settings)
}

func (s *SettingsService) BackupSettings(ctx context.Context) model.BackupSettings {
	return getSetting(ctx, s.repo, model.SettingKeyBackupSettings, model.BackupSettings{IntervalHours: 24})
}

func (s *SettingsService) SetBackupSettings(ctx context.Context, settings model.BackupSettings) error {
	current := s.BackupSettings(ctx)
	settings.LastRunAt = current.LastRunAt
	return setSetting(ctx, s.repo, model.SettingKeyBackupSettings, settings)
}

func (s *SettingsService) MarkBackupRun(ctx context.Context, at time.Time) error {
	settings := s.BackupSettings(ctx)
	settings.LastRunAt = &at
	return setSetting(ctx, s.repo, model.SettingKeyBackupSettings, settings)
}

// ResolveSMTP merges stored email settings over the env defaults. Stored
// fields win when set; the password is decrypted on the fly and falls back
// to the env password when the ciphertext cannot be opened.
func (s *SettingsService) ResolveSMTP(ctx context.Context) notify.SMTPConfig {
	cfg := s.smtpDefaults
	stored := s.EmailSettings(ctx)

	if stored.Host != "" {
		cfg.Host = stored.Host
	}
	if stored.Port != 0 {
		cfg.Port = stored.Port
	}
	if stored.Username != "" {
		cfg.Username = stored.Username
	}
	if stored.From != "" {
		cfg.From = stored.From
	}
	if stored.NotifyTo != "" {
		cfg.NotifyTo = stored.NotifyTo
	}
	if stored.PasswordEncrypted != "" {
		password, err := util.DecryptSecret(s.encryptionSecret, stored.PasswordEncrypted)
		if err != nil {
			log.Warn().Err(err).Msg("stored smtp password unreadable, using env default")
		} else {
			cfg.Password = password
		}
	}

	return cfg
}
