package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/repository"
	"github.com/dengeterapi/clinic-server-go/internal/storage"
)

// Tables serialized into every backup document. Session and reset token
// tables are deliberately absent, they hold only short-lived secrets.
var backupTables = []string{
	"admin_users",
	"app_settings",
	"services",
	"legal_pages",
	"contact_submissions",
	"assessments",
	"bookings",
	"media_assets",
	"backup_exports",
}

// BackupService serializes the database into a JSON document and ships it
// to the object store under backups/.
type BackupService struct {
	db       *database.DB
	repo     repository.BackupRepository
	settings *SettingsService
	store    storage.ObjectStore
}

func NewBackupService(db *database.DB, repo repository.BackupRepository, settings *SettingsService, store storage.ObjectStore) *BackupService {
	return &BackupService{db: db, repo: repo, settings: settings, store: store}
}

// IsDue reports whether a scheduled backup should run now, based on the
// persisted backup settings. Disabled backups are never due.
func (s *BackupService) IsDue(ctx context.Context) bool {
	settings := s.settings.BackupSettings(ctx)
	if !settings.Enabled {
		return false
	}
	if settings.IntervalHours <= 0 {
		return false
	}
	if settings.LastRunAt == nil {
		return true
	}
	return time.Since(*settings.LastRunAt) >= time.Duration(settings.IntervalHours)*time.Hour
}

// Run exports every backup table, uploads the document and records the
// export. A failed upload is recorded as a failed export and returned as an
// error; the last-run marker only advances on success.
func (s *BackupService) Run(ctx context.Context, trigger model.BackupTrigger) (*model.BackupExport, error) {
	started := time.Now()

	tables := make(map[string][]map[string]any, len(backupTables))
	for _, table := range backupTables {
		rows, err := s.dumpTable(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("dump %s: %w", table, err)
		}
		tables[table] = rows
	}

	document := map[string]any{
		"version":   1,
		"createdAt": started.UTC().Format(time.RFC3339),
		"tables":    tables,
	}
	data, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}

	objectKey := fmt.Sprintf("backups/%s-%s.json", started.UTC().Format("20060102-150405"), uuid.NewString())

	if err := s.store.Upload(ctx, objectKey, "application/json", bytes.NewReader(data)); err != nil {
		if _, recErr := s.repo.Create(ctx, model.CreateBackupExportParams{
			ObjectKey:   objectKey,
			SizeBytes:   int64(len(data)),
			Status:      model.BackupStatusFailed,
			TriggeredBy: trigger,
		}); recErr != nil {
			log.Error().Err(recErr).Msg("failed to record failed backup export")
		}
		return nil, fmt.Errorf("upload backup: %w", err)
	}

	export, err := s.repo.Create(ctx, model.CreateBackupExportParams{
		ObjectKey:   objectKey,
		SizeBytes:   int64(len(data)),
		Status:      model.BackupStatusCompleted,
		TriggeredBy: trigger,
	})
	if err != nil {
		return nil, err
	}

	if err := s.settings.MarkBackupRun(ctx, started); err != nil {
		log.Warn().Err(err).Msg("failed to advance backup last-run marker")
	}

	log.Info().
		Str("object_key", objectKey).
		Int("size_bytes", len(data)).
		Str("triggered_by", string(trigger)).
		Dur("duration", time.Since(started)).
		Msg("backup export completed")

	return export, nil
}

// RunIfDue is the cron entrypoint: it runs a backup only when the schedule
// says so and reports whether anything happened.
func (s *BackupService) RunIfDue(ctx context.Context) (*model.BackupExport, bool, error) {
	if !s.IsDue(ctx) {
		return nil, false, nil
	}
	export, err := s.Run(ctx, model.BackupTriggerCron)
	if err != nil {
		return nil, true, err
	}
	return export, true, nil
}

func (s *BackupService) List(ctx context.Context, limit, offset int) ([]model.BackupExport, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *BackupService) dumpTable(ctx context.Context, table string) ([]map[string]any, error) {
	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
