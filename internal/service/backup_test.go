package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/notify"
)

type mockBackupRepo struct {
	mock.Mock
}

func (m *mockBackupRepo) Create(ctx context.Context, params model.CreateBackupExportParams) (*model.BackupExport, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BackupExport), args.Error(1)
}

func (m *mockBackupRepo) List(ctx context.Context, limit, offset int) ([]model.BackupExport, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BackupExport), args.Error(1)
}

func backupServiceWithSettings(t *testing.T, settings model.BackupSettings) *BackupService {
	t.Helper()

	value, err := json.Marshal(settings)
	require.NoError(t, err)

	repo := new(mockSettingRepo)
	repo.On("Get", mock.Anything, model.SettingKeyBackupSettings).Return(&model.AppSetting{
		Key:   model.SettingKeyBackupSettings,
		Value: value,
	}, nil)

	settingsSvc := NewSettingsService(repo, testEncryptionSecret, notify.SMTPConfig{})
	return NewBackupService(nil, new(mockBackupRepo), settingsSvc, newFakeObjectStore())
}

func TestBackupServiceIsDue(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled backups are never due", func(t *testing.T) {
		svc := backupServiceWithSettings(t, model.BackupSettings{Enabled: false, IntervalHours: 24})
		assert.False(t, svc.IsDue(ctx))
	})

	t.Run("enabled with no prior run is due immediately", func(t *testing.T) {
		svc := backupServiceWithSettings(t, model.BackupSettings{Enabled: true, IntervalHours: 24})
		assert.True(t, svc.IsDue(ctx))
	})

	t.Run("not due before the interval elapses", func(t *testing.T) {
		recent := time.Now().Add(-1 * time.Hour)
		svc := backupServiceWithSettings(t, model.BackupSettings{Enabled: true, IntervalHours: 24, LastRunAt: &recent})
		assert.False(t, svc.IsDue(ctx))
	})

	t.Run("due once the interval has passed", func(t *testing.T) {
		old := time.Now().Add(-25 * time.Hour)
		svc := backupServiceWithSettings(t, model.BackupSettings{Enabled: true, IntervalHours: 24, LastRunAt: &old})
		assert.True(t, svc.IsDue(ctx))
	})

	t.Run("non-positive interval disables the schedule", func(t *testing.T) {
		svc := backupServiceWithSettings(t, model.BackupSettings{Enabled: true, IntervalHours: 0})
		assert.False(t, svc.IsDue(ctx))
	})
}

func TestBackupServiceRunIfDue(t *testing.T) {
	ctx := context.Background()

	t.Run("does nothing when not due", func(t *testing.T) {
		svc := backupServiceWithSettings(t, model.BackupSettings{Enabled: false})

		export, ran, err := svc.RunIfDue(ctx)

		require.NoError(t, err)
		assert.False(t, ran)
		assert.Nil(t, export)
	})
}
