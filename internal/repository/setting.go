package repository

import (
	"context"
	"encoding/json"

	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/model"
)

type SettingRepository interface {
	Get(ctx context.Context, key string) (*model.AppSetting, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}

type settingRepo struct {
	db database.DBTX
}

func NewSettingRepository(db database.DBTX) SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) Get(ctx context.Context, key string) (*model.AppSetting, error) {
	var setting model.AppSetting
	err := r.db.GetContext(ctx, &setting, `
		SELECT * FROM app_settings WHERE key = $1
	`, key)
	return HandleNotFound(&setting, err)
}

// Set replaces the stored value wholesale; there is no merge.
func (r *settingRepo) Set(ctx context.Context, key string, value json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	return err
}
