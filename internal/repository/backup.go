package repository

import (
	"context"

	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/model"
)

type BackupRepository interface {
	Create(ctx context.Context, params model.CreateBackupExportParams) (*model.BackupExport, error)
	List(ctx context.Context, limit, offset int) ([]model.BackupExport, error)
}

type backupRepo struct {
	db database.DBTX
}

func NewBackupRepository(db database.DBTX) BackupRepository {
	return &backupRepo{db: db}
}

func (r *backupRepo) Create(ctx context.Context, params model.CreateBackupExportParams) (*model.BackupExport, error) {
	var export model.BackupExport
	err := r.db.GetContext(ctx, &export, `
		INSERT INTO backup_exports (object_key, size_bytes, status, triggered_by)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.ObjectKey, params.SizeBytes, params.Status, params.TriggeredBy)
	if err != nil {
		return nil, err
	}
	return &export, nil
}

func (r *backupRepo) List(ctx context.Context, limit, offset int) ([]model.BackupExport, error) {
	exports := []model.BackupExport{}
	err := r.db.SelectContext(ctx, &exports, `
		SELECT * FROM backup_exports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return exports, err
}
