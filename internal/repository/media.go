package repository

import (
	"context"

	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/model"
)

type MediaRepository interface {
	Create(ctx context.Context, params model.CreateMediaAssetParams) (*model.MediaAsset, error)
	FindByID(ctx context.Context, id string) (*model.MediaAsset, error)
	List(ctx context.Context, limit, offset int) ([]model.MediaAsset, error)
	ListRecent(ctx context.Context, limit int) ([]model.MediaAsset, error)
	Delete(ctx context.Context, id string) error
}

type mediaRepo struct {
	db database.DBTX
}

func NewMediaRepository(db database.DBTX) MediaRepository {
	return &mediaRepo{db: db}
}

func (r *mediaRepo) Create(ctx context.Context, params model.CreateMediaAssetParams) (*model.MediaAsset, error) {
	var asset model.MediaAsset
	err := r.db.GetContext(ctx, &asset, `
		INSERT INTO media_assets (object_key, url, type, title, alt_text, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, params.ObjectKey, params.URL, params.Type, params.Title, params.AltText, params.ContentType, params.SizeBytes)
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *mediaRepo) FindByID(ctx context.Context, id string) (*model.MediaAsset, error) {
	var asset model.MediaAsset
	err := r.db.GetContext(ctx, &asset, `
		SELECT * FROM media_assets WHERE id = $1
	`, id)
	return HandleNotFound(&asset, err)
}

func (r *mediaRepo) List(ctx context.Context, limit, offset int) ([]model.MediaAsset, error) {
	assets := []model.MediaAsset{}
	err := r.db.SelectContext(ctx, &assets, `
		SELECT * FROM media_assets
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return assets, err
}

func (r *mediaRepo) ListRecent(ctx context.Context, limit int) ([]model.MediaAsset, error) {
	assets := []model.MediaAsset{}
	err := r.db.SelectContext(ctx, &assets, `
		SELECT * FROM media_assets
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	return assets, err
}

func (r *mediaRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM media_assets WHERE id = $1`, id)
	return err
}
