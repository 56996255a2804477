package repository

import (
	"context"

	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/model"
)

type ServiceRepository interface {
	Create(ctx context.Context, params model.CreateServiceParams) (*model.Service, error)
	Update(ctx context.Context, id string, params model.UpdateServiceParams) (*model.Service, error)
	FindByID(ctx context.Context, id string) (*model.Service, error)
	FindBySlug(ctx context.Context, slug string) (*model.Service, error)
	ListActive(ctx context.Context) ([]model.Service, error)
	ListAll(ctx context.Context) ([]model.Service, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type serviceRepo struct {
	db database.DBTX
}

func NewServiceRepository(db database.DBTX) ServiceRepository {
	return &serviceRepo{db: db}
}

func (r *serviceRepo) Create(ctx context.Context, params model.CreateServiceParams) (*model.Service, error) {
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, `
		INSERT INTO services (slug, title, description, sort_order, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.Slug, params.Title, params.Description, params.SortOrder, params.Active)
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *serviceRepo) Update(ctx context.Context, id string, params model.UpdateServiceParams) (*model.Service, error) {
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, `
		UPDATE services
		SET title = $2, description = $3, sort_order = $4, active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Title, params.Description, params.SortOrder, params.Active)
	return HandleNotFound(&svc, err)
}

func (r *serviceRepo) FindByID(ctx context.Context, id string) (*model.Service, error) {
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, `SELECT * FROM services WHERE id = $1`, id)
	return HandleNotFound(&svc, err)
}

func (r *serviceRepo) FindBySlug(ctx context.Context, slug string) (*model.Service, error) {
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, `SELECT * FROM services WHERE slug = $1`, slug)
	return HandleNotFound(&svc, err)
}

func (r *serviceRepo) ListActive(ctx context.Context) ([]model.Service, error) {
	services := []model.Service{}
	err := r.db.SelectContext(ctx, &services, `
		SELECT * FROM services WHERE active ORDER BY sort_order, title
	`)
	return services, err
}

func (r *serviceRepo) ListAll(ctx context.Context) ([]model.Service, error) {
	services := []model.Service{}
	err := r.db.SelectContext(ctx, &services, `
		SELECT * FROM services ORDER BY sort_order, title
	`)
	return services, err
}

func (r *serviceRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
