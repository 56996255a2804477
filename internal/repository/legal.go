package repository

import (
	"context"

	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/model"
)

type LegalPageRepository interface {
	Create(ctx context.Context, params model.CreateLegalPageParams) (*model.LegalPage, error)
	Update(ctx context.Context, id string, params model.UpdateLegalPageParams) (*model.LegalPage, error)
	FindBySlug(ctx context.Context, slug string) (*model.LegalPage, error)
	ListAll(ctx context.Context) ([]model.LegalPage, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type legalPageRepo struct {
	db database.DBTX
}

func NewLegalPageRepository(db database.DBTX) LegalPageRepository {
	return &legalPageRepo{db: db}
}

func (r *legalPageRepo) Create(ctx context.Context, params model.CreateLegalPageParams) (*model.LegalPage, error) {
	var page model.LegalPage
	err := r.db.GetContext(ctx, &page, `
		INSERT INTO legal_pages (slug, title, body)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.Slug, params.Title, params.Body)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *legalPageRepo) Update(ctx context.Context, id string, params model.UpdateLegalPageParams) (*model.LegalPage, error) {
	var page model.LegalPage
	err := r.db.GetContext(ctx, &page, `
		UPDATE legal_pages
		SET title = $2, body = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Title, params.Body)
	return HandleNotFound(&page, err)
}

func (r *legalPageRepo) FindBySlug(ctx context.Context, slug string) (*model.LegalPage, error) {
	var page model.LegalPage
	err := r.db.GetContext(ctx, &page, `SELECT * FROM legal_pages WHERE slug = $1`, slug)
	return HandleNotFound(&page, err)
}

func (r *legalPageRepo) ListAll(ctx context.Context) ([]model.LegalPage, error) {
	pages := []model.LegalPage{}
	err := r.db.SelectContext(ctx, &pages, `SELECT * FROM legal_pages ORDER BY title`)
	return pages, err
}

func (r *legalPageRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM legal_pages WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
