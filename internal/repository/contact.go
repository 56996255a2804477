package repository

import (
	"context"

	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/model"
)

type ContactRepository interface {
	Create(ctx context.Context, params model.CreateContactSubmissionParams) (*model.ContactSubmission, error)
	List(ctx context.Context, limit, offset int) ([]model.ContactSubmission, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type contactRepo struct {
	db database.DBTX
}

func NewContactRepository(db database.DBTX) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, params model.CreateContactSubmissionParams) (*model.ContactSubmission, error) {
	var submission model.ContactSubmission
	err := r.db.GetContext(ctx, &submission, `
		INSERT INTO contact_submissions (name, email, phone, subject, message, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, params.Name, params.Email, params.Phone, params.Subject, params.Message, params.Source)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *contactRepo) List(ctx context.Context, limit, offset int) ([]model.ContactSubmission, error) {
	submissions := []model.ContactSubmission{}
	err := r.db.SelectContext(ctx, &submissions, `
		SELECT * FROM contact_submissions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return submissions, err
}

func (r *contactRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
