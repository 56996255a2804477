package repository

import (
	"context"

	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/model"
)

type AssessmentRepository interface {
	Upsert(ctx context.Context, params model.UpsertAssessmentParams) (*model.Assessment, error)
	FindBySessionID(ctx context.Context, sessionID string) (*model.Assessment, error)
	List(ctx context.Context, limit, offset int) ([]model.Assessment, error)
}

type assessmentRepo struct {
	db database.DBTX
}

func NewAssessmentRepository(db database.DBTX) AssessmentRepository {
	return &assessmentRepo{db: db}
}

// Upsert keeps one assessment per visitor session, replacing the stored
// answers on each save.
func (r *assessmentRepo) Upsert(ctx context.Context, params model.UpsertAssessmentParams) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.db.GetContext(ctx, &assessment, `
		INSERT INTO assessments (session_id, answers, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE
		SET answers = EXCLUDED.answers, status = EXCLUDED.status, updated_at = NOW()
		RETURNING *
	`, params.SessionID, params.Answers, params.Status)
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepo) FindBySessionID(ctx context.Context, sessionID string) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.db.GetContext(ctx, &assessment, `
		SELECT * FROM assessments WHERE session_id = $1
	`, sessionID)
	return HandleNotFound(&assessment, err)
}

func (r *assessmentRepo) List(ctx context.Context, limit, offset int) ([]model.Assessment, error) {
	assessments := []model.Assessment{}
	err := r.db.SelectContext(ctx, &assessments, `
		SELECT * FROM assessments
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return assessments, err
}
