package service

import (
	"context"

	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/repository"
)

// AssessmentService records self-assessment answers keyed by the visitor's
// session id. Saves are upserts so partial progress can be resumed.
type AssessmentService struct {
	repo repository.AssessmentRepository
}

func NewAssessmentService(repo repository.AssessmentRepository) *AssessmentService {
	return &AssessmentService{repo: repo}
}

func (s *AssessmentService) Save(ctx context.Context, params model.UpsertAssessmentParams) (*model.Assessment, error) {
	return s.repo.Upsert(ctx, params)
}

func (s *AssessmentService) FindBySessionID(ctx context.Context, sessionID string) (*model.Assessment, error) {
	return s.repo.FindBySessionID(ctx, sessionID)
}

func (s *AssessmentService) List(ctx context.Context, limit, offset int) ([]model.Assessment, error) {
	return s.repo.List(ctx, limit, offset)
}
