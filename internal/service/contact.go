package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/notify"
	"github.com/dengeterapi/clinic-server-go/internal/repository"
)

// ContactService persists contact form submissions and fans out the
// notifications. Persistence is the contract: a submission is accepted once
// the row exists, notification failures are logged and swallowed.
type ContactService struct {
	repo     repository.ContactRepository
	mailer   *notify.Mailer
	whatsapp *notify.WhatsAppClient
	settings *SettingsService
}

func NewContactService(repo repository.ContactRepository, mailer *notify.Mailer, whatsapp *notify.WhatsAppClient, settings *SettingsService) *ContactService {
	return &ContactService{
		repo:     repo,
		mailer:   mailer,
		whatsapp: whatsapp,
		settings: settings,
	}
}

func (s *ContactService) Submit(ctx context.Context, params model.CreateContactSubmissionParams) (*model.ContactSubmission, error) {
	sub, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	if result := s.mailer.SendContactNotification(s.settings.ResolveSMTP(ctx), sub); !result.Success {
		log.Warn().Str("submission_id", sub.ID).Str("reason", result.Error).Msg("contact email notification failed")
	}
	if result := s.whatsapp.SendContactNotification(ctx, sub); !result.Success {
		log.Warn().Str("submission_id", sub.ID).Str("reason", result.Error).Msg("contact whatsapp notification failed")
	}

	return sub, nil
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]model.ContactSubmission, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *ContactService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}
