package service

import (
	"context"

	apperrors "github.com/dengeterapi/clinic-server-go/internal/errors"
	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/notify"
	"github.com/dengeterapi/clinic-server-go/internal/repository"
)

// BookingService tracks appointment requests and sends WhatsApp reminders.
type BookingService struct {
	repo     repository.BookingRepository
	whatsapp *notify.WhatsAppClient
}

func NewBookingService(repo repository.BookingRepository, whatsapp *notify.WhatsAppClient) *BookingService {
	return &BookingService{repo: repo, whatsapp: whatsapp}
}

func (s *BookingService) Create(ctx context.Context, params model.CreateBookingParams) (*model.Booking, error) {
	return s.repo.Create(ctx, params)
}

func (s *BookingService) List(ctx context.Context, limit, offset int) ([]model.Booking, error) {
	return s.repo.List(ctx, limit, offset)
}

// SendReminder delivers a WhatsApp reminder for one booking. The sent
// marker only advances after the provider accepted the message.
func (s *BookingService) SendReminder(ctx context.Context, id string) (notify.Result, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notify.Result{}, err
	}
	if booking == nil {
		return notify.Result{}, apperrors.NotFound("booking")
	}

	result := s.whatsapp.SendBookingReminder(ctx, booking)
	if result.Success {
		if err := s.repo.MarkReminderSent(ctx, id); err != nil {
			return result, err
		}
	}
	return result, nil
}
