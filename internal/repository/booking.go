package repository

import (
	"context"

	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/model"
)

type BookingRepository interface {
	Create(ctx context.Context, params model.CreateBookingParams) (*model.Booking, error)
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, limit, offset int) ([]model.Booking, error)
	MarkReminderSent(ctx context.Context, id string) error
}

type bookingRepo struct {
	db database.DBTX
}

func NewBookingRepository(db database.DBTX) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Create(ctx context.Context, params model.CreateBookingParams) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, `
		INSERT INTO bookings (name, phone, email, service_id, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.Name, params.Phone, params.Email, params.ServiceID, params.ScheduledAt)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, `SELECT * FROM bookings WHERE id = $1`, id)
	return HandleNotFound(&booking, err)
}

func (r *bookingRepo) List(ctx context.Context, limit, offset int) ([]model.Booking, error) {
	bookings := []model.Booking{}
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT * FROM bookings
		ORDER BY scheduled_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return bookings, err
}

func (r *bookingRepo) MarkReminderSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET reminder_sent_at = NOW() WHERE id = $1
	`, id)
	return err
}
