package model

import (
	"time"
)

type Booking struct {
	ID             string     `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Phone          string     `db:"phone" json:"phone"`
	Email          *string    `db:"email" json:"email,omitempty"`
	ServiceID      *string    `db:"service_id" json:"serviceId,omitempty"`
	ScheduledAt    time.Time  `db:"scheduled_at" json:"scheduledAt"`
	ReminderSentAt *time.Time `db:"reminder_sent_at" json:"reminderSentAt,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

type CreateBookingParams struct {
	Name        string
	Phone       string
	Email       *string
	ServiceID   *string
	ScheduledAt time.Time
}
