package model

import (
	"time"
)

// Service is a therapy service offered by the clinic (e.g. couples therapy,
// EMDR), rendered on the public site and managed from the back-office.
type Service struct {
	ID          string    `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	SortOrder   int       `db:"sort_order" json:"sortOrder"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateServiceParams struct {
	Slug        string
	Title       string
	Description string
	SortOrder   int
	Active      bool
}

type UpdateServiceParams struct {
	Title       string
	Description string
	SortOrder   int
	Active      bool
}
