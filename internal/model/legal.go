package model

import (
	"time"
)

type LegalPage struct {
	ID        string    `db:"id" json:"id"`
	Slug      string    `db:"slug" json:"slug"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateLegalPageParams struct {
	Slug  string
	Title string
	Body  string
}

type UpdateLegalPageParams struct {
	Title string
	Body  string
}
