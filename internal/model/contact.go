package model

import (
	"time"
)

type ContactSubmission struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Subject   *string   `db:"subject" json:"subject,omitempty"`
	Message   string    `db:"message" json:"message"`
	Source    *string   `db:"source" json:"source,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateContactSubmissionParams struct {
	Name    string
	Email   string
	Phone   *string
	Subject *string
	Message string
	Source  *string
}
