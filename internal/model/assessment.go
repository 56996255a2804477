package model

import (
	"encoding/json"
	"time"
)

type AssessmentStatus string

const (
	AssessmentStatusInProgress AssessmentStatus = "in_progress"
	AssessmentStatusCompleted  AssessmentStatus = "completed"
)

// Assessment is an intake questionnaire in progress, keyed by the visitor's
// browser session id so partial answers survive page reloads.
type Assessment struct {
	ID        string           `db:"id" json:"id"`
	SessionID string           `db:"session_id" json:"sessionId"`
	Answers   json.RawMessage  `db:"answers" json:"answers"`
	Status    AssessmentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `db:"updated_at" json:"updatedAt"`
}

type UpsertAssessmentParams struct {
	SessionID string
	Answers   json.RawMessage
	Status    AssessmentStatus
}
