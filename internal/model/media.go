package model

import (
	"time"
)

type MediaAsset struct {
	ID          string    `db:"id" json:"id"`
	ObjectKey   string    `db:"object_key" json:"-"`
	URL         string    `db:"url" json:"url"`
	Type        string    `db:"type" json:"type"`
	Title       string    `db:"title" json:"title"`
	AltText     *string   `db:"alt_text" json:"altText,omitempty"`
	ContentType string    `db:"content_type" json:"contentType"`
	SizeBytes   int64     `db:"size_bytes" json:"sizeBytes"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type CreateMediaAssetParams struct {
	ObjectKey   string
	URL         string
	Type        string
	Title       string
	AltText     *string
	ContentType string
	SizeBytes   int64
}
