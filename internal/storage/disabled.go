package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotConfigured = errors.New("object storage is not configured")

// DisabledStore stands in when no bucket is configured. Every write fails
// with a stable error so callers surface a clear message instead of
// panicking on a nil store.
type DisabledStore struct{}

func NewDisabledStore() *DisabledStore {
	return &DisabledStore{}
}

func (*DisabledStore) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	return ErrNotConfigured
}

func (*DisabledStore) Delete(ctx context.Context, key string) error {
	return ErrNotConfigured
}

func (*DisabledStore) PublicURL(key string) string {
	return ""
}
