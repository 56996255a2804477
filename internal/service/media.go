package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/config"
	apperrors "github.com/dengeterapi/clinic-server-go/internal/errors"
	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/repository"
	"github.com/dengeterapi/clinic-server-go/internal/storage"
)

var allowedUploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// MediaService stores uploaded files in the object store and tracks them in
// the media_assets table. The object write happens before the row insert;
// an insert failure triggers a best-effort object delete so the bucket does
// not accumulate orphans.
type MediaService struct {
	repo  repository.MediaRepository
	store storage.ObjectStore
}

func NewMediaService(repo repository.MediaRepository, store storage.ObjectStore) *MediaService {
	return &MediaService{repo: repo, store: store}
}

type UploadMediaParams struct {
	Title        string
	AltText      *string
	ContentType  string
	SizeBytes    int64
	Filename     string
	DeclaredType string
}

func (s *MediaService) Upload(ctx context.Context, file io.Reader, params UploadMediaParams) (*model.MediaAsset, error) {
	ext, ok := allowedUploadTypes[params.ContentType]
	if !ok {
		return nil, apperrors.InvalidInput("file", fmt.Sprintf("unsupported file type: %s", params.ContentType))
	}
	if params.SizeBytes <= 0 || params.SizeBytes > config.MaxUploadSize {
		return nil, apperrors.InvalidInput("file", "file size must be between 1 byte and 10MB")
	}

	// Trust the declared extension when it matches the content type,
	// otherwise derive it from the type.
	if declared := strings.ToLower(path.Ext(params.Filename)); declared == ext || (ext == ".jpg" && declared == ".jpeg") {
		ext = declared
	}

	objectKey := fmt.Sprintf("media/%s%s", uuid.NewString(), ext)

	data, err := io.ReadAll(io.LimitReader(file, config.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > config.MaxUploadSize {
		return nil, apperrors.InvalidInput("file", "file size must be between 1 byte and 10MB")
	}

	mediaType := "image"
	if params.ContentType == "application/pdf" {
		mediaType = "document"
	}
	if params.DeclaredType != "" && params.DeclaredType != mediaType {
		return nil, apperrors.InvalidInput("type", fmt.Sprintf("declared type %q does not match content type %s", params.DeclaredType, params.ContentType))
	}

	if err := s.store.Upload(ctx, objectKey, params.ContentType, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}

	asset, err := s.repo.Create(ctx, model.CreateMediaAssetParams{
		ObjectKey:   objectKey,
		URL:         s.store.PublicURL(objectKey),
		Type:        mediaType,
		Title:       params.Title,
		AltText:     params.AltText,
		ContentType: params.ContentType,
		SizeBytes:   int64(len(data)),
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, objectKey); delErr != nil {
			log.Warn().Err(delErr).Str("object_key", objectKey).Msg("orphaned object cleanup failed")
		}
		return nil, err
	}

	return asset, nil
}

// Delete removes the stored object first, then the row. A failing object
// delete fails the whole operation so the row keeps pointing at the object.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if asset == nil {
		return apperrors.NotFound("media asset not found")
	}

	if err := s.store.Delete(ctx, asset.ObjectKey); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	return s.repo.Delete(ctx, id)
}

func (s *MediaService) List(ctx context.Context, limit, offset int) ([]model.MediaAsset, error) {
	return s.repo.List(ctx, limit, offset)
}
