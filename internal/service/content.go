package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/dengeterapi/clinic-server-go/internal/errors"
	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/repository"
)

const homeRecentMediaLimit = 6

// ContentService serves the public site content (services, legal pages,
// the aggregated home payload) and the back-office CRUD over it.
type ContentService struct {
	services repository.ServiceRepository
	legal    repository.LegalPageRepository
	media    repository.MediaRepository
	settings *SettingsService
}

func NewContentService(services repository.ServiceRepository, legal repository.LegalPageRepository, media repository.MediaRepository, settings *SettingsService) *ContentService {
	return &ContentService{services: services, legal: legal, media: media, settings: settings}
}

// HomeContent is everything the landing page needs in one response.
type HomeContent struct {
	SiteInfo    model.SiteInfo     `json:"siteInfo"`
	Services    []model.Service    `json:"services"`
	LegalPages  []model.LegalPage  `json:"legalPages"`
	RecentMedia []model.MediaAsset `json:"recentMedia"`
}

// HomeContent loads the four home page sections concurrently. Settings
// cannot fail (it falls back internally); any repository failure fails the
// whole load.
func (s *ContentService) HomeContent(ctx context.Context) (*HomeContent, error) {
	var content HomeContent

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		content.SiteInfo = s.settings.SiteInfo(ctx)
		return nil
	})
	g.Go(func() error {
		services, err := s.services.ListActive(ctx)
		if err != nil {
			return err
		}
		content.Services = services
		return nil
	})
	g.Go(func() error {
		pages, err := s.legal.ListAll(ctx)
		if err != nil {
			return err
		}
		content.LegalPages = pages
		return nil
	})
	g.Go(func() error {
		recent, err := s.media.ListRecent(ctx, homeRecentMediaLimit)
		if err != nil {
			return err
		}
		content.RecentMedia = recent
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &content, nil
}

func (s *ContentService) ActiveServices(ctx context.Context) ([]model.Service, error) {
	return s.services.ListActive(ctx)
}

func (s *ContentService) ServiceBySlug(ctx context.Context, slug string) (*model.Service, error) {
	return s.services.FindBySlug(ctx, slug)
}

func (s *ContentService) AllServices(ctx context.Context) ([]model.Service, error) {
	return s.services.ListAll(ctx)
}

// CreateService rejects a slug that is already taken before inserting.
func (s *ContentService) CreateService(ctx context.Context, params model.CreateServiceParams) (*model.Service, error) {
	existing, err := s.services.FindBySlug(ctx, params.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("service")
	}
	return s.services.Create(ctx, params)
}

func (s *ContentService) UpdateService(ctx context.Context, id string, params model.UpdateServiceParams) (*model.Service, error) {
	svc, err := s.services.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, apperrors.NotFound("service")
	}
	return svc, nil
}

func (s *ContentService) DeleteService(ctx context.Context, id string) error {
	deleted, err := s.services.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("service")
	}
	return nil
}

func (s *ContentService) LegalPages(ctx context.Context) ([]model.LegalPage, error) {
	return s.legal.ListAll(ctx)
}

func (s *ContentService) LegalPageBySlug(ctx context.Context, slug string) (*model.LegalPage, error) {
	return s.legal.FindBySlug(ctx, slug)
}

func (s *ContentService) CreateLegalPage(ctx context.Context, params model.CreateLegalPageParams) (*model.LegalPage, error) {
	existing, err := s.legal.FindBySlug(ctx, params.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("legal page")
	}
	return s.legal.Create(ctx, params)
}

func (s *ContentService) UpdateLegalPage(ctx context.Context, id string, params model.UpdateLegalPageParams) (*model.LegalPage, error) {
	page, err := s.legal.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, apperrors.NotFound("legal page")
	}
	return page, nil
}

func (s *ContentService) DeleteLegalPage(ctx context.Context, id string) error {
	deleted, err := s.legal.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("legal page")
	}
	return nil
}
