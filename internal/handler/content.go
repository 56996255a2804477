package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/dengeterapi/clinic-server-go/internal/errors"
	"github.com/dengeterapi/clinic-server-go/internal/service"
	"github.com/dengeterapi/clinic-server-go/internal/util"
)

// ContentHandler serves the public site content reads.
type ContentHandler struct {
	contentService *service.ContentService
}

func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// RegisterRoutes attaches the public content reads to the API router.
func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/content/home", h.Home)
	r.Get("/services", h.ListServices)
	r.Get("/services/{slug}", h.GetService)
	r.Get("/legal/{slug}", h.GetLegalPage)
}

func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func (h *ContentHandler) Home(w http.ResponseWriter, r *http.Request) {
	content, err := h.contentService.HomeContent(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (h *ContentHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.contentService.ActiveServices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *ContentHandler) GetService(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		writeError(w, apperrors.NotFound("service"))
		return
	}

	svc, err := h.contentService.ServiceBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	if svc == nil || !svc.Active {
		writeError(w, apperrors.NotFound("service"))
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (h *ContentHandler) GetLegalPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		writeError(w, apperrors.NotFound("legal page"))
		return
	}

	page, err := h.contentService.LegalPageBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	if page == nil {
		writeError(w, apperrors.NotFound("legal page"))
		return
	}
	writeJSON(w, http.StatusOK, page)
}
