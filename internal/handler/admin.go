package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/audit"
	"github.com/dengeterapi/clinic-server-go/internal/config"
	apperrors "github.com/dengeterapi/clinic-server-go/internal/errors"
	"github.com/dengeterapi/clinic-server-go/internal/middleware"
	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/notify"
	"github.com/dengeterapi/clinic-server-go/internal/service"
	"github.com/dengeterapi/clinic-server-go/internal/util"
)

// AdminHandler serves the session-guarded back-office API: content CRUD,
// media, settings, backups, intake listings and booking reminders.
type AdminHandler struct {
	contentService    *service.ContentService
	contactService    *service.ContactService
	assessmentService *service.AssessmentService
	mediaService      *service.MediaService
	backupService     *service.BackupService
	settingsService   *service.SettingsService
	bookingService    *service.BookingService
	mailer            *notify.Mailer
	sessionMiddleware func(http.Handler) http.Handler
	csrfMiddleware    func(http.Handler) http.Handler
}

func NewAdminHandler(
	contentService *service.ContentService,
	contactService *service.ContactService,
	assessmentService *service.AssessmentService,
	mediaService *service.MediaService,
	backupService *service.BackupService,
	settingsService *service.SettingsService,
	bookingService *service.BookingService,
	mailer *notify.Mailer,
	sessionMiddleware func(http.Handler) http.Handler,
	csrfMiddleware func(http.Handler) http.Handler,
) *AdminHandler {
	return &AdminHandler{
		contentService:    contentService,
		contactService:    contactService,
		assessmentService: assessmentService,
		mediaService:      mediaService,
		backupService:     backupService,
		settingsService:   settingsService,
		bookingService:    bookingService,
		mailer:            mailer,
		sessionMiddleware: sessionMiddleware,
		csrfMiddleware:    csrfMiddleware,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.sessionMiddleware)
	r.Use(h.csrfMiddleware)

	// Media
	r.Get("/media", h.ListMedia)
	r.Post("/media", h.UploadMedia)
	r.Delete("/media/{id}", h.DeleteMedia)

	// Backups
	r.Get("/backups", h.ListBackups)
	r.Post("/backups", h.RunBackup)

	// Settings
	r.Get("/settings/site", h.GetSiteInfo)
	r.Put("/settings/site", h.PutSiteInfo)
	r.Get("/settings/email", h.GetEmailSettings)
	r.Put("/settings/email", h.PutEmailSettings)
	r.Get("/settings/backup", h.GetBackupSettings)
	r.Put("/settings/backup", h.PutBackupSettings)
	r.Post("/email/test", h.SendTestEmail)

	// Services
	r.Get("/services", h.ListServices)
	r.Post("/services", h.CreateService)
	r.Put("/services/{id}", h.UpdateService)
	r.Delete("/services/{id}", h.DeleteService)

	// Legal pages
	r.Get("/legal", h.ListLegalPages)
	r.Post("/legal", h.CreateLegalPage)
	r.Put("/legal/{id}", h.UpdateLegalPage)
	r.Delete("/legal/{id}", h.DeleteLegalPage)

	// Intake
	r.Get("/contact", h.ListContactSubmissions)
	r.Delete("/contact/{id}", h.DeleteContactSubmission)
	r.Get("/assessments", h.ListAssessments)

	// Bookings
	r.Get("/bookings", h.ListBookings)
	r.Post("/bookings/{id}/reminder", h.SendBookingReminder)

	return r
}

func (h *AdminHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)
	assets, err := h.mediaService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (h *AdminHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		writeError(w, apperrors.InvalidInput("file", "invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperrors.MissingRequired("file"))
		return
	}
	defer file.Close()

	var altText *string
	if v := strings.TrimSpace(r.FormValue("altText")); v != "" {
		altText = &v
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = header.Filename
	}

	asset, err := h.mediaService.Upload(r.Context(), file, service.UploadMediaParams{
		Title:        title,
		AltText:      altText,
		ContentType:  header.Header.Get("Content-Type"),
		SizeBytes:    header.Size,
		Filename:     header.Filename,
		DeclaredType: strings.TrimSpace(r.FormValue("type")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	session := middleware.GetAdminSession(r.Context())
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventMediaUpload,
		AdminID: session.AdminID,
		Details: map[string]interface{}{"media_id": asset.ID},
	})

	writeJSON(w, http.StatusCreated, asset)
}

func (h *AdminHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.NotFound("media asset"))
		return
	}

	if err := h.mediaService.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	session := middleware.GetAdminSession(r.Context())
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventMediaDelete,
		AdminID: session.AdminID,
		Details: map[string]interface{}{"media_id": id},
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)
	exports, err := h.backupService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exports)
}

// RunBackup forces an export regardless of the schedule.
func (h *AdminHandler) RunBackup(w http.ResponseWriter, r *http.Request) {
	export, err := h.backupService.Run(r.Context(), model.BackupTriggerAdmin)
	if err != nil {
		log.Error().Err(err).Msg("admin backup run failed")
		writeError(w, apperrors.Internal("Bir hata oluştu. Lütfen daha sonra tekrar deneyin."))
		return
	}

	session := middleware.GetAdminSession(r.Context())
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventBackupRun,
		AdminID: session.AdminID,
		Details: map[string]interface{}{"export_id": export.ID},
	})

	writeJSON(w, http.StatusCreated, export)
}

func (h *AdminHandler) GetSiteInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settingsService.SiteInfo(r.Context()))
}

func (h *AdminHandler) PutSiteInfo(w http.ResponseWriter, r *http.Request) {
	var req model.SiteInfo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	if err := h.settingsService.SetSiteInfo(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}

	h.auditSettingsChange(r, "site_info")
	writeJSON(w, http.StatusOK, req)
}

// GetEmailSettings never returns the stored ciphertext; the response only
// says whether a password is set.
func (h *AdminHandler) GetEmailSettings(w http.ResponseWriter, r *http.Request) {
	settings := h.settingsService.EmailSettings(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"host":        settings.Host,
		"port":        settings.Port,
		"username":    settings.Username,
		"from":        settings.From,
		"notifyTo":    settings.NotifyTo,
		"passwordSet": settings.PasswordEncrypted != "",
	})
}

func (h *AdminHandler) PutEmailSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
		From     string `json:"from"`
		NotifyTo string `json:"notifyTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	err := h.settingsService.SetEmailSettings(r.Context(), model.EmailSettings{
		Host:     req.Host,
		Port:     req.Port,
		Username: req.Username,
		From:     req.From,
		NotifyTo: req.NotifyTo,
	}, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.auditSettingsChange(r, "email_settings")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) GetBackupSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settingsService.BackupSettings(r.Context()))
}

func (h *AdminHandler) PutBackupSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled       bool `json:"enabled"`
		IntervalHours int  `json:"intervalHours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}
	if req.Enabled && req.IntervalHours <= 0 {
		writeError(w, apperrors.InvalidInput("intervalHours", "must be a positive number of hours"))
		return
	}

	err := h.settingsService.SetBackupSettings(r.Context(), model.BackupSettings{
		Enabled:       req.Enabled,
		IntervalHours: req.IntervalHours,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.auditSettingsChange(r, "backup_settings")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !util.IsValidEmail(req.To) {
		writeError(w, apperrors.InvalidInput("to", "must be a valid email address"))
		return
	}

	result := h.mailer.SendTestEmail(h.settingsService.ResolveSMTP(r.Context()), req.To, "SMTP ayarları doğru çalışıyor.")
	if !result.Success {
		writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": result.Error})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.contentService.AllServices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

func (h *AdminHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug        string `json:"slug"`
		Title       string `json:"title"`
		Description string `json:"description"`
		SortOrder   int    `json:"sortOrder"`
		Active      bool   `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}
	if !util.IsValidSlug(req.Slug) {
		writeError(w, apperrors.InvalidInput("slug", "must be lowercase letters, digits and dashes"))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, apperrors.MissingRequired("title"))
		return
	}

	svc, err := h.contentService.CreateService(r.Context(), model.CreateServiceParams{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		Active:      req.Active,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, svc)
}

func (h *AdminHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.NotFound("service"))
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		SortOrder   int    `json:"sortOrder"`
		Active      bool   `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, apperrors.MissingRequired("title"))
		return
	}

	svc, err := h.contentService.UpdateService(r.Context(), id, model.UpdateServiceParams{
		Title:       req.Title,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		Active:      req.Active,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, svc)
}

func (h *AdminHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.NotFound("service"))
		return
	}

	if err := h.contentService.DeleteService(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListLegalPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.contentService.LegalPages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

func (h *AdminHandler) CreateLegalPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug  string `json:"slug"`
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}
	if !util.IsValidSlug(req.Slug) {
		writeError(w, apperrors.InvalidInput("slug", "must be lowercase letters, digits and dashes"))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, apperrors.MissingRequired("title"))
		return
	}

	page, err := h.contentService.CreateLegalPage(r.Context(), model.CreateLegalPageParams{
		Slug:  req.Slug,
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, page)
}

func (h *AdminHandler) UpdateLegalPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.NotFound("legal page"))
		return
	}

	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, apperrors.MissingRequired("title"))
		return
	}

	page, err := h.contentService.UpdateLegalPage(r.Context(), id, model.UpdateLegalPageParams{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *AdminHandler) DeleteLegalPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.NotFound("legal page"))
		return
	}

	if err := h.contentService.DeleteLegalPage(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListContactSubmissions(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)
	subs, err := h.contactService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *AdminHandler) DeleteContactSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.NotFound("contact submission"))
		return
	}

	deleted, err := h.contactService.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, apperrors.NotFound("contact submission"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)
	assessments, err := h.assessmentService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessments)
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)
	bookings, err := h.bookingService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *AdminHandler) SendBookingReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.NotFound("booking"))
		return
	}

	result, err := h.bookingService.SendReminder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !result.Success {
		writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": result.Error})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) auditSettingsChange(r *http.Request, key string) {
	session := middleware.GetAdminSession(r.Context())
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventSettingsChange,
		AdminID: session.AdminID,
		Details: map[string]interface{}{"key": key},
	})
}
