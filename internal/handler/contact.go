package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/dengeterapi/clinic-server-go/internal/errors"
	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/service"
	"github.com/dengeterapi/clinic-server-go/internal/util"
)

const maxMessageLength = 5000

// ContactHandler serves the public intake endpoints: the contact form and
// the self-assessment questionnaire.
type ContactHandler struct {
	contactService    *service.ContactService
	assessmentService *service.AssessmentService
	rateLimiter       func(http.Handler) http.Handler
}

func NewContactHandler(
	contactService *service.ContactService,
	assessmentService *service.AssessmentService,
	rateLimiter func(http.Handler) http.Handler,
) *ContactHandler {
	return &ContactHandler{
		contactService:    contactService,
		assessmentService: assessmentService,
		rateLimiter:       rateLimiter,
	}
}

// RegisterRoutes attaches the intake endpoints to the public API router.
func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.With(h.rateLimiter).Post("/contact", h.SubmitContact)
	r.Post("/assessment/create", h.SaveAssessment)
}

func (h *ContactHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Email   string  `json:"email"`
		Phone   *string `json:"phone"`
		Subject *string `json:"subject"`
		Message string  `json:"message"`
		Source  *string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" {
		writeError(w, apperrors.MissingRequired("name"))
		return
	}
	if !util.IsValidEmail(req.Email) {
		writeError(w, apperrors.InvalidInput("email", "must be a valid email address"))
		return
	}
	if req.Message == "" {
		writeError(w, apperrors.MissingRequired("message"))
		return
	}
	if len(req.Message) > maxMessageLength {
		writeError(w, apperrors.InvalidInput("message", "message is too long"))
		return
	}

	sub, err := h.contactService.Submit(r.Context(), model.CreateContactSubmissionParams{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Source:  req.Source,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": sub.ID})
}

func (h *ContactHandler) SaveAssessment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string          `json:"sessionId"`
		Answers   json.RawMessage `json:"answers"`
		Completed bool            `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}
	if req.SessionID == "" {
		writeError(w, apperrors.MissingRequired("sessionId"))
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, apperrors.MissingRequired("answers"))
		return
	}

	status := model.AssessmentStatusInProgress
	if req.Completed {
		status = model.AssessmentStatusCompleted
	}

	assessment, err := h.assessmentService.Save(r.Context(), model.UpsertAssessmentParams{
		SessionID: req.SessionID,
		Answers:   req.Answers,
		Status:    status,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}
