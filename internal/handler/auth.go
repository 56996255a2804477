package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/audit"
	apperrors "github.com/dengeterapi/clinic-server-go/internal/errors"
	"github.com/dengeterapi/clinic-server-go/internal/middleware"
	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/service"
	"github.com/dengeterapi/clinic-server-go/internal/util"
)

const minPasswordLength = 8

// credentialService is the slice of service.AuthService the handler uses.
type credentialService interface {
	Setup(ctx context.Context, name, email, password string) (*model.AdminUser, string, error)
	Login(ctx context.Context, email, password string, rememberMe bool) (string, error)
	Logout(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string)
	ResetPassword(ctx context.Context, token, newPassword string) (bool, error)
}

var _ credentialService = (*service.AuthService)(nil)

// AuthHandler serves the admin credential endpoints: first-run setup,
// login, logout and the password reset pair.
type AuthHandler struct {
	authService      credentialService
	loginRateLimiter *middleware.LoginRateLimiter
	isProduction     bool
}

func NewAuthHandler(authService credentialService, isProduction bool) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		loginRateLimiter: middleware.NewLoginRateLimiter(),
		isProduction:     isProduction,
	}
}

// RegisterRoutes attaches the credential endpoints to the admin router.
// They share the /api/admin prefix with the session-guarded management
// routes but sit outside the session middleware.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/setup", h.Setup)
	r.With(h.loginRateLimiter.Handler).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" {
		writeError(w, apperrors.MissingRequired("name"))
		return
	}
	if !util.IsValidEmail(req.Email) {
		writeError(w, apperrors.InvalidInput("email", "must be a valid email address"))
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, apperrors.InvalidInput("password", "must be at least 8 characters"))
		return
	}

	user, token, err := h.authService.Setup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.SetSessionCookie(w, token, middleware.SessionTTL(false), h.isProduction)
	audit.LogFromRequest(r, audit.Event{Type: audit.EventSetupComplete, AdminID: user.ID})

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		RememberMe bool   `json:"rememberMe"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Geçersiz giriş bilgisi."})
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		log.Error().Err(err).Msg("admin login error")
		writeError(w, apperrors.Internal("Bir hata oluştu. Lütfen daha sonra tekrar deneyin."))
		return
	}

	if token == "" {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginFailure, Details: map[string]interface{}{"email": req.Email}})
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Geçersiz giriş bilgisi."})
		return
	}

	middleware.SetSessionCookie(w, token, middleware.SessionTTL(req.RememberMe), h.isProduction)
	audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginSuccess})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout clears the cookie and redirects to the public site. Unknown or
// missing cookies still produce the redirect.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.AdminSessionCookie); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			log.Error().Err(err).Msg("admin logout error")
		}
	}

	middleware.ClearSessionCookie(w)
	audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ForgotPassword always answers 200 with the same body, so the endpoint
// cannot confirm whether an email belongs to an admin.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && util.IsValidEmail(req.Email) {
		h.authService.RequestPasswordReset(r.Context(), req.Email)
		audit.LogFromRequest(r, audit.Event{Type: audit.EventPasswordResetRequest})
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, apperrors.InvalidToken("Geçersiz veya süresi dolmuş bağlantı."))
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, apperrors.InvalidInput("password", "must be at least 8 characters"))
		return
	}

	ok, err := h.authService.ResetPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		log.Error().Err(err).Msg("password reset error")
		writeError(w, apperrors.Internal("Bir hata oluştu. Lütfen daha sonra tekrar deneyin."))
		return
	}
	if !ok {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventPasswordResetFailure})
		writeError(w, apperrors.InvalidToken("Geçersiz veya süresi dolmuş bağlantı."))
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventPasswordResetDone})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
