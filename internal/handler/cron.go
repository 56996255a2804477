package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/dengeterapi/clinic-server-go/internal/errors"
	"github.com/dengeterapi/clinic-server-go/internal/service"
)

// CronHandler serves the scheduler-facing endpoints. Auth is handled by the
// cron bearer middleware mounted in front of it.
type CronHandler struct {
	backupService  *service.BackupService
	authMiddleware func(http.Handler) http.Handler
}

func NewCronHandler(backupService *service.BackupService, authMiddleware func(http.Handler) http.Handler) *CronHandler {
	return &CronHandler{backupService: backupService, authMiddleware: authMiddleware}
}

func (h *CronHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.authMiddleware)
	r.Get("/backups", h.RunScheduledBackup)
	r.Post("/backups", h.RunScheduledBackup)

	return r
}

// RunScheduledBackup runs an export only when the configured interval has
// elapsed. Not-due calls still answer 200 so schedulers do not alert.
func (h *CronHandler) RunScheduledBackup(w http.ResponseWriter, r *http.Request) {
	export, ran, err := h.backupService.RunIfDue(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("scheduled backup failed")
		writeError(w, apperrors.Internal("Bir hata oluştu. Lütfen daha sonra tekrar deneyin."))
		return
	}

	if !ran {
		writeJSON(w, http.StatusOK, map[string]any{"ran": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ran": true, "export": export})
}
