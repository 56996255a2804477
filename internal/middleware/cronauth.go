package middleware

import (
	"net/http"
	"strings"

	"github.com/dengeterapi/clinic-server-go/internal/audit"
	"github.com/dengeterapi/clinic-server-go/internal/util"
)

// CronAuthMiddleware authorizes scheduler-invoked endpoints with a shared
// bearer secret. Unlike most optional integrations, an unset secret closes
// the endpoint instead of opening it: these routes write to storage.
type CronAuthMiddleware struct {
	secret string
}

func NewCronAuthMiddleware(secret string) *CronAuthMiddleware {
	return &CronAuthMiddleware{secret: secret}
}

func (m *CronAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "Cron endpoint not configured",
			})
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || !util.ConstantTimeEqual(token, m.secret) {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventCronAuthFailure})
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
