package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/unimarket/internal/http/respond"
)

// CronSecret guards the cleanup endpoints with a shared secret. With no
// secret configured every request fails with 500 rather than running
// unauthenticated.
func CronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				slog.ErrorContext(r.Context(), "cron secret is not configured")
				respond.Message(w, http.StatusInternalServerError, "Server configuration error")

				return
			}

			token, ok := bearer(r)
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				respond.Message(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
