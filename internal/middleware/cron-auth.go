package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
)

// CronAuth gates the scheduler-facing endpoints behind a shared bearer
// secret. Missing credentials are 401, wrong ones 403; nothing runs either
// way.
func CronAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAppError(w, app_error.NewAppError(http.StatusUnauthorized, "Missing Authorization header", "cron-auth"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeAppError(w, app_error.NewAppError(http.StatusUnauthorized, "Invalid Authorization header format", "cron-auth"))
				return
			}

			if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(secret)) != 1 {
				writeAppError(w, app_error.NewAppError(http.StatusForbidden, "Invalid cron secret", "cron-auth"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
