package middleware

import (
	"net/http"

	"github.com/412449-PICCO/generadorDiplos/internal/api/response"
)

// SessionCookieName is the cookie carrying the signed admin session token.
const SessionCookieName = "admin_session"

// SessionVerifier validates a signed session token.
type SessionVerifier interface {
	Verify(token string) error
}

// AdminSession returns a middleware that gates admin routes behind a valid
// session cookie.
func AdminSession(auth SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				response.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if err := auth.Verify(cookie.Value); err != nil {
				response.WriteError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
