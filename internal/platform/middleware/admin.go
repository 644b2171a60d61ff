package middleware

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// RequireAdminToken gates operational endpoints (classifier trace, manager
// administration) behind a shared token. Only the bcrypt hash lives in
// configuration; an empty hash disables the endpoints entirely rather than
// leaving them open.
func RequireAdminToken(tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				http.Error(w, "admin endpoints disabled", http.StatusForbidden)
				return
			}
			token := r.Header.Get("X-Admin-Token")
			if token == "" {
				http.Error(w, "admin token required", http.StatusForbidden)
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				http.Error(w, "invalid admin token", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
