package middleware

import (
	"net/http"
	"time"

	"sentinela/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request so every
// mutation within it observes the same "now". SLA deadline arithmetic and
// audit timestamps depend on this consistency.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
