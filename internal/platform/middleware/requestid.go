// Package middleware holds the HTTP middleware chain: request correlation,
// request-scoped time, client metadata capture, JWT auth, and the admin
// token gate. Values flow to services through pkg/requestcontext.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"sentinela/pkg/requestcontext"
)

const requestIDHeader = "X-Request-ID"

// RequestID honors an incoming X-Request-ID or mints one, echoes it on the
// response, and stores it in the context for log and audit correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
