package testutil

import (
	"net/http"
	"time"

	id "sentinela/pkg/domain"
	"sentinela/pkg/requestcontext"
)

// WithTenant adds a tenant ID to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithTenant(req *http.Request, tenantID id.TenantID) *http.Request {
	return req.WithContext(requestcontext.WithTenantID(req.Context(), tenantID))
}

// WithActor adds user ID and role claims to the request context, the typical
// state after the auth middleware has run.
func WithActor(req *http.Request, userID id.UserID, role string) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithRole(ctx, role)
	return req.WithContext(ctx)
}

// WithAuth adds tenant, user and role to the request context in one call.
func WithAuth(req *http.Request, tenantID id.TenantID, userID id.UserID, role string) *http.Request {
	ctx := requestcontext.WithTenantID(req.Context(), tenantID)
	ctx = requestcontext.WithUserID(ctx, userID)
	ctx = requestcontext.WithRole(ctx, role)
	return req.WithContext(ctx)
}

// WithFixedTime pins the request-scoped clock, so handlers under test produce
// deterministic timestamps and deadlines.
func WithFixedTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
