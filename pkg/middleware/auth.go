package middleware

import (
	"context"
	"net/http"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
	"github.com/DaviDemarqui/workwise-v1/pkg/response"
	"github.com/DaviDemarqui/workwise-v1/pkg/validation"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// IdentityKey is the context key for the calling identity
	IdentityKey ContextKey = "caller_identity"

	// IdentityHeader carries the identity authenticated by the hosting environment
	IdentityHeader = "X-Caller-Identity"
)

// IdentityMiddleware reads the caller identity from IdentityHeader.
// Requests without the header pass through anonymously; a malformed
// header is rejected.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(IdentityHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		id := governance.NormalizeIdentity(raw)
		if !validation.IsIdentity(string(id)) {
			response.Unauthorized(w, "Invalid caller identity")
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireIdentity rejects requests that carry no caller identity
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentity(r.Context()); !ok {
			response.Unauthorized(w, IdentityHeader+" header required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetIdentity extracts the caller identity from the request context
func GetIdentity(ctx context.Context) (governance.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(governance.Identity)
	return id, ok && id != ""
}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id governance.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}
