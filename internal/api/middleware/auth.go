package middleware

import (
	"context"
	"net/http"

	"github.com/eventdeck/server/internal/api/respond"
	"github.com/eventdeck/server/internal/auth"
	"github.com/eventdeck/server/internal/metrics"
)

// deniedMessage is deliberately identical for a missing header, a malformed
// token, a forged signature, and a wrong-role token, so the response never
// reveals which check failed.
const deniedMessage = "Please authenticate using a valid token"

type contextKey string

const (
	userIDKey  contextKey = "userID"
	adminIDKey contextKey = "adminID"
)

// RequireRole gates a handler behind the role's token header ("user-token"
// or "admin-token"). On success the resolved identity is stored in the
// request context under the matching role key. Fail-closed: any ambiguity
// denies.
func RequireRole(manager *auth.TokenManager, role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				deny(w, r, role)
				return
			}

			claims, err := manager.Verify(r.Header.Get(role.Header()))
			if err != nil || claims.Role != role {
				deny(w, r, role)
				return
			}

			ctx := contextWithIdentity(r.Context(), role, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, role auth.Role) {
	metrics.AuthDenialsTotal.WithLabelValues(string(role)).Inc()
	respond.Fail(w, r, http.StatusUnauthorized, deniedMessage, nil)
}

func contextWithIdentity(ctx context.Context, role auth.Role, id string) context.Context {
	if role == auth.RoleAdmin {
		return context.WithValue(ctx, adminIDKey, id)
	}
	return context.WithValue(ctx, userIDKey, id)
}

// UserID returns the identity resolved by the user-scoped guard, or "".
func UserID(r *http.Request) string {
	if r == nil {
		return ""
	}
	if id, ok := r.Context().Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// AdminID returns the identity resolved by the admin-scoped guard, or "".
func AdminID(r *http.Request) string {
	if r == nil {
		return ""
	}
	if id, ok := r.Context().Value(adminIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithIdentity is exported for handler tests.
func ContextWithIdentity(ctx context.Context, role auth.Role, id string) context.Context {
	return contextWithIdentity(ctx, role, id)
}
