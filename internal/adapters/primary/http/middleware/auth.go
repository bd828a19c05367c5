package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lorrc/kanban-board/internal/auth"
	"github.com/lorrc/kanban-board/internal/core/ports"
	"github.com/lorrc/kanban-board/internal/infrastructure/logging"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ViewerClaimsKey is the key used to store viewer claims in the request context.
const ViewerClaimsKey contextKey = "viewerClaims"

// OptionalViewer validates a Bearer token when one is sent. Requests
// without an Authorization header continue as the anonymous viewer; a
// malformed or invalid token is rejected.
func OptionalViewer(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authorization header format must be Bearer {token}", "UNAUTHORIZED")
				return
			}

			claims, err := tm.ValidateToken(parts[1])
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token", "INVALID_TOKEN")
				return
			}

			ctx := ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextWithClaims stores the viewer claims and tags the logger context.
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, ViewerClaimsKey, claims)
	return logging.WithViewerID(ctx, claims.Scope())
}

// ClaimsFromContext returns the viewer claims, if the request carried a token.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ViewerClaimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// ViewerScope returns the preference scope for the request's viewer.
func ViewerScope(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.Scope()
	}
	return ports.DefaultScope
}
