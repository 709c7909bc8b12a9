package http

import (
	"context"
	"net/http"

	"github.com/todovault/todovault"
)

// Authorizer turns an Authorization header into an allow/deny decision.
type Authorizer interface {
	Authorize(authHeader string) todovault.Decision
}

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFromContext returns the authenticated owner id placed in the
// request context by AuthMiddleware.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(principalKey).(string)
	return principal, ok
}

// AuthMiddleware creates middleware that enforces bearer-token authentication.
// Pass nil to disable authentication (public access).
//
// A deny decision produces a uniform 401; the request context of an allowed
// request carries the resolved principal.
func AuthMiddleware(authorizer Authorizer) func(http.Handler) http.Handler {
	if authorizer == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := authorizer.Authorize(r.Header.Get("Authorization"))
			if !decision.Allow {
				HandleError(w, ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, decision.Principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
