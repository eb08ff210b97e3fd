package middleware

import (
	"net/http"

	"storefront-be/internal/apperror"
	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/transport"
)

var (
	ErrNoToken     = apperror.Unauthorized("not authorized, no token")
	ErrTokenFailed = apperror.Unauthorized("not authorized, token failed")
	ErrNotAdmin    = apperror.Forbidden("not authorized as an admin")
)

// TokenParser verifies an access token and returns its principal.
type TokenParser interface {
	Parse(token string) (auth.Principal, error)
}

// Authenticate resolves the access token, when one is sent, into an
// auth.Principal on the request context. Requests without a token pass
// through anonymously; a token that fails verification is rejected.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := auth.ExtractAccessToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := tokens.Parse(raw)
			if err != nil {
				transport.WriteError(w, r, ErrTokenFailed)
				return
			}

			ctx := auth.WithPrincipal(r.Context(), principal)
			ctx = logger.WithUserID(ctx, principal.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.PrincipalFrom(r.Context()); !ok {
			transport.WriteError(w, r, ErrNoToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous and non-admin requests.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFrom(r.Context())
		if !ok {
			transport.WriteError(w, r, ErrNoToken)
			return
		}
		if !p.IsAdmin() {
			transport.WriteError(w, r, ErrNotAdmin)
			return
		}
		next.ServeHTTP(w, r)
	})
}
