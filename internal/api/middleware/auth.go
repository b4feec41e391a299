package middleware

import (
	"context"
	"net/http"
	"solution_share/internal/common"
	"solution_share/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const PrincipalCtxKey contextKey = "principal"

// TokenAuthenticator resolves a raw bearer token, including the revocation
// check.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*security.Principal, error)
}

// Authenticator rejects requests without a valid, unrevoked bearer token and
// stores the caller's principal in the request context.
func Authenticator(auth TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwtauth.TokenFromHeader(r)
			if token == "" {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			principal, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				common.RespondWithErr(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalCtxKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper to get the authenticated principal from context
func GetPrincipalFromContext(ctx context.Context) (*security.Principal, bool) {
	p, ok := ctx.Value(PrincipalCtxKey).(*security.Principal)
	return p, ok && p != nil
}

// GetUserIDFromContext returns the authenticated user's id.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	p, ok := GetPrincipalFromContext(ctx)
	if !ok {
		return "", false
	}
	return p.UID, true
}
