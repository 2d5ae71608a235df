package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cecepns/stroke-care/internal/usecase"
)

type contextKey string

const claimsKey contextKey = "authClaims"

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*usecase.Claims, error)
}

// ClaimsFrom returns the verified claims stored on the request context, if
// the request passed through RequireAuth.
func ClaimsFrom(ctx context.Context) (*usecase.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*usecase.Claims)
	return claims, ok
}

// WithClaims stores verified claims on a context. Exposed for handler tests.
func WithClaims(ctx context.Context, claims *usecase.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified claims on the request context.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin rejects authenticated requests whose claims are not admin.
// Must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok || claims.Role != "admin" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
