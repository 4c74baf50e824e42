package middleware

import (
	"net/http"
	"strings"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/pkg/auth"
	"github.com/aurelia-hq/aurelia-backend/pkg/common"
)

// RequireAuth verifies the bearer token with the auth provider and attaches
// the resolved identity to the request context.
func RequireAuth(verifier ports.TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				common.RespondError(w, http.StatusUnauthorized, "No authorization header")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				common.RespondError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := auth.SetIdentityInContext(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches an identity when a valid bearer token is present and
// passes the request through untouched otherwise.
func OptionalAuth(verifier ports.TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := BearerToken(r); token != "" {
				if identity, err := verifier.Verify(r.Context(), token); err == nil {
					r = r.WithContext(auth.SetIdentityInContext(r.Context(), identity))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the token from the Authorization header. A bare
// token without the Bearer prefix is accepted too.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return header
}
