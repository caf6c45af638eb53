package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"saas-control-plane/backend/internal/security"
)

const bearerPrefix = "bearer "

type contextKey struct{ name string }

var claimsKey = contextKey{"claims"}

// Authenticate returns a middleware that validates the Bearer access token and
// stores its verified claims in the request context. Requests without a token,
// or with an invalid one, pass through anonymously; RequireAuth and the tenant
// binding decide whether that is acceptable for the route.
func Authenticate(tokens *security.TokenProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.VerifyClaims(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Claims returns the verified token claims stored by Authenticate, or nil for
// anonymous requests.
func Claims(ctx context.Context) map[string]string {
	claims, _ := ctx.Value(claimsKey).(map[string]string)
	return claims
}

// RequireAuth returns a middleware that rejects anonymous requests with 401.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Claims(r.Context()) == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("missing or invalid authorization"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
