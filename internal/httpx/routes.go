package httpx

import (
	"log/slog"
	"net/http"

	"saas-control-plane/backend/internal/security"
)

// RouterParams collects everything NewRouter wires together.
type RouterParams struct {
	Auth      *AuthHandler
	Tokens    *security.TokenProvider
	Validator SessionValidatorParams
	Logger    *slog.Logger
}

// NewRouter builds the HTTP mux. Public routes pass only through logging,
// recovery, and token authentication; protected routes additionally pass
// through tenant binding and session validation, in that order.
func NewRouter(p RouterParams) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /v1/auth/register", p.Auth.Register)
	mux.HandleFunc("POST /v1/auth/login", p.Auth.Login)
	mux.HandleFunc("POST /v1/auth/mfa/challenge", p.Auth.MFAChallenge)
	mux.HandleFunc("GET /v1/auth/mfa/methods", p.Auth.MFAMethods)
	mux.HandleFunc("POST /v1/auth/mfa/verify", p.Auth.MFAVerify)
	mux.HandleFunc("POST /v1/auth/refresh", p.Auth.Refresh)
	mux.HandleFunc("POST /v1/auth/logout", p.Auth.Logout)

	protected := func(h http.HandlerFunc) http.Handler {
		return Chain(h,
			RequireAuth(),
			TenantBinding(p.Validator.Pipeline),
			ValidateSession(p.Validator),
		)
	}
	mux.Handle("GET /v1/me", protected(p.Auth.Me))
	mux.Handle("POST /v1/auth/password", protected(p.Auth.ChangePassword))
	mux.Handle("GET /v1/sessions", protected(p.Auth.ListSessions))
	mux.Handle("DELETE /v1/sessions/{id}", protected(p.Auth.RevokeSession))

	return Chain(mux,
		Recover(p.Logger),
		Logging(p.Logger),
		ClientIP(),
		Authenticate(p.Tokens),
	)
}
