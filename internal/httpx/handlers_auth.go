package httpx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"saas-control-plane/backend/internal/identity/service"
	"saas-control-plane/backend/internal/metrics"
	"saas-control-plane/backend/internal/mfa"
	mfadomain "saas-control-plane/backend/internal/mfa/domain"
	sessiondomain "saas-control-plane/backend/internal/session/domain"
	"saas-control-plane/backend/internal/tenant"
)

// SessionLister lists and revokes a user's sessions for the self-service endpoints.
type SessionLister interface {
	ListByUserAndOrg(ctx context.Context, userID, orgID string) ([]*sessiondomain.Session, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
}

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	sessions SessionLister
	pipeline *metrics.Pipeline
}

// NewAuthHandler returns an AuthHandler over the given service.
func NewAuthHandler(auth *service.AuthService, sessions SessionLister, pipeline *metrics.Pipeline) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, pipeline: pipeline}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register handles POST /v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	userID, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"user_id": userID})
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	OrgID      string `json:"org_id"`
	DeviceName string `json:"device_name,omitempty"`
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	SessionID    string    `json:"session_id"`
	OrgID        string    `json:"org_id"`
}

type mfaRequiredResponse struct {
	MFARequired    bool     `json:"mfa_required"`
	IntentID       string   `json:"intent_id"`
	DefaultMethod  string   `json:"default_method"`
	OfferedMethods []string `json:"offered_methods"`
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), service.LoginParams{
		Email:      req.Email,
		Password:   req.Password,
		OrgID:      req.OrgID,
		DeviceName: req.DeviceName,
		UserAgent:  r.UserAgent(),
		IPAddress:  clientIP(r),
	})
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	if res.MFARequired {
		offered := make([]string, 0, len(res.OfferedMethods))
		for _, m := range res.OfferedMethods {
			offered = append(offered, string(m))
		}
		WriteJSON(w, http.StatusOK, mfaRequiredResponse{
			MFARequired:    true,
			IntentID:       res.IntentID,
			DefaultMethod:  string(res.DefaultMethod),
			OfferedMethods: offered,
		})
		return
	}
	WriteJSON(w, http.StatusOK, tokenResponseFrom(res.Tokens))
}

type mfaChallengeRequest struct {
	IntentID string `json:"intent_id"`
	Method   string `json:"method"`
}

// MFAChallenge handles POST /v1/auth/mfa/challenge: delivery of a code for a
// fallback method mid-login.
func (h *AuthHandler) MFAChallenge(w http.ResponseWriter, r *http.Request) {
	var req mfaChallengeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	devCode, err := h.auth.RequestMFAChallenge(r.Context(), req.IntentID, mfadomain.Method(req.Method))
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	resp := map[string]string{"status": "sent"}
	if devCode != "" {
		resp["code"] = devCode
	}
	WriteJSON(w, http.StatusOK, resp)
}

// MFAMethods handles GET /v1/auth/mfa/methods?intent_id=...: the fallback-method
// picker for a pending login.
func (h *AuthHandler) MFAMethods(w http.ResponseWriter, r *http.Request) {
	intentID := r.URL.Query().Get("intent_id")
	if intentID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_request",
			Err:     errors.New("intent_id is required"),
		})
		return
	}
	def, offered, err := h.auth.MFAMethods(r.Context(), intentID)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	methods := make([]string, 0, len(offered))
	for _, m := range offered {
		methods = append(methods, string(m))
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"default_method":  string(def),
		"offered_methods": methods,
	})
}

type mfaVerifyRequest struct {
	IntentID string `json:"intent_id"`
	Method   string `json:"method"`
	Code     string `json:"code"`
}

// MFAVerify handles POST /v1/auth/mfa/verify, completing a pending login.
func (h *AuthHandler) MFAVerify(w http.ResponseWriter, r *http.Request) {
	var req mfaVerifyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	tokens, err := h.auth.CompleteMFALogin(r.Context(), req.IntentID, mfadomain.Method(req.Method), req.Code)
	if err != nil {
		if errors.Is(err, mfa.ErrInvalidCode) {
			h.pipeline.MFAFailure(r.Context(), req.Method)
		}
		h.writeAuthError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, tokenResponseFrom(tokens))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /v1/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	tokens, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, tokenResponseFrom(tokens))
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Logout handles POST /v1/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if r.ContentLength > 0 && !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles POST /v1/auth/password. Protected route: the actor
// comes from the bound request identity, never the body.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	userID, _ := tenant.RequestUserID(ctx)
	orgID, _ := tenant.RequestOrgID(ctx)
	if err := h.auth.ChangePassword(ctx, userID, orgID, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeAuthError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

// Me handles GET /v1/me, echoing the bound request identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := tenant.RequestUserID(ctx)
	orgID, _ := tenant.RequestOrgID(ctx)
	sessionID, _ := tenant.RequestSessionID(ctx)
	name, _ := tenant.RequestUserName(ctx)
	WriteJSON(w, http.StatusOK, map[string]string{
		"user_id":    userID,
		"org_id":     orgID,
		"session_id": sessionID,
		"name":       name,
	})
}

type sessionResponse struct {
	ID         string     `json:"id"`
	DeviceName string     `json:"device_name,omitempty"`
	IPAddress  string     `json:"ip_address,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Current    bool       `json:"current"`
}

// ListSessions handles GET /v1/sessions: the caller's sessions in the bound org.
func (h *AuthHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := tenant.RequestUserID(ctx)
	orgID, _ := tenant.RequestOrgID(ctx)
	current, _ := tenant.RequestSessionID(ctx)

	sessions, err := h.sessions.ListByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: errors.New("listing sessions failed")})
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{
			ID:         s.ID,
			DeviceName: s.DeviceName,
			IPAddress:  s.IPAddress,
			CreatedAt:  s.CreatedAt,
			LastSeenAt: s.LastSeenAt,
			ExpiresAt:  s.ExpiresAt,
			Current:    s.ID == current,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

// RevokeSession handles DELETE /v1/sessions/{id}. Callers may only revoke their
// own sessions in the bound org.
func (h *AuthHandler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := tenant.RequestUserID(ctx)
	orgID, _ := tenant.RequestOrgID(ctx)
	id := r.PathValue("id")

	sess, err := h.sessions.GetByID(ctx, id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: errors.New("session lookup failed")})
		return
	}
	if sess == nil || sess.UserID != userID || sess.OrgID != orgID {
		// Foreign and missing sessions are indistinguishable.
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("session not found")})
		return
	}
	if err := h.sessions.Revoke(ctx, id, time.Now().UTC()); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: errors.New("revoking session failed")})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

func tokenResponseFrom(t *service.AuthResult) tokenResponse {
	return tokenResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt,
		SessionID:    t.SessionID,
		OrgID:        t.OrgID,
	}
}

// writeAuthError maps service errors to HTTP statuses.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		locked    *service.AccountLockedError
		mfaLocked *mfa.LockedError
		policy    *service.PolicyViolationError
	)
	switch {
	case errors.As(err, &locked):
		h.pipeline.Lockout(r.Context(), "login")
		writeLocked(w, "account_locked", err, locked.Remaining)
	case errors.As(err, &mfaLocked):
		h.pipeline.Lockout(r.Context(), "mfa")
		writeLocked(w, "mfa_locked", err, mfaLocked.Remaining)
	case errors.As(err, &policy):
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      "password_policy_violation",
			"message":    err.Error(),
			"violations": policy.Verdict.Violations,
		})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrRefreshTokenReuse):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_credentials", Err: err})
	case errors.Is(err, mfa.ErrInvalidCode):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_code", Err: err})
	case errors.Is(err, service.ErrInvalidIntent):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_intent", Err: err})
	case errors.Is(err, service.ErrNotOrgMember), errors.Is(err, service.ErrOrgInactive):
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "forbidden", Err: err})
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_taken", Err: err})
	case errors.Is(err, mfa.ErrMethodNotChallengeable), errors.Is(err, mfa.ErrMethodNotEnrolled):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_method", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: errors.New("internal error")})
	}
}

func writeLocked(w http.ResponseWriter, code string, err error, remaining time.Duration) {
	WriteJSON(w, http.StatusLocked, map[string]any{
		"error":               code,
		"message":             err.Error(),
		"retry_after_seconds": int(remaining.Round(time.Second).Seconds()),
	})
}

// clientIP extracts the client address, honoring X-Forwarded-For from the edge proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
