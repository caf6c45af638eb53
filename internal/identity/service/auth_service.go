package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	auditdomain "saas-control-plane/backend/internal/audit/domain"
	identitydomain "saas-control-plane/backend/internal/identity/domain"
	intentdomain "saas-control-plane/backend/internal/loginintent/domain"
	membershipdomain "saas-control-plane/backend/internal/membership/domain"
	"saas-control-plane/backend/internal/mfa"
	mfadomain "saas-control-plane/backend/internal/mfa/domain"
	orgdomain "saas-control-plane/backend/internal/organization/domain"
	"saas-control-plane/backend/internal/passwordpolicy"
	policydomain "saas-control-plane/backend/internal/passwordpolicy/domain"
	"saas-control-plane/backend/internal/security"
	sessiondomain "saas-control-plane/backend/internal/session/domain"
	"saas-control-plane/backend/internal/tenant"
	userdomain "saas-control-plane/backend/internal/user/domain"
)

// Sentinel errors for the auth service; the handler maps them to HTTP statuses.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidRefreshToken    = errors.New("invalid or expired refresh token")
	ErrRefreshTokenReuse      = errors.New("refresh token reuse detected; all sessions revoked")
	ErrNotOrgMember           = errors.New("user is not a member of the organization")
	ErrOrgInactive            = errors.New("organization is not active")
	ErrInvalidIntent          = errors.New("invalid or expired login intent")
)

// AccountLockedError is returned while the account's login lockout is in effect.
type AccountLockedError struct {
	Remaining time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, retry in %s", e.Remaining.Round(time.Second))
}

// PolicyViolationError carries every password rule the candidate violated.
type PolicyViolationError struct {
	Verdict passwordpolicy.Verdict
}

func (e *PolicyViolationError) Error() string {
	if len(e.Verdict.Violations) == 1 {
		return "password rejected: " + e.Verdict.Violations[0].Message
	}
	return fmt.Sprintf("password rejected: %d rule violations", len(e.Verdict.Violations))
}

// AuthResult holds issued tokens after a completed login or refresh.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	SessionID    string
	UserID       string
	OrgID        string
}

// LoginResult is the outcome of Login: either tokens, or a pending MFA step the
// caller must complete with CompleteMFALogin.
type LoginResult struct {
	MFARequired    bool
	IntentID       string
	DefaultMethod  mfadomain.Method
	OfferedMethods []mfadomain.Method
	Tokens         *AuthResult
}

// LoginParams carries credentials and request metadata into Login.
type LoginParams struct {
	Email      string
	Password   string
	OrgID      string
	DeviceName string
	UserAgent  string
	IPAddress  string
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	IncrementFailedLogins(ctx context.Context, id string, at time.Time) (int, error)
	ResetFailedLogins(ctx context.Context, id string, at time.Time) error
	SetLocked(ctx context.Context, id string, until time.Time) error
}

// IdentityRepo is the minimal identity repository needed by the auth service.
type IdentityRepo interface {
	GetByUserAndProvider(ctx context.Context, userID string, provider identitydomain.IdentityProvider) (*identitydomain.Identity, error)
	Create(ctx context.Context, i *identitydomain.Identity) error
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	Revoke(ctx context.Context, id string, at time.Time) error
	RevokeAllByUser(ctx context.Context, userID string, at time.Time) error
	UpdateRefreshToken(ctx context.Context, sessionID, jti, refreshTokenHash string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
}

// MembershipRepo is the minimal membership repository needed by the auth service.
type MembershipRepo interface {
	GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error)
}

// OrgRepo is the minimal organization repository needed by the auth service.
type OrgRepo interface {
	GetByID(ctx context.Context, id string) (*orgdomain.Org, error)
}

// IntentRepo is the minimal login intent repository needed by the auth service.
type IntentRepo interface {
	Create(ctx context.Context, i *intentdomain.Intent) error
	GetByID(ctx context.Context, id string) (*intentdomain.Intent, error)
	Consume(ctx context.Context, id string) (*intentdomain.Intent, error)
}

// MFAEngine is the minimal MFA surface needed by the auth service.
type MFAEngine interface {
	EnabledMethods(ctx context.Context, userID string) ([]*mfadomain.Settings, error)
	OfferedMethods(ctx context.Context, userID string) ([]mfadomain.Method, error)
	Challenge(ctx context.Context, userID string, method mfadomain.Method) (string, error)
	Verify(ctx context.Context, userID, orgID string, method mfadomain.Method, code string, meta mfa.AttemptMeta) error
}

// PolicyResolver resolves the effective password/security policy for an org.
type PolicyResolver interface {
	Resolve(ctx context.Context, orgID string) (*policydomain.Policy, error)
}

// AuditLogger records best-effort audit events.
type AuditLogger interface {
	LogEvent(ctx context.Context, orgID, userID, action, resource, metadata string)
}

const intentTTL = 5 * time.Minute

// AuthService implements register, login (with optional MFA step), refresh,
// logout, and password change.
type AuthService struct {
	userRepo       UserRepo
	identityRepo   IdentityRepo
	sessionRepo    SessionRepo
	membershipRepo MembershipRepo
	orgRepo        OrgRepo
	intentRepo     IntentRepo
	mfaEngine      MFAEngine
	policies       PolicyResolver
	audit          AuditLogger
	hasher         *security.Hasher
	tokens         *security.TokenProvider
	sessionTTL     time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

// AuthServiceParams collects the dependencies of NewAuthService.
type AuthServiceParams struct {
	UserRepo       UserRepo
	IdentityRepo   IdentityRepo
	SessionRepo    SessionRepo
	MembershipRepo MembershipRepo
	OrgRepo        OrgRepo
	IntentRepo     IntentRepo
	MFAEngine      MFAEngine
	Policies       PolicyResolver
	Audit          AuditLogger
	Hasher         *security.Hasher
	Tokens         *security.TokenProvider
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(p AuthServiceParams) *AuthService {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return &AuthService{
		userRepo:       p.UserRepo,
		identityRepo:   p.IdentityRepo,
		sessionRepo:    p.SessionRepo,
		membershipRepo: p.MembershipRepo,
		orgRepo:        p.OrgRepo,
		intentRepo:     p.IntentRepo,
		mfaEngine:      p.MFAEngine,
		policies:       p.Policies,
		audit:          p.Audit,
		hasher:         p.Hasher,
		tokens:         p.Tokens,
		sessionTTL:     p.SessionTTL,
		logger:         p.Logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user and local identity. The password is checked against
// the platform default policy; per-org policies apply once the user joins an org.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return "", err
	}
	verdict := passwordpolicy.Evaluate(password, policydomain.Default(), passwordpolicy.UserContext{
		Name:  name,
		Email: email,
	})
	if !verdict.OK() {
		return "", &PolicyViolationError{Verdict: verdict}
	}
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrEmailAlreadyRegistered
	}
	now := s.now()
	user := &userdomain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      strings.TrimSpace(name),
		Status:    userdomain.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.Validate(); err != nil {
		return "", err
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return "", err
	}
	identity := &identitydomain.Identity{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		Provider:     identitydomain.IdentityProviderLocal,
		ProviderID:   email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}
	if err := s.identityRepo.Create(ctx, identity); err != nil {
		return "", err
	}
	return user.ID, nil
}

// Login authenticates with email/password against an org. When the user has MFA
// enabled it returns a pending intent instead of tokens; CompleteMFALogin
// finishes the login.
func (s *AuthService) Login(ctx context.Context, p LoginParams) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(p.Email))
	orgID := strings.TrimSpace(p.OrgID)
	if email == "" || p.Password == "" || orgID == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active() {
		s.audit.LogEvent(ctx, orgID, "", auditdomain.ActionLoginFailure, "session", "unknown or disabled user")
		return nil, ErrInvalidCredentials
	}

	policy, err := s.policies.Resolve(ctx, orgID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if state := passwordpolicy.CheckLockout(user.FailedLoginAttempts, user.LockedUntil, policy, now); state.Locked {
		s.audit.LogEvent(ctx, orgID, user.ID, auditdomain.ActionLoginLocked, "session", "")
		return nil, &AccountLockedError{Remaining: state.Remaining}
	}
	// An expired lockout window forgives past failures.
	if user.LockedUntil != nil && user.FailedLoginAttempts > 0 {
		if err := s.userRepo.ResetFailedLogins(ctx, user.ID, now); err != nil {
			return nil, err
		}
		user.FailedLoginAttempts = 0
	}

	ident, err := s.identityRepo.GetByUserAndProvider(ctx, user.ID, identitydomain.IdentityProviderLocal)
	if err != nil {
		return nil, err
	}
	if !ident.HasPassword() {
		s.audit.LogEvent(ctx, orgID, user.ID, auditdomain.ActionLoginFailure, "session", "no local identity")
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(ident.PasswordHash, []byte(p.Password)); err != nil {
		return nil, s.recordLoginFailure(ctx, user, orgID, policy, now)
	}

	membership, err := s.membershipRepo.GetMembershipByUserAndOrg(ctx, user.ID, orgID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		s.audit.LogEvent(ctx, orgID, user.ID, auditdomain.ActionLoginFailure, "session", "not a member")
		return nil, ErrNotOrgMember
	}
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil || org.Inactive() {
		s.audit.LogEvent(ctx, orgID, user.ID, auditdomain.ActionLoginFailure, "session", "org inactive")
		return nil, ErrOrgInactive
	}

	if user.FailedLoginAttempts > 0 {
		if err := s.userRepo.ResetFailedLogins(ctx, user.ID, now); err != nil {
			return nil, err
		}
	}

	enabled, err := s.mfaEngine.EnabledMethods(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(enabled) > 0 {
		return s.beginMFALogin(ctx, user, orgID, enabled, p)
	}

	tokens, err := s.establishSession(ctx, user, orgID, p.DeviceName, p.UserAgent, p.IPAddress)
	if err != nil {
		return nil, err
	}
	s.audit.LogEvent(ctx, orgID, user.ID, auditdomain.ActionLoginSuccess, "session", "")
	return &LoginResult{Tokens: tokens}, nil
}

func (s *AuthService) recordLoginFailure(ctx context.Context, user *userdomain.User, orgID string, policy *policydomain.Policy, now time.Time) error {
	n, err := s.userRepo.IncrementFailedLogins(ctx, user.ID, now)
	if err != nil {
		return err
	}
	if policy.MaxFailedAttempts > 0 && n >= policy.MaxFailedAttempts {
		if err := s.userRepo.SetLocked(ctx, user.ID, now.Add(policy.LockoutDuration)); err != nil {
			return err
		}
		s.logger.WarnContext(ctx, "account locked after repeated login failures",
			slog.String("user_id", user.ID),
			slog.Int("failed_attempts", n))
		s.audit.LogEvent(ctx, orgID, user.ID, auditdomain.ActionLoginLocked, "session", "")
	} else {
		s.audit.LogEvent(ctx, orgID, user.ID, auditdomain.ActionLoginFailure, "session", "bad password")
	}
	return ErrInvalidCredentials
}

func (s *AuthService) beginMFALogin(ctx context.Context, user *userdomain.User, orgID string, enabled []*mfadomain.Settings, p LoginParams) (*LoginResult, error) {
	now := s.now()
	intent := &intentdomain.Intent{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		OrgID:      orgID,
		DeviceName: p.DeviceName,
		UserAgent:  p.UserAgent,
		IPAddress:  p.IPAddress,
		ExpiresAt:  now.Add(intentTTL),
		CreatedAt:  now,
	}
	if err := s.intentRepo.Create(ctx, intent); err != nil {
		return nil, err
	}

	defaultMethod := enabled[0].Method
	if defaultMethod.Challengeable() {
		if _, err := s.mfaEngine.Challenge(ctx, user.ID, defaultMethod); err != nil {
			var locked *mfa.LockedError
			if !errors.As(err, &locked) {
				return nil, err
			}
			// Locked default still lets the user pick a fallback method.
		} else {
			s.audit.LogEvent(ctx, orgID, user.ID, auditdomain.ActionMFAChallenge, "mfa", string(defaultMethod))
		}
	}
	offered, err := s.mfaEngine.OfferedMethods(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		MFARequired:    true,
		IntentID:       intent.ID,
		DefaultMethod:  defaultMethod,
		OfferedMethods: offered,
	}, nil
}

// RequestMFAChallenge delivers a code for a fallback method mid-login.
func (s *AuthService) RequestMFAChallenge(ctx context.Context, intentID string, method mfadomain.Method) (string, error) {
	intent, err := s.intentRepo.GetByID(ctx, intentID)
	if err != nil {
		return "", err
	}
	if intent == nil || intent.Expired(s.now()) {
		return "", ErrInvalidIntent
	}
	code, err := s.mfaEngine.Challenge(ctx, intent.UserID, method)
	if err != nil {
		return "", err
	}
	s.audit.LogEvent(ctx, intent.OrgID, intent.UserID, auditdomain.ActionMFAChallenge, "mfa", string(method))
	return code, nil
}

// MFAMethods returns the default and offered verification methods for a pending
// login intent, so a client can render a fallback-method picker.
func (s *AuthService) MFAMethods(ctx context.Context, intentID string) (mfadomain.Method, []mfadomain.Method, error) {
	intent, err := s.intentRepo.GetByID(ctx, intentID)
	if err != nil {
		return "", nil, err
	}
	if intent == nil || intent.Expired(s.now()) {
		return "", nil, ErrInvalidIntent
	}
	enabled, err := s.mfaEngine.EnabledMethods(ctx, intent.UserID)
	if err != nil {
		return "", nil, err
	}
	offered, err := s.mfaEngine.OfferedMethods(ctx, intent.UserID)
	if err != nil {
		return "", nil, err
	}
	var def mfadomain.Method
	for _, m := range enabled {
		if m.Default {
			def = m.Method
			break
		}
	}
	return def, offered, nil
}

// CompleteMFALogin verifies the second factor for a pending intent and issues
// tokens. The intent is consumed exactly once; a verified code cannot complete
// two logins.
func (s *AuthService) CompleteMFALogin(ctx context.Context, intentID string, method mfadomain.Method, code string) (*AuthResult, error) {
	intent, err := s.intentRepo.GetByID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if intent == nil || intent.Expired(s.now()) {
		return nil, ErrInvalidIntent
	}
	meta := mfa.AttemptMeta{IPAddress: intent.IPAddress, UserAgent: intent.UserAgent}
	if err := s.mfaEngine.Verify(ctx, intent.UserID, intent.OrgID, method, code, meta); err != nil {
		s.audit.LogEvent(ctx, intent.OrgID, intent.UserID, auditdomain.ActionMFAFailure, "mfa", string(method))
		return nil, err
	}
	consumed, err := s.intentRepo.Consume(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if consumed == nil {
		return nil, ErrInvalidIntent
	}
	user, err := s.userRepo.GetByID(ctx, intent.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active() {
		return nil, ErrInvalidCredentials
	}
	tokens, err := s.establishSession(ctx, user, intent.OrgID, intent.DeviceName, intent.UserAgent, intent.IPAddress)
	if err != nil {
		return nil, err
	}
	s.audit.LogEvent(ctx, intent.OrgID, intent.UserID, auditdomain.ActionMFAVerify, "mfa", string(method))
	s.audit.LogEvent(ctx, intent.OrgID, intent.UserID, auditdomain.ActionLoginSuccess, "session", "mfa")
	return tokens, nil
}

func (s *AuthService) establishSession(ctx context.Context, user *userdomain.User, orgID, deviceName, userAgent, ipAddress string) (*AuthResult, error) {
	now := s.now()
	sessionID := uuid.New().String()
	refreshToken, jti, _, err := s.tokens.IssueRefresh(sessionID, user.ID, orgID)
	if err != nil {
		return nil, err
	}
	accessToken, _, accessExp, err := s.tokens.IssueAccess(security.Identity{
		UserID:    user.ID,
		OrgID:     orgID,
		SessionID: sessionID,
		Name:      user.Name,
		Email:     user.Email,
	})
	if err != nil {
		return nil, err
	}
	sess := &sessiondomain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		OrgID:            orgID,
		DeviceName:       deviceName,
		UserAgent:        userAgent,
		IPAddress:        ipAddress,
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.sessionTTL),
		Active:           true,
		RefreshJti:       jti,
		RefreshTokenHash: security.HashRefreshToken(refreshToken),
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
		SessionID:    sessionID,
		UserID:       user.ID,
		OrgID:        orgID,
	}, nil
}

// Refresh validates the refresh token, rotates it, and returns new tokens.
// Presenting a stale jti is treated as token theft: every session of the user
// is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	sessionID, jti, userID, orgID, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if sess == nil || !sess.Active || sess.RevokedAt != nil || sess.Expired(now) {
		return nil, ErrInvalidRefreshToken
	}
	if sess.RefreshJti != jti {
		_ = s.sessionRepo.RevokeAllByUser(ctx, userID, now)
		s.audit.LogEvent(ctx, orgID, userID, auditdomain.ActionTokenReuse, "session", sessionID)
		s.logger.WarnContext(ctx, "refresh token reuse detected, all sessions revoked",
			slog.String("user_id", userID))
		return nil, ErrRefreshTokenReuse
	}
	if sess.RefreshTokenHash != "" && !security.RefreshTokenHashEqual(refreshToken, sess.RefreshTokenHash) {
		return nil, ErrInvalidRefreshToken
	}
	_ = s.sessionRepo.UpdateLastSeen(ctx, sessionID, now)
	newRefresh, newJti, _, err := s.tokens.IssueRefresh(sessionID, userID, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.UpdateRefreshToken(ctx, sessionID, newJti, security.HashRefreshToken(newRefresh)); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active() {
		return nil, ErrInvalidRefreshToken
	}
	accessToken, _, accessExp, err := s.tokens.IssueAccess(security.Identity{
		UserID:    userID,
		OrgID:     orgID,
		SessionID: sessionID,
		Name:      user.Name,
		Email:     user.Email,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    accessExp,
		SessionID:    sessionID,
		UserID:       userID,
		OrgID:        orgID,
	}, nil
}

// Logout revokes the session identified by the refresh token, or the session
// carried by the request context when no token is given. Unknown tokens are a
// no-op; logout never fails for the caller's benefit.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	now := s.now()
	if refreshToken != "" {
		sessionID, _, userID, orgID, err := s.tokens.ValidateRefresh(refreshToken)
		if err != nil {
			return nil
		}
		s.audit.LogEvent(ctx, orgID, userID, auditdomain.ActionLogout, "session", sessionID)
		return s.sessionRepo.Revoke(ctx, sessionID, now)
	}
	sessionID, ok := tenant.RequestSessionID(ctx)
	if !ok {
		return nil
	}
	s.audit.LogEvent(ctx, "", "", auditdomain.ActionLogout, "session", sessionID)
	return s.sessionRepo.Revoke(ctx, sessionID, now)
}

// ChangePassword verifies the current password and applies the org's policy to
// the replacement before storing its hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, orgID, current, replacement string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || !user.Active() {
		return ErrInvalidCredentials
	}
	ident, err := s.identityRepo.GetByUserAndProvider(ctx, userID, identitydomain.IdentityProviderLocal)
	if err != nil {
		return err
	}
	if !ident.HasPassword() {
		return ErrInvalidCredentials
	}
	if err := s.hasher.Compare(ident.PasswordHash, []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	policy, err := s.policies.Resolve(ctx, orgID)
	if err != nil {
		return err
	}
	verdict := passwordpolicy.Evaluate(replacement, policy, passwordpolicy.UserContext{
		Name:  user.Name,
		Email: user.Email,
	})
	if !verdict.OK() {
		return &PolicyViolationError{Verdict: verdict}
	}
	hashed, err := s.hasher.Hash([]byte(replacement))
	if err != nil {
		return err
	}
	return s.identityRepo.UpdatePasswordHash(ctx, ident.ID, hashed)
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}
