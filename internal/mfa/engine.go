// Package mfa implements multi-factor verification: TOTP, delivered one-time
// codes over sms/email, and single-use backup codes, with per-method failure
// lockout driven by the org's resolved security policy.
package mfa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"saas-control-plane/backend/internal/mfa/codestore"
	"saas-control-plane/backend/internal/mfa/domain"
	"saas-control-plane/backend/internal/mfa/notify"
	"saas-control-plane/backend/internal/mfa/repository"
	"saas-control-plane/backend/internal/passwordpolicy"
)

// ErrInvalidCode is the single error surfaced for every verification failure:
// wrong code, expired challenge, consumed backup code, or an unenrolled method.
// Callers must not be able to distinguish these cases.
var ErrInvalidCode = errors.New("mfa: invalid code")

// ErrMethodNotChallengeable is returned by Challenge for methods that never
// require code delivery (totp, backup_code).
var ErrMethodNotChallengeable = errors.New("mfa: method does not support challenges")

// ErrMethodNotEnrolled is returned by Challenge and SetDefault when the user
// has not enabled the requested method. Verify deliberately does not use it;
// there an unenrolled method reads as ErrInvalidCode.
var ErrMethodNotEnrolled = errors.New("mfa: method not enrolled")

// LockedError is returned while a method is locked out. Remaining is the time
// until the lockout expires.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("mfa: method locked, retry in %s", e.Remaining.Round(time.Second))
}

// AttemptMeta carries request metadata recorded on the attempt audit row.
type AttemptMeta struct {
	IPAddress string
	UserAgent string
}

// Engine is the MFA verification engine. Lockout threshold and duration come
// from the org's resolved policy; each method keeps its own failure counter.
type Engine struct {
	settings repository.SettingsRepository
	backup   repository.BackupCodeRepository
	attempts repository.AttemptRepository
	codes    codestore.Store
	sender   notify.Sender
	policies *passwordpolicy.Resolver

	issuer             string
	challengeTTL       time.Duration
	returnCodeToClient bool
	logger             *slog.Logger
	now                func() time.Time
}

// EngineParams configures a new Engine.
type EngineParams struct {
	Settings repository.SettingsRepository
	Backup   repository.BackupCodeRepository
	Attempts repository.AttemptRepository
	Codes    codestore.Store
	Sender   notify.Sender
	Policies *passwordpolicy.Resolver

	// Issuer labels TOTP provisioning URLs in authenticator apps.
	Issuer string
	// ChallengeTTL bounds how long a delivered code stays valid. Defaults to 5m.
	ChallengeTTL time.Duration
	// ReturnCodeToClient makes Challenge return the plaintext code. Dev only;
	// config.Load rejects it in production.
	ReturnCodeToClient bool
	Logger             *slog.Logger
}

// NewEngine returns an Engine over the given collaborators.
func NewEngine(p EngineParams) *Engine {
	if p.ChallengeTTL <= 0 {
		p.ChallengeTTL = 5 * time.Minute
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return &Engine{
		settings:           p.Settings,
		backup:             p.Backup,
		attempts:           p.Attempts,
		codes:              p.Codes,
		sender:             p.Sender,
		policies:           p.Policies,
		issuer:             p.Issuer,
		challengeTTL:       p.ChallengeTTL,
		returnCodeToClient: p.ReturnCodeToClient,
		logger:             p.Logger,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// EnrollTOTP provisions a TOTP secret for the user and returns the base32
// secret and the otpauth:// URL to show once.
func (e *Engine) EnrollTOTP(ctx context.Context, userID, orgID, accountName string) (secret, url string, err error) {
	secret, url, err = GenerateTOTPSecret(e.issuer, accountName)
	if err != nil {
		return "", "", err
	}
	now := e.now()
	s := &domain.Settings{
		UserID:    userID,
		OrgID:     orgID,
		Method:    domain.MethodTOTP,
		Enabled:   true,
		Secret:    secret,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.settings.Upsert(ctx, s); err != nil {
		return "", "", err
	}
	return secret, url, nil
}

// EnrollSMS enables sms verification against the given phone number.
func (e *Engine) EnrollSMS(ctx context.Context, userID, orgID, phone string) error {
	return e.enrollDelivery(ctx, userID, orgID, domain.MethodSMS, phone)
}

// EnrollEmail enables email verification against the given address.
func (e *Engine) EnrollEmail(ctx context.Context, userID, orgID, email string) error {
	return e.enrollDelivery(ctx, userID, orgID, domain.MethodEmail, email)
}

func (e *Engine) enrollDelivery(ctx context.Context, userID, orgID string, method domain.Method, target string) error {
	if target == "" {
		return fmt.Errorf("mfa: %s enrollment requires a delivery target", method)
	}
	now := e.now()
	s := &domain.Settings{
		UserID:    userID,
		OrgID:     orgID,
		Method:    method,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch method {
	case domain.MethodSMS:
		s.Phone = target
	case domain.MethodEmail:
		s.Email = target
	}
	return e.settings.Upsert(ctx, s)
}

// RegenerateBackupCodes replaces the user's backup code set and returns the
// plaintext codes. This is the only time the codes exist unhashed; previous
// codes stop working immediately.
func (e *Engine) RegenerateBackupCodes(ctx context.Context, userID, orgID string) ([]string, error) {
	now := e.now()
	plain, rows, err := GenerateBackupCodes(userID, now)
	if err != nil {
		return nil, err
	}
	if err := e.backup.Replace(ctx, userID, rows); err != nil {
		return nil, err
	}
	s := &domain.Settings{
		UserID:    userID,
		OrgID:     orgID,
		Method:    domain.MethodBackupCode,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.settings.Upsert(ctx, s); err != nil {
		return nil, err
	}
	return plain, nil
}

// SetDefault marks method as the user's default second factor. At most one
// method is default at a time.
func (e *Engine) SetDefault(ctx context.Context, userID string, method domain.Method) error {
	s, err := e.settings.GetByUserAndMethod(ctx, userID, method)
	if err != nil {
		return err
	}
	if s == nil || !s.Enabled {
		return fmt.Errorf("%w: %s", ErrMethodNotEnrolled, method)
	}
	if err := e.settings.ClearDefault(ctx, userID); err != nil {
		return err
	}
	s.Default = true
	s.UpdatedAt = e.now()
	return e.settings.Upsert(ctx, s)
}

// Challenge generates and delivers a one-time code for a challengeable method
// (sms, email). The returned string is empty unless dev code return is on.
func (e *Engine) Challenge(ctx context.Context, userID string, method domain.Method) (string, error) {
	if !method.Challengeable() {
		return "", ErrMethodNotChallengeable
	}
	s, err := e.settings.GetByUserAndMethod(ctx, userID, method)
	if err != nil {
		return "", err
	}
	if s == nil || !s.Enabled {
		return "", fmt.Errorf("%w: %s", ErrMethodNotEnrolled, method)
	}
	now := e.now()
	if s.Locked(now) {
		return "", &LockedError{Remaining: s.LockedUntil.Sub(now)}
	}
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	expiresAt := now.Add(e.challengeTTL)
	if err := e.codes.Put(ctx, userID, string(method), HashOTP(code), expiresAt); err != nil {
		return "", err
	}
	if err := e.sender.Send(ctx, string(method), s.Target(), code); err != nil {
		return "", fmt.Errorf("mfa: delivering code: %w", err)
	}
	e.logger.InfoContext(ctx, "mfa challenge issued",
		slog.String("user_id", userID),
		slog.String("method", string(method)))
	if e.returnCodeToClient {
		return code, nil
	}
	return "", nil
}

// Verify checks the supplied code for the user's method. Every call records an
// attempt row. While the method is locked it returns LockedError without
// touching the counter; any other failure returns ErrInvalidCode and bumps the
// counter, locking the method once the policy threshold is crossed. Success
// resets the counter.
func (e *Engine) Verify(ctx context.Context, userID, orgID string, method domain.Method, code string, meta AttemptMeta) error {
	now := e.now()
	if !method.Valid() {
		e.recordAttempt(ctx, userID, orgID, method, code, false, domain.FailureNotEnrolled, meta, now)
		return ErrInvalidCode
	}
	s, err := e.settings.GetByUserAndMethod(ctx, userID, method)
	if err != nil {
		return err
	}
	if s == nil || !s.Enabled {
		e.recordAttempt(ctx, userID, orgID, method, code, false, domain.FailureNotEnrolled, meta, now)
		return ErrInvalidCode
	}
	if s.Locked(now) {
		e.recordAttempt(ctx, userID, orgID, method, code, false, domain.FailureLocked, meta, now)
		return &LockedError{Remaining: s.LockedUntil.Sub(now)}
	}
	// An expired lockout window forgives past failures.
	if s.LockedUntil != nil && s.FailedAttempts > 0 {
		if err := e.settings.ResetFailedAttempts(ctx, userID, method, now); err != nil {
			return err
		}
	}

	matched, reason, err := e.check(ctx, userID, method, s, code, now)
	if err != nil {
		return err
	}
	if !matched {
		return e.fail(ctx, userID, orgID, method, code, reason, meta, now)
	}

	if err := e.settings.ResetFailedAttempts(ctx, userID, method, now); err != nil {
		return err
	}
	if err := e.settings.SetLastUsed(ctx, userID, method, now); err != nil {
		return err
	}
	e.recordAttempt(ctx, userID, orgID, method, code, true, domain.FailureNone, meta, now)
	return nil
}

// check evaluates the code against the method without mutating counters.
func (e *Engine) check(ctx context.Context, userID string, method domain.Method, s *domain.Settings, code string, now time.Time) (matched bool, reason string, err error) {
	switch method {
	case domain.MethodTOTP:
		if ValidateTOTP(code, s.Secret, now) {
			return true, domain.FailureNone, nil
		}
		return false, domain.FailureCodeMismatch, nil

	case domain.MethodSMS, domain.MethodEmail:
		hash, ok, err := e.codes.Get(ctx, userID, string(method))
		if err != nil {
			return false, "", err
		}
		if !ok {
			return false, domain.FailureCodeExpired, nil
		}
		if !OTPEqual(code, hash) {
			return false, domain.FailureCodeMismatch, nil
		}
		// Delete so the code cannot verify twice.
		if err := e.codes.Delete(ctx, userID, string(method)); err != nil {
			return false, "", err
		}
		return true, domain.FailureNone, nil

	case domain.MethodBackupCode:
		return e.checkBackupCode(ctx, userID, code, now)
	}
	return false, domain.FailureNotEnrolled, nil
}

func (e *Engine) checkBackupCode(ctx context.Context, userID, code string, now time.Time) (bool, string, error) {
	normalized := normalizeBackupCode(code)
	unused, err := e.backup.ListUnused(ctx, userID)
	if err != nil {
		return false, "", err
	}
	for _, c := range unused {
		if !OTPEqual(normalized, c.CodeHash) {
			continue
		}
		consumed, err := e.backup.Consume(ctx, c.ID, now)
		if err != nil {
			return false, "", err
		}
		if !consumed {
			// Lost the race to a concurrent verify of the same code.
			return false, domain.FailureCodeConsumed, nil
		}
		return true, domain.FailureNone, nil
	}
	return false, domain.FailureCodeMismatch, nil
}

// fail bumps the failure counter, locks the method at the policy threshold and
// returns the generic verification error.
func (e *Engine) fail(ctx context.Context, userID, orgID string, method domain.Method, code, reason string, meta AttemptMeta, now time.Time) error {
	policy, err := e.policies.Resolve(ctx, orgID)
	if err != nil {
		return err
	}
	n, err := e.settings.IncrementFailedAttempts(ctx, userID, method, now)
	if err != nil {
		return err
	}
	if policy.MaxFailedAttempts > 0 && n >= policy.MaxFailedAttempts {
		until := now.Add(policy.LockoutDuration)
		if err := e.settings.SetLocked(ctx, userID, method, until); err != nil {
			return err
		}
		e.logger.WarnContext(ctx, "mfa method locked",
			slog.String("user_id", userID),
			slog.String("method", string(method)),
			slog.Int("failed_attempts", n))
	}
	e.recordAttempt(ctx, userID, orgID, method, code, false, reason, meta, now)
	return ErrInvalidCode
}

// OfferedMethods lists the fallback methods a user may switch to mid-login:
// delivered codes first, backup codes always last. TOTP is the primary factor
// and is never offered as a fallback.
func (e *Engine) OfferedMethods(ctx context.Context, userID string) ([]domain.Method, error) {
	enabled, err := e.settings.ListEnabledByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []domain.Method
	hasBackup := false
	for _, s := range enabled {
		switch s.Method {
		case domain.MethodSMS, domain.MethodEmail:
			out = append(out, s.Method)
		case domain.MethodBackupCode:
			hasBackup = true
		}
	}
	if hasBackup {
		out = append(out, domain.MethodBackupCode)
	}
	return out, nil
}

// EnabledMethods lists every enabled method for the user, defaults first.
func (e *Engine) EnabledMethods(ctx context.Context, userID string) ([]*domain.Settings, error) {
	enabled, err := e.settings.ListEnabledByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, s := range enabled {
		if s.Default && i > 0 {
			enabled[0], enabled[i] = enabled[i], enabled[0]
			break
		}
	}
	return enabled, nil
}

// Attempts returns the user's recent verification attempts, newest first.
func (e *Engine) Attempts(ctx context.Context, userID string, limit, offset int32) ([]*domain.Attempt, error) {
	return e.attempts.ListByUser(ctx, userID, limit, offset)
}

// recordAttempt appends the audit row. Audit failures never block verification.
func (e *Engine) recordAttempt(ctx context.Context, userID, orgID string, method domain.Method, code string, success bool, reason string, meta AttemptMeta, now time.Time) {
	a := &domain.Attempt{
		ID:            uuid.NewString(),
		UserID:        userID,
		OrgID:         orgID,
		Method:        method,
		CodeHash:      HashOTP(code),
		Success:       success,
		FailureReason: reason,
		IPAddress:     meta.IPAddress,
		UserAgent:     meta.UserAgent,
		CreatedAt:     now,
	}
	if err := e.attempts.Create(ctx, a); err != nil {
		e.logger.ErrorContext(ctx, "recording mfa attempt", slog.String("error", err.Error()))
	}
}
