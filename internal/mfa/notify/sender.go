// Package notify delivers MFA challenge codes out of band.
package notify

import (
	"context"
	"log/slog"
)

// Sender delivers a one-time code to the target address (a phone number for
// sms, an email address for email). Implementations must not log the code.
type Sender interface {
	Send(ctx context.Context, method, target, code string) error
}

// LogSender is a development Sender that logs delivery without the code.
type LogSender struct {
	Logger *slog.Logger
}

// Send logs the delivery target and method only.
func (s *LogSender) Send(ctx context.Context, method, target, code string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "mfa code delivery (dev mode, code withheld)",
		slog.String("method", method),
		slog.String("target", mask(target)))
	return nil
}

// mask hides all but the last 3 characters of the target.
func mask(target string) string {
	if len(target) <= 3 {
		return "***"
	}
	return "***" + target[len(target)-3:]
}
