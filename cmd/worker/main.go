// Worker runs the retention sweeps: expired login intents, deactivated sessions
// past the retention window, and aged MFA-attempt and audit rows. Sweeps run
// per organization under a background tenant context so audit fallbacks resolve.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditrepo "saas-control-plane/backend/internal/audit/repository"
	"saas-control-plane/backend/internal/config"
	"saas-control-plane/backend/internal/db"
	intentrepo "saas-control-plane/backend/internal/loginintent/repository"
	mfarepo "saas-control-plane/backend/internal/mfa/repository"
	orgrepo "saas-control-plane/backend/internal/organization/repository"
	sessionrepo "saas-control-plane/backend/internal/session/repository"
	"saas-control-plane/backend/internal/tenant"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orgs := orgrepo.NewPostgresRepository(database)
	sessions := sessionrepo.NewPostgresRepository(database)
	attempts := mfarepo.NewPostgresAttemptRepository(database)
	audits := auditrepo.NewPostgresRepository(database)
	intents := intentrepo.NewPostgresRepository(database)

	interval := cfg.WorkerSweepInterval()
	logger.Info("retention worker started", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep := func() {
		now := time.Now().UTC()

		if n, err := intents.DeleteExpired(ctx, now); err != nil {
			logger.Error("sweeping login intents", slog.String("error", err.Error()))
		} else if n > 0 {
			logger.Info("swept login intents", slog.Int64("deleted", n))
		}

		ids, err := orgs.ListActiveIDs(ctx)
		if err != nil {
			logger.Error("listing organizations", slog.String("error", err.Error()))
			return
		}
		for _, orgID := range ids {
			orgCtx := tenant.WithBackgroundContext(ctx, orgID, "", "")

			if n, err := sessions.DeleteInactiveBefore(orgCtx, orgID, now.Add(-cfg.SessionRetentionPeriod())); err != nil {
				logger.Error("sweeping sessions", slog.String("org_id", orgID), slog.String("error", err.Error()))
			} else if n > 0 {
				logger.Info("swept sessions", slog.String("org_id", orgID), slog.Int64("deleted", n))
			}

			cutoff := now.Add(-cfg.AttemptRetentionPeriod())
			if n, err := attempts.DeleteBefore(orgCtx, orgID, cutoff); err != nil {
				logger.Error("sweeping mfa attempts", slog.String("org_id", orgID), slog.String("error", err.Error()))
			} else if n > 0 {
				logger.Info("swept mfa attempts", slog.String("org_id", orgID), slog.Int64("deleted", n))
			}

			if n, err := audits.DeleteBefore(orgCtx, orgID, cutoff); err != nil {
				logger.Error("sweeping audit logs", slog.String("org_id", orgID), slog.String("error", err.Error()))
			} else if n > 0 {
				logger.Info("swept audit logs", slog.String("org_id", orgID), slog.Int64("deleted", n))
			}
		}
	}

	sweep()
	for {
		select {
		case <-ctx.Done():
			logger.Info("retention worker stopped")
			return
		case <-ticker.C:
			sweep()
		}
	}
}
