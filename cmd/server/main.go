package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	auditlog "saas-control-plane/backend/internal/audit"
	auditrepo "saas-control-plane/backend/internal/audit/repository"
	"saas-control-plane/backend/internal/config"
	"saas-control-plane/backend/internal/db"
	"saas-control-plane/backend/internal/httpx"
	identityrepo "saas-control-plane/backend/internal/identity/repository"
	identityservice "saas-control-plane/backend/internal/identity/service"
	intentrepo "saas-control-plane/backend/internal/loginintent/repository"
	membershiprepo "saas-control-plane/backend/internal/membership/repository"
	"saas-control-plane/backend/internal/metrics"
	"saas-control-plane/backend/internal/mfa"
	"saas-control-plane/backend/internal/mfa/codestore"
	"saas-control-plane/backend/internal/mfa/notify"
	mfarepo "saas-control-plane/backend/internal/mfa/repository"
	orgrepo "saas-control-plane/backend/internal/organization/repository"
	"saas-control-plane/backend/internal/passwordpolicy"
	policyrepo "saas-control-plane/backend/internal/passwordpolicy/repository"
	"saas-control-plane/backend/internal/security"
	sessionrepo "saas-control-plane/backend/internal/session/repository"
	"saas-control-plane/backend/internal/telemetry/otel"
	"saas-control-plane/backend/internal/tenant"
	userrepo "saas-control-plane/backend/internal/user/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "scp-server", cfg.Env != "production")
	if err != nil {
		logger.Error("telemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	pipeline, err := metrics.NewPipeline(providers.MeterProvider.Meter("scp-server"))
	if err != nil {
		logger.Error("metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		logger.Error("jwt private key", slog.String("error", err.Error()))
		os.Exit(1)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		logger.Error("jwt public key", slog.String("error", err.Error()))
		os.Exit(1)
	}
	tokens := security.NewTokenProvider(privateKey, publicKey,
		cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL())

	var codes codestore.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer client.Close()
		codes = codestore.NewRedisStore(client)
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory code store")
		codes = codestore.NewMemoryStore(nil)
	}

	var sender notify.Sender
	if cfg.SMSLocalAPIKey != "" {
		sender = notify.NewSMSLocalSender(cfg.SMSLocalAPIKey, cfg.SMSLocalBaseURL)
	} else {
		sender = &notify.LogSender{Logger: logger}
	}

	policies := passwordpolicy.NewResolver(policyrepo.NewPostgresRepository(database))
	sessions := sessionrepo.NewPostgresRepository(database)
	orgs := orgrepo.NewPostgresRepository(database)

	engine := mfa.NewEngine(mfa.EngineParams{
		Settings:           mfarepo.NewPostgresSettingsRepository(database),
		Backup:             mfarepo.NewPostgresBackupCodeRepository(database),
		Attempts:           mfarepo.NewPostgresAttemptRepository(database),
		Codes:              codes,
		Sender:             sender,
		Policies:           policies,
		Issuer:             cfg.JWTIssuer,
		ReturnCodeToClient: cfg.OTPReturnToClient,
		Logger:             logger,
	})

	audit := auditlog.NewLogger(auditrepo.NewPostgresRepository(database), tenant.ClientIP, logger)

	auth := identityservice.NewAuthService(identityservice.AuthServiceParams{
		UserRepo:       userrepo.NewPostgresRepository(database),
		IdentityRepo:   identityrepo.NewPostgresRepository(database),
		SessionRepo:    sessions,
		MembershipRepo: membershiprepo.NewPostgresRepository(database),
		OrgRepo:        orgs,
		IntentRepo:     intentrepo.NewPostgresRepository(database),
		MFAEngine:      engine,
		Policies:       policies,
		Audit:          audit,
		Hasher:         security.NewHasher(cfg.BcryptCost),
		Tokens:         tokens,
		SessionTTL:     cfg.SessionLifetime(),
		Logger:         logger,
	})

	handler := httpx.NewRouter(httpx.RouterParams{
		Auth:   httpx.NewAuthHandler(auth, sessions, pipeline),
		Tokens: tokens,
		Validator: httpx.SessionValidatorParams{
			Sessions: sessions,
			Orgs:     orgs,
			Pipeline: pipeline,
			Logger:   logger,
		},
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.String("error", err.Error()))
	}
	logger.Info("http server stopped")
}
