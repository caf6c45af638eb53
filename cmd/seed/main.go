// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"saas-control-plane/backend/internal/config"
	"saas-control-plane/backend/internal/db"
	identitydomain "saas-control-plane/backend/internal/identity/domain"
	identityrepo "saas-control-plane/backend/internal/identity/repository"
	membershipdomain "saas-control-plane/backend/internal/membership/domain"
	membershiprepo "saas-control-plane/backend/internal/membership/repository"
	orgdomain "saas-control-plane/backend/internal/organization/domain"
	orgrepo "saas-control-plane/backend/internal/organization/repository"
	policydomain "saas-control-plane/backend/internal/passwordpolicy/domain"
	policyrepo "saas-control-plane/backend/internal/passwordpolicy/repository"
	"saas-control-plane/backend/internal/security"
	userdomain "saas-control-plane/backend/internal/user/domain"
	userrepo "saas-control-plane/backend/internal/user/repository"
)

const (
	devOrgID     = "dev-org-001"
	devOrgName   = "Dev Org"
	devUserEmail = "dev@example.com"
	devUserName  = "Dev User"
	devPassword  = "Dev!Passw0rd#2024"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.Env == "production" {
		log.Fatal("seed: refusing to run with APP_ENV=production")
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(database)

	if existing, err := users.GetByEmail(ctx, devUserEmail); err != nil {
		log.Fatalf("checking dev user: %v", err)
	} else if existing != nil {
		log.Printf("seed: %s already exists, nothing to do", devUserEmail)
		os.Exit(0)
	}

	now := time.Now().UTC()

	orgs := orgrepo.NewPostgresRepository(database)
	if err := orgs.Create(ctx, &orgdomain.Org{
		ID:        devOrgID,
		Name:      devOrgName,
		Status:    orgdomain.OrgStatusActive,
		CreatedAt: now,
	}); err != nil {
		log.Fatalf("creating org: %v", err)
	}

	user := &userdomain.User{
		ID:        uuid.NewString(),
		Email:     devUserEmail,
		Name:      devUserName,
		Status:    userdomain.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("creating user: %v", err)
	}

	hash, err := security.NewHasher(cfg.BcryptCost).Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hashing password: %v", err)
	}
	if err := identityrepo.NewPostgresRepository(database).Create(ctx, &identitydomain.Identity{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Provider:     identitydomain.IdentityProviderLocal,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		log.Fatalf("creating identity: %v", err)
	}

	if err := membershiprepo.NewPostgresRepository(database).CreateMembership(ctx, &membershipdomain.Membership{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		OrgID:     devOrgID,
		Role:      membershipdomain.RoleOwner,
		CreatedAt: now,
	}); err != nil {
		log.Fatalf("creating membership: %v", err)
	}

	policy := policydomain.Default()
	policy.OrgID = devOrgID
	policy.CreatedAt = now
	policy.UpdatedAt = now
	if err := policyrepo.NewPostgresRepository(database).Upsert(ctx, policy); err != nil {
		log.Fatalf("creating password policy: %v", err)
	}

	log.Printf("seed: created %s / %s in org %s", devUserEmail, devPassword, devOrgID)
}
