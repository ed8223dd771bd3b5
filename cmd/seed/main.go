package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/finchlabs/finch/config"
	"github.com/finchlabs/finch/internal/domain/entity"
	pginfra "github.com/finchlabs/finch/internal/infrastructure/postgres"
	"github.com/finchlabs/finch/pkg/helpers"
)

// Seeds the role table and, when ADMIN_EMAIL is set, bootstraps the
// administrator account. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	roles := pginfra.NewRoleRepository(pool)
	if err := roles.SeedDefaults(ctx, entity.DefaultRoleTable(), entity.RoleNameUser); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	fmt.Println("roles seeded")

	if cfg.AdminEmail == "" {
		return
	}

	users := pginfra.NewUserRepository(pool)
	email := entity.NormalizeEmail(cfg.AdminEmail)
	if existing, err := users.GetByEmail(ctx, email); err == nil && existing != nil {
		fmt.Printf("admin already exists: id=%s email=%s\n", existing.ID, existing.Email)
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD required to bootstrap the admin account")
	}
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	adminRole, err := roles.GetByName(ctx, entity.RoleNameAdministrator)
	if err != nil {
		log.Fatalf("administrator role missing: %v", err)
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &entity.User{
		ID:       uuid.NewString(),
		Email:    email,
		Username: username,
		Password: hash,
		RoleID:   adminRole.ID,
		Role:     adminRole,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if err := users.SetConfirmed(ctx, admin.ID); err != nil {
		log.Fatalf("failed to confirm admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s username=%s\n", admin.ID, admin.Email, admin.Username)
}
