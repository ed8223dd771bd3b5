package repository

import (
	"context"

	"github.com/finchlabs/finch/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Reads return the user with their role preloaded.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	SetConfirmed(ctx context.Context, id string) error
	TouchLastSeen(ctx context.Context, id string) error
}

// RoleRepository manages the role table and its seeding invariant.
type RoleRepository interface {
	// SeedDefaults reconciles the fixed name->capabilities table against the
	// roles table: find-or-create by name, rebuild the mask, recompute the
	// default flag. Safe to re-run and safe under concurrent invocation.
	SeedDefaults(ctx context.Context, table map[string][]entity.Permission, defaultName string) error
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	// DefaultRole returns the unique role with the default flag set, or
	// an error when zero or more than one exists.
	DefaultRole(ctx context.Context) (*entity.Role, error)
}
