package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finchlabs/finch/internal/domain/entity"
	"github.com/finchlabs/finch/internal/domain/repository"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

// SeedDefaults reconciles the role table against the fixed capability lists.
// Each role is upserted by name with its mask rebuilt from scratch, so a
// re-run (or a concurrent run at startup) converges on the same rows instead
// of duplicating or accumulating stale bits.
func (r *RoleRepository) SeedDefaults(ctx context.Context, table map[string][]entity.Permission, defaultName string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for name, perms := range table {
			mask := entity.ResetPermissions()
			for _, p := range perms {
				mask = entity.AddPermission(mask, p)
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO roles (id, name, is_default, permissions)
				VALUES (gen_random_uuid(), $1, $2, $3)
				ON CONFLICT (name) DO UPDATE
				SET is_default = EXCLUDED.is_default,
				    permissions = EXCLUDED.permissions,
				    updated_at = now()
			`, name, name == defaultName, mask)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return scanRole(r.pool.QueryRow(ctx, `
		SELECT id, name, is_default, permissions, created_at, updated_at
		FROM roles WHERE name = $1
	`, name))
}

// DefaultRole returns the unique default role. Zero or multiple defaults
// violate the seeding invariant and surface as ErrDefaultRole.
func (r *RoleRepository) DefaultRole(ctx context.Context) (*entity.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, is_default, permissions, created_at, updated_at
		FROM roles WHERE is_default
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defaults []*entity.Role
	for rows.Next() {
		role := &entity.Role{}
		if err := rows.Scan(&role.ID, &role.Name, &role.Default, &role.Permissions, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		defaults = append(defaults, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(defaults) != 1 {
		return nil, repository.ErrDefaultRole
	}
	return defaults[0], nil
}

func scanRole(row pgx.Row) (*entity.Role, error) {
	role := &entity.Role{}
	if err := row.Scan(&role.ID, &role.Name, &role.Default, &role.Permissions, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return role, nil
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
