package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finchlabs/finch/internal/domain/entity"
	"github.com/finchlabs/finch/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `
	u.id, u.email, u.username, u.password_hash, u.avatar_url, u.role_id,
	u.confirmed, u.last_seen, u.created_at, u.updated_at,
	r.id, r.name, r.is_default, r.permissions, r.created_at, r.updated_at`

const userFrom = `
	FROM users u
	JOIN roles r ON r.id = u.role_id`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{Role: &entity.Role{}}
	if err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.Password, &u.AvatarURL, &u.RoleID,
		&u.Confirmed, &u.LastSeen, &u.CreatedAt, &u.UpdatedAt,
		&u.Role.ID, &u.Role.Name, &u.Role.Default, &u.Role.Permissions,
		&u.Role.CreatedAt, &u.Role.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Create inserts the user row and the reflexive self-follow edge in one
// transaction: an account never exists without its self edge.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO users (id, email, username, password_hash, avatar_url, role_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING confirmed, last_seen, created_at, updated_at
		`, u.ID, u.Email, u.Username, u.Password, u.AvatarURL, u.RoleID)
		if err := row.Scan(&u.Confirmed, &u.LastSeen, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO follows (follower_id, followed_id)
			VALUES ($1, $1)
			ON CONFLICT (follower_id, followed_id) DO NOTHING
		`, u.ID)
		return err
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT`+userColumns+userFrom+` WHERE u.id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT`+userColumns+userFrom+` WHERE u.email = $1`, email))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT`+userColumns+userFrom+` WHERE u.username = $1`, username))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, username = $2, password_hash = $3, avatar_url = $4,
		    role_id = $5, updated_at = $6
		WHERE id = $7
	`, u.Email, u.Username, u.Password, u.AvatarURL, u.RoleID, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetConfirmed(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET confirmed = TRUE, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastSeen(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_seen = now() WHERE id = $1`, id)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
