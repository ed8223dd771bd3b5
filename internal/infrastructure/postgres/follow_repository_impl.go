package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finchlabs/finch/internal/domain/entity"
	"github.com/finchlabs/finch/internal/domain/repository"
)

type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

// Create inserts the edge. The composite primary key makes duplicate inserts
// (including concurrent races for the same pair) collapse into one edge; ON
// CONFLICT DO NOTHING turns the loser's constraint violation into success.
func (r *FollowRepository) Create(ctx context.Context, followerID, followedID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO follows (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`, followerID, followedID)
	return err
}

// Delete removes the edge. Deleting an absent edge affects zero rows and is
// not an error.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followedID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2
	`, followerID, followedID)
	return err
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2
		)
	`, followerID, followedID).Scan(&exists)
	return exists, err
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM follows WHERE followed_id = $1
	`, userID).Scan(&n)
	return n, err
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM follows WHERE follower_id = $1
	`, userID).Scan(&n)
	return n, err
}

// ListFollowers pages through edges pointing at the user. The synthetic self
// edge is filtered out so listings match the user-facing counts. The id
// tie-break keeps the order deterministic when edges share a timestamp.
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]entity.Follow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT follower_id, followed_id, created_at
		FROM follows
		WHERE followed_id = $1 AND follower_id <> followed_id
		ORDER BY created_at DESC, follower_id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFollows(rows)
}

func (r *FollowRepository) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]entity.Follow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT follower_id, followed_id, created_at
		FROM follows
		WHERE follower_id = $1 AND follower_id <> followed_id
		ORDER BY created_at DESC, followed_id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFollows(rows)
}

func scanFollows(rows pgx.Rows) ([]entity.Follow, error) {
	var edges []entity.Follow
	for rows.Next() {
		var f entity.Follow
		if err := rows.Scan(&f.FollowerID, &f.FollowedID, &f.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return edges, nil
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
