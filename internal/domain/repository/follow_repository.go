package repository

import (
	"context"

	"github.com/finchlabs/finch/internal/domain/entity"
)

// FollowRepository persists directed follow edges. Edge creation relies on
// the store's composite primary key: concurrent duplicate inserts resolve to
// exactly one edge and are reported as success, not error.
type FollowRepository interface {
	// Create inserts the edge if absent. Inserting an existing edge is a no-op.
	Create(ctx context.Context, followerID, followedID string) error
	// Delete removes the edge if present. Deleting an absent edge is a no-op.
	Delete(ctx context.Context, followerID, followedID string) error
	Exists(ctx context.Context, followerID, followedID string) (bool, error)
	// CountFollowers and CountFollowing return raw edge counts including the
	// self edge; callers subtract it for user-facing numbers.
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	// ListFollowers and ListFollowing page through edges ordered by edge
	// creation time descending, tie-broken by the opposite endpoint's id so
	// pagination stays deterministic when timestamps collide.
	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]entity.Follow, error)
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]entity.Follow, error)
}
