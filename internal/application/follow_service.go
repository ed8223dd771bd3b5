package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/finchlabs/finch/internal/domain/entity"
	repo "github.com/finchlabs/finch/internal/domain/repository"
	"github.com/finchlabs/finch/pkg/helpers"
)

// FollowService operates on the follow graph. Duplicate follows and absent
// unfollows are absorbed silently; only a missing target or a self-unfollow
// is an error.
type FollowService struct {
	Follows repo.FollowRepository
	Users   repo.UserRepository
	Redis   *redis.Client
	Logger  *logrus.Logger

	DefaultPageSize int
	MaxPageSize     int
}

func NewFollowService(follows repo.FollowRepository, users repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, defaultPageSize, maxPageSize int) *FollowService {
	return &FollowService{
		Follows:         follows,
		Users:           users,
		Redis:           rdb,
		Logger:          logger,
		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,
	}
}

const followerCountTTL = 5 * time.Minute

// Follow creates the edge follower -> followed. The target must exist; an
// existing edge makes the call a no-op, including when a concurrent request
// wins the insert race.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID string) error {
	target, err := s.Users.GetByID(ctx, followedID)
	if err != nil || target == nil {
		return ErrNotFound
	}
	if err := s.Follows.Create(ctx, followerID, followedID); err != nil {
		return err
	}
	s.invalidateCount(ctx, followedID)
	return nil
}

// Unfollow removes the edge if present. Removing the self edge is refused:
// the personalized feed depends on it, and dropping it would silently hide
// the user's own posts.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return ErrInvalidOperation
	}
	if err := s.Follows.Delete(ctx, followerID, followedID); err != nil {
		return err
	}
	s.invalidateCount(ctx, followedID)
	return nil
}

// IsFollowing reports whether a follows b. Unknown ids are false, not errors.
func (s *FollowService) IsFollowing(ctx context.Context, a, b string) (bool, error) {
	return s.Follows.Exists(ctx, a, b)
}

// IsFollowedBy reports whether b follows a.
func (s *FollowService) IsFollowedBy(ctx context.Context, a, b string) (bool, error) {
	return s.Follows.Exists(ctx, b, a)
}

// FollowerCount returns the user-facing follower count: raw edges minus the
// synthetic self edge. Cached briefly in Redis since profile pages hammer it.
func (s *FollowService) FollowerCount(ctx context.Context, userID string) (int64, error) {
	if s.Redis != nil {
		var cached int64
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, helpers.KeyFollowerCount(userID), &cached); err == nil && ok {
			return cached, nil
		}
	}
	raw, err := s.Follows.CountFollowers(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := excludeSelf(raw)
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, helpers.KeyFollowerCount(userID), n, followerCountTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("follower count cache write failed")
		}
	}
	return n, nil
}

// FollowingCount returns how many users this user follows, excluding self.
func (s *FollowService) FollowingCount(ctx context.Context, userID string) (int64, error) {
	raw, err := s.Follows.CountFollowing(ctx, userID)
	if err != nil {
		return 0, err
	}
	return excludeSelf(raw), nil
}

// ListFollowers pages through the user's followers, newest edge first. The
// self edge is hidden from both the rows and the total, matching the counts.
func (s *FollowService) ListFollowers(ctx context.Context, userID string, q PageQuery) (Page[entity.Follow], error) {
	q = q.normalize(s.DefaultPageSize, s.MaxPageSize)
	raw, err := s.Follows.CountFollowers(ctx, userID)
	if err != nil {
		return Page[entity.Follow]{}, err
	}
	edges, err := s.Follows.ListFollowers(ctx, userID, q.PerPage, q.offset())
	if err != nil {
		return Page[entity.Follow]{}, err
	}
	return buildPage(edges, q, excludeSelf(raw))
}

// ListFollowing pages through who the user follows, newest edge first. The
// self edge is hidden from both the rows and the total.
func (s *FollowService) ListFollowing(ctx context.Context, userID string, q PageQuery) (Page[entity.Follow], error) {
	q = q.normalize(s.DefaultPageSize, s.MaxPageSize)
	raw, err := s.Follows.CountFollowing(ctx, userID)
	if err != nil {
		return Page[entity.Follow]{}, err
	}
	edges, err := s.Follows.ListFollowing(ctx, userID, q.PerPage, q.offset())
	if err != nil {
		return Page[entity.Follow]{}, err
	}
	return buildPage(edges, q, excludeSelf(raw))
}

func (s *FollowService) invalidateCount(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, helpers.KeyFollowerCount(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("follower count cache invalidation failed")
	}
}

// The raw count includes the mandatory self edge; hide it. A count of zero
// only happens for ids with no rows at all (unknown users).
func excludeSelf(raw int64) int64 {
	if raw <= 0 {
		return 0
	}
	return raw - 1
}
