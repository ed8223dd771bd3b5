package repository

import (
	"context"

	"github.com/finchlabs/finch/internal/domain/entity"
)

// PostRepository persists posts and serves the feed queries.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Update(ctx context.Context, p *entity.Post) error
	// ListAll returns a page of all posts ordered by creation time descending
	// plus the total row count for page metadata.
	ListAll(ctx context.Context, limit, offset int) ([]entity.Post, int64, error)
	// ListFollowed returns a page of posts whose author is followed by
	// viewerID (including the viewer via the self edge). Implementations must
	// resolve this as a single join against the follows table, never as a
	// fan-out of one query per followed author.
	ListFollowed(ctx context.Context, viewerID string, limit, offset int) ([]entity.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]entity.Post, int64, error)
}

// CommentRepository persists post comments.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	// SetDisabled flips the moderation flag. Setting the current value again
	// is a no-op at the store level.
	SetDisabled(ctx context.Context, id string, disabled bool) error
	ListByPost(ctx context.Context, postID string, includeDisabled bool, limit, offset int) ([]entity.Comment, int64, error)
}
