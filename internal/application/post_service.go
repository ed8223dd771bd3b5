package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/finchlabs/finch/internal/domain/entity"
	repo "github.com/finchlabs/finch/internal/domain/repository"
	"github.com/finchlabs/finch/pkg/markdown"
)

// PostService owns posts and their comments, including moderation.
// Capability checks live here, not in handlers, so every transport goes
// through the same gate.
type PostService struct {
	Posts    repo.PostRepository
	Comments repo.CommentRepository
	Logger   *logrus.Logger
}

func NewPostService(posts repo.PostRepository, comments repo.CommentRepository, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Comments: comments, Logger: logger}
}

// CreatePost writes a post for the author. Requires the write capability and
// a non-empty body; the rendered HTML is derived here and stored.
func (s *PostService) CreatePost(ctx context.Context, author *entity.User, body string) (*entity.Post, error) {
	if !author.Can(entity.PermWrite) {
		return nil, ErrForbidden
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrValidation
	}
	html, err := markdown.Render(body)
	if err != nil {
		return nil, err
	}
	p := &entity.Post{
		ID:       uuid.NewString(),
		Body:     body,
		BodyHTML: html,
		AuthorID: author.ID,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// UpdatePost replaces the body and re-derives the rendered HTML. Only the
// author may edit, unless the editor is an administrator.
func (s *PostService) UpdatePost(ctx context.Context, editor *entity.User, postID, body string) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil || p == nil {
		return nil, ErrNotFound
	}
	if p.AuthorID != editor.ID && !editor.IsAdministrator() {
		return nil, ErrForbidden
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrValidation
	}
	html, err := markdown.Render(body)
	if err != nil {
		return nil, err
	}
	p.Body = body
	p.BodyHTML = html
	if err := s.Posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddComment attaches a comment to a post. Requires the comment capability.
func (s *PostService) AddComment(ctx context.Context, author *entity.User, postID, body string) (*entity.Comment, error) {
	if !author.Can(entity.PermComment) {
		return nil, ErrForbidden
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrValidation
	}
	if p, err := s.Posts.GetByID(ctx, postID); err != nil || p == nil {
		return nil, ErrNotFound
	}
	html, err := markdown.Render(body)
	if err != nil {
		return nil, err
	}
	c := &entity.Comment{
		ID:       uuid.NewString(),
		Body:     body,
		BodyHTML: html,
		AuthorID: author.ID,
		PostID:   postID,
	}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments pages through a post's comments. Moderators also see
// disabled comments.
func (s *PostService) ListComments(ctx context.Context, viewer *entity.User, postID string, q PageQuery, defaultSize, maxSize int) (Page[entity.Comment], error) {
	if p, err := s.Posts.GetByID(ctx, postID); err != nil || p == nil {
		return Page[entity.Comment]{}, ErrNotFound
	}
	q = q.normalize(defaultSize, maxSize)
	includeDisabled := viewer.Can(entity.PermModerate)
	comments, total, err := s.Comments.ListByPost(ctx, postID, includeDisabled, q.PerPage, q.offset())
	if err != nil {
		return Page[entity.Comment]{}, err
	}
	return buildPage(comments, q, total)
}

// SetCommentDisabled flips a comment's moderation flag. Requires the
// moderate capability. Re-applying the current state is a silent no-op.
func (s *PostService) SetCommentDisabled(ctx context.Context, moderator *entity.User, commentID string, disabled bool) error {
	if !moderator.Can(entity.PermModerate) {
		return ErrForbidden
	}
	c, err := s.Comments.GetByID(ctx, commentID)
	if err != nil || c == nil {
		return ErrNotFound
	}
	if c.Disabled == disabled {
		return nil
	}
	return s.Comments.SetDisabled(ctx, commentID, disabled)
}
