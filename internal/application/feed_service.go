package application

import (
	"context"

	"github.com/finchlabs/finch/internal/domain/entity"
	repo "github.com/finchlabs/finch/internal/domain/repository"
)

// FeedService derives the time-ordered post listings. The personalized feed
// is one join between posts and follow edges; the repository contract forbids
// per-followed-author query fan-out.
type FeedService struct {
	Posts repo.PostRepository

	DefaultPageSize int
	MaxPageSize     int
}

func NewFeedService(posts repo.PostRepository, defaultPageSize, maxPageSize int) *FeedService {
	return &FeedService{Posts: posts, DefaultPageSize: defaultPageSize, MaxPageSize: maxPageSize}
}

// GlobalFeed returns a page of all posts, newest first.
func (s *FeedService) GlobalFeed(ctx context.Context, q PageQuery) (Page[entity.Post], error) {
	q = q.normalize(s.DefaultPageSize, s.MaxPageSize)
	posts, total, err := s.Posts.ListAll(ctx, q.PerPage, q.offset())
	if err != nil {
		return Page[entity.Post]{}, err
	}
	return buildPage(posts, q, total)
}

// PersonalizedFeed returns a page of posts authored by users the viewer
// follows. The mandatory self edge puts the viewer's own posts in scope
// without special-casing.
func (s *FeedService) PersonalizedFeed(ctx context.Context, viewerID string, q PageQuery) (Page[entity.Post], error) {
	q = q.normalize(s.DefaultPageSize, s.MaxPageSize)
	posts, total, err := s.Posts.ListFollowed(ctx, viewerID, q.PerPage, q.offset())
	if err != nil {
		return Page[entity.Post]{}, err
	}
	return buildPage(posts, q, total)
}

// AuthorFeed returns a page of one user's posts, newest first.
func (s *FeedService) AuthorFeed(ctx context.Context, authorID string, q PageQuery) (Page[entity.Post], error) {
	q = q.normalize(s.DefaultPageSize, s.MaxPageSize)
	posts, total, err := s.Posts.ListByAuthor(ctx, authorID, q.PerPage, q.offset())
	if err != nil {
		return Page[entity.Post]{}, err
	}
	return buildPage(posts, q, total)
}
