package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/finchlabs/finch/internal/domain/entity"
)

func newFeedFixture(t *testing.T) (*FeedService, *fakePostRepo, *fakeFollowRepo) {
	t.Helper()
	follows := newFakeFollowRepo()
	posts := newFakePostRepo(follows)
	return NewFeedService(posts, 20, 100), posts, follows
}

func seedPosts(t *testing.T, posts *fakePostRepo, author string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := posts.Create(context.Background(), &entity.Post{
			ID:       fmt.Sprintf("%s-%d", author, i),
			Body:     "post",
			AuthorID: author,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestGlobalFeedOrderAndPaging(t *testing.T) {
	t.Parallel()
	svc, posts, _ := newFeedFixture(t)
	seedPosts(t, posts, "alice", 3)
	seedPosts(t, posts, "bob", 2)

	page, err := svc.GlobalFeed(context.Background(), PageQuery{Page: 1, PerPage: 3})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 5 || page.TotalPages != 2 {
		t.Fatalf("total=%d pages=%d, want 5/2", page.Total, page.TotalPages)
	}
	// newest first
	if page.Items[0].ID != "bob-1" {
		t.Fatalf("first post = %s, want bob-1", page.Items[0].ID)
	}
}

func TestPersonalizedFeedScopedToFollowed(t *testing.T) {
	t.Parallel()
	svc, posts, follows := newFeedFixture(t)
	ctx := context.Background()

	// viewer follows themselves (mandatory edge) and alice, not bob
	follows.insert("viewer", "viewer")
	follows.insert("viewer", "alice")
	seedPosts(t, posts, "viewer", 1)
	seedPosts(t, posts, "alice", 2)
	seedPosts(t, posts, "bob", 4)

	page, err := svc.PersonalizedFeed(ctx, "viewer", PageQuery{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 {
		t.Fatalf("total = %d, want 3 (own post + alice's)", page.Total)
	}
	for _, p := range page.Items {
		if p.AuthorID == "bob" {
			t.Fatalf("unfollowed author leaked into feed: %s", p.ID)
		}
	}

	// own post present via the self edge
	found := false
	for _, p := range page.Items {
		if p.AuthorID == "viewer" {
			found = true
		}
	}
	if !found {
		t.Fatal("viewer's own post missing from personalized feed")
	}
}

func TestPersonalizedFeedStrictOutOfRange(t *testing.T) {
	t.Parallel()
	svc, posts, follows := newFeedFixture(t)
	follows.insert("viewer", "viewer")
	seedPosts(t, posts, "viewer", 2)

	_, err := svc.PersonalizedFeed(context.Background(), "viewer", PageQuery{Page: 3, PerPage: 2, Strict: true})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("strict err = %v, want ErrNotFound", err)
	}

	page, err := svc.PersonalizedFeed(context.Background(), "viewer", PageQuery{Page: 3, PerPage: 2})
	if err != nil || len(page.Items) != 0 {
		t.Fatalf("lenient: items=%d err=%v", len(page.Items), err)
	}
}

func TestAuthorFeed(t *testing.T) {
	t.Parallel()
	svc, posts, _ := newFeedFixture(t)
	seedPosts(t, posts, "alice", 2)
	seedPosts(t, posts, "bob", 1)

	page, err := svc.AuthorFeed(context.Background(), "alice", PageQuery{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Total)
	}
	for _, p := range page.Items {
		if p.AuthorID != "alice" {
			t.Fatalf("foreign post in author feed: %s", p.ID)
		}
	}
}
