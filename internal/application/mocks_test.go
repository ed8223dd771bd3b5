package application

import (
	"context"
	"sort"
	"sync"

	"github.com/finchlabs/finch/internal/domain/entity"
	"github.com/finchlabs/finch/internal/domain/repository"
)

// In-memory fakes for the repository interfaces. They mirror the store
// contracts the implementations promise: idempotent edge writes, raw counts
// including the self edge, listings excluding it, newest-first ordering.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	edges *fakeFollowRepo // when set, Create also inserts the self edge
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	if f.edges != nil {
		f.edges.insert(u.ID, u.ID)
	}
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) SetConfirmed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Confirmed = true
	return nil
}

func (f *fakeUserRepo) TouchLastSeen(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

type fakeRoleRepo struct {
	roles       map[string]*entity.Role
	defaultName string
}

func newFakeRoleRepo() *fakeRoleRepo {
	f := &fakeRoleRepo{roles: map[string]*entity.Role{}}
	_ = f.SeedDefaults(context.Background(), entity.DefaultRoleTable(), entity.RoleNameUser)
	return f
}

func (f *fakeRoleRepo) SeedDefaults(_ context.Context, table map[string][]entity.Permission, defaultName string) error {
	f.defaultName = defaultName
	for name, perms := range table {
		r, ok := f.roles[name]
		if !ok {
			r = &entity.Role{ID: "role-" + name, Name: name}
			f.roles[name] = r
		}
		r.ResetPermissions()
		for _, p := range perms {
			r.AddPermission(p)
		}
		r.Default = name == defaultName
	}
	return nil
}

func (f *fakeRoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	r, ok := f.roles[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeRoleRepo) DefaultRole(_ context.Context) (*entity.Role, error) {
	var found *entity.Role
	for _, r := range f.roles {
		if r.Default {
			if found != nil {
				return nil, repository.ErrDefaultRole
			}
			found = r
		}
	}
	if found == nil {
		return nil, repository.ErrDefaultRole
	}
	return found, nil
}

type edgeKey struct{ follower, followed string }

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[edgeKey]int // value is insertion order, newest highest
	seq   int
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: map[edgeKey]int{}}
}

func (f *fakeFollowRepo) insert(follower, followed string) {
	k := edgeKey{follower, followed}
	if _, ok := f.edges[k]; ok {
		return
	}
	f.seq++
	f.edges[k] = f.seq
}

func (f *fakeFollowRepo) Create(_ context.Context, followerID, followedID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insert(followerID, followedID)
	return nil
}

func (f *fakeFollowRepo) Delete(_ context.Context, followerID, followedID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.edges, edgeKey{followerID, followedID})
	return nil
}

func (f *fakeFollowRepo) Exists(_ context.Context, followerID, followedID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.edges[edgeKey{followerID, followedID}]
	return ok, nil
}

func (f *fakeFollowRepo) CountFollowers(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k := range f.edges {
		if k.followed == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFollowRepo) CountFollowing(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k := range f.edges {
		if k.follower == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFollowRepo) list(userID string, byFollowed bool, limit, offset int) []entity.Follow {
	type ordered struct {
		e   entity.Follow
		seq int
	}
	var all []ordered
	for k, seq := range f.edges {
		if k.follower == k.followed {
			continue // self edge never appears in listings
		}
		if (byFollowed && k.followed == userID) || (!byFollowed && k.follower == userID) {
			all = append(all, ordered{entity.Follow{FollowerID: k.follower, FollowedID: k.followed}, seq})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq > all[j].seq })
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	out := make([]entity.Follow, 0, len(all))
	for _, o := range all {
		out = append(out, o.e)
	}
	return out
}

func (f *fakeFollowRepo) ListFollowers(_ context.Context, userID string, limit, offset int) ([]entity.Follow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(userID, true, limit, offset), nil
}

func (f *fakeFollowRepo) ListFollowing(_ context.Context, userID string, limit, offset int) ([]entity.Follow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(userID, false, limit, offset), nil
}

type fakePostRepo struct {
	mu      sync.Mutex
	posts   []*entity.Post
	follows *fakeFollowRepo
}

func newFakePostRepo(follows *fakeFollowRepo) *fakePostRepo {
	return &fakePostRepo{follows: follows}
}

func (f *fakePostRepo) Create(_ context.Context, p *entity.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.posts = append(f.posts, &cp)
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id string) (*entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePostRepo) Update(_ context.Context, p *entity.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.posts {
		if existing.ID == p.ID {
			cp := *p
			f.posts[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakePostRepo) page(match func(*entity.Post) bool, limit, offset int) ([]entity.Post, int64) {
	var all []entity.Post
	// newest first: posts are appended in creation order
	for i := len(f.posts) - 1; i >= 0; i-- {
		if match(f.posts[i]) {
			all = append(all, *f.posts[i])
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []entity.Post{}, total
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total
}

func (f *fakePostRepo) ListAll(_ context.Context, limit, offset int) ([]entity.Post, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts, total := f.page(func(*entity.Post) bool { return true }, limit, offset)
	return posts, total, nil
}

func (f *fakePostRepo) ListFollowed(_ context.Context, viewerID string, limit, offset int) ([]entity.Post, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	followed := map[string]bool{}
	if f.follows != nil {
		f.follows.mu.Lock()
		for k := range f.follows.edges {
			if k.follower == viewerID {
				followed[k.followed] = true
			}
		}
		f.follows.mu.Unlock()
	}
	posts, total := f.page(func(p *entity.Post) bool { return followed[p.AuthorID] }, limit, offset)
	return posts, total, nil
}

func (f *fakePostRepo) ListByAuthor(_ context.Context, authorID string, limit, offset int) ([]entity.Post, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts, total := f.page(func(p *entity.Post) bool { return p.AuthorID == authorID }, limit, offset)
	return posts, total, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []*entity.Comment
}

func newFakeCommentRepo() *fakeCommentRepo { return &fakeCommentRepo{} }

func (f *fakeCommentRepo) Create(_ context.Context, c *entity.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.comments = append(f.comments, &cp)
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.comments {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCommentRepo) SetDisabled(_ context.Context, id string, disabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.comments {
		if c.ID == id {
			c.Disabled = disabled
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCommentRepo) ListByPost(_ context.Context, postID string, includeDisabled bool, limit, offset int) ([]entity.Comment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []entity.Comment
	for i := len(f.comments) - 1; i >= 0; i-- {
		c := f.comments[i]
		if c.PostID != postID {
			continue
		}
		if c.Disabled && !includeDisabled {
			continue
		}
		all = append(all, *c)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []entity.Comment{}, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

// interface conformance
var (
	_ repository.UserRepository    = (*fakeUserRepo)(nil)
	_ repository.RoleRepository    = (*fakeRoleRepo)(nil)
	_ repository.FollowRepository  = (*fakeFollowRepo)(nil)
	_ repository.PostRepository    = (*fakePostRepo)(nil)
	_ repository.CommentRepository = (*fakeCommentRepo)(nil)
)
