package entity

import "time"

// Post is a blog post. BodyHTML is derived from Body (markdown rendered
// and sanitized) and recomputed whenever Body changes; clients should
// prefer it over rendering Body themselves.
type Post struct {
	ID        string
	Body      string
	BodyHTML  string
	AuthorID  string
	Author    *User
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is a comment on a post. Disabled comments stay in the table but
// are hidden from listings for everyone except moderators.
type Comment struct {
	ID        string
	Body      string
	BodyHTML  string
	AuthorID  string
	Author    *User
	PostID    string
	Disabled  bool
	CreatedAt time.Time
}
