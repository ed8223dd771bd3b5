package entity

import "time"

// Follow is a directed edge in the follow graph: follower receives
// followed's posts in their personalized feed. The (FollowerID, FollowedID)
// pair is the natural key; CreatedAt is set once and never updated.
//
// Every user holds a reflexive edge to themselves, created in the same
// transaction as the account. The self edge is what puts a user's own posts
// in their feed without special-casing, and it is hidden from user-facing
// follower/following counts.
type Follow struct {
	FollowerID string
	FollowedID string
	CreatedAt  time.Time
}

// IsSelf reports whether the edge is the reflexive self edge.
func (f Follow) IsSelf() bool {
	return f.FollowerID == f.FollowedID
}
