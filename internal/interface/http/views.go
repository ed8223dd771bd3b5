package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/finchlabs/finch/internal/domain/entity"
)

// View builders keep the JSON shape in one place. Password hashes and role
// internals never leave through these.

func userView(u *entity.User) gin.H {
	if u == nil {
		return nil
	}
	v := gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"avatar_url": u.AvatarURL,
		"confirmed":  u.Confirmed,
		"last_seen":  u.LastSeen,
		"created_at": u.CreatedAt,
	}
	if u.Role != nil {
		v["role"] = u.Role.Name
	}
	return v
}

// authorView is the compact author block embedded in posts and comments.
func authorView(u *entity.User) gin.H {
	if u == nil {
		return nil
	}
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"avatar_url": u.AvatarURL,
	}
}

func postView(p *entity.Post) gin.H {
	if p == nil {
		return nil
	}
	return gin.H{
		"id":         p.ID,
		"body":       p.Body,
		"body_html":  p.BodyHTML,
		"author":     authorView(p.Author),
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

func postViews(posts []entity.Post) []gin.H {
	out := make([]gin.H, 0, len(posts))
	for i := range posts {
		out = append(out, postView(&posts[i]))
	}
	return out
}

func commentView(cm *entity.Comment) gin.H {
	if cm == nil {
		return nil
	}
	return gin.H{
		"id":         cm.ID,
		"body":       cm.Body,
		"body_html":  cm.BodyHTML,
		"post_id":    cm.PostID,
		"author":     authorView(cm.Author),
		"disabled":   cm.Disabled,
		"created_at": cm.CreatedAt,
	}
}

func commentViews(comments []entity.Comment) []gin.H {
	out := make([]gin.H, 0, len(comments))
	for i := range comments {
		out = append(out, commentView(&comments[i]))
	}
	return out
}

func followViews(edges []entity.Follow) []gin.H {
	out := make([]gin.H, 0, len(edges))
	for _, e := range edges {
		out = append(out, gin.H{
			"follower_id": e.FollowerID,
			"followed_id": e.FollowedID,
			"since":       e.CreatedAt,
		})
	}
	return out
}
