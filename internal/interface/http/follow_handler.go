package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/finchlabs/finch/internal/application"
	"github.com/finchlabs/finch/internal/interface/middleware"
	"github.com/finchlabs/finch/pkg/response"
)

type FollowHandler struct {
	Svc    *userapp.FollowService
	Logger *logrus.Logger
}

func NewFollowHandler(svc *userapp.FollowService, logger *logrus.Logger) *FollowHandler {
	return &FollowHandler{Svc: svc, Logger: logger}
}

// Follow POST /api/users/:id/follow (auth + follow permission + confirmed)
func (h *FollowHandler) Follow(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	target := c.Param("id")
	if err := h.Svc.Follow(c.Request.Context(), uid, target); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"following": true}, "followed", nil)
}

// Unfollow DELETE /api/users/:id/follow (auth + follow permission + confirmed)
func (h *FollowHandler) Unfollow(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	target := c.Param("id")
	if err := h.Svc.Unfollow(c.Request.Context(), uid, target); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"following": false}, "unfollowed", nil)
}

// Status GET /api/users/:id/follow (auth required)
// Reports the relationship between the caller and the target in both
// directions, plus the target's visible counts.
func (h *FollowHandler) Status(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	target := c.Param("id")
	ctx := c.Request.Context()

	following, err := h.Svc.IsFollowing(ctx, uid, target)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	followedBy, err := h.Svc.IsFollowedBy(ctx, uid, target)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	followers, err := h.Svc.FollowerCount(ctx, target)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	followingCount, err := h.Svc.FollowingCount(ctx, target)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"following":       following,
		"followed_by":     followedBy,
		"follower_count":  followers,
		"following_count": followingCount,
	}, "follow status", nil)
}

// Followers GET /api/users/:id/followers
func (h *FollowHandler) Followers(c *gin.Context) {
	page, err := h.Svc.ListFollowers(c.Request.Context(), c.Param("id"), pageQuery(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, followViews(page.Items), "followers", pageMeta(page))
}

// Following GET /api/users/:id/following
func (h *FollowHandler) Following(c *gin.Context) {
	page, err := h.Svc.ListFollowing(c.Request.Context(), c.Param("id"), pageQuery(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, followViews(page.Items), "following", pageMeta(page))
}
