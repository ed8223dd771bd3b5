package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/finchlabs/finch/internal/application"
	"github.com/finchlabs/finch/internal/interface/middleware"
	"github.com/finchlabs/finch/pkg/response"
	"github.com/finchlabs/finch/pkg/validation"
)

type PostHandler struct {
	Posts  *userapp.PostService
	Feed   *userapp.FeedService
	Logger *logrus.Logger
}

func NewPostHandler(posts *userapp.PostService, feed *userapp.FeedService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Posts: posts, Feed: feed, Logger: logger}
}

type postRequest struct {
	Body string `json:"body" binding:"required"`
}

// Create POST /api/posts (auth + confirmed)
func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Posts.CreatePost(c.Request.Context(), middleware.CurrentUser(c), req.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, postView(p), "post created", nil)
}

// Get GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Posts.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, postView(p), "post", nil)
}

// Update PUT /api/posts/:id (auth + confirmed; author or administrator)
func (h *PostHandler) Update(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Posts.UpdatePost(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, postView(p), "post updated", nil)
}

// ListFeed GET /api/feed?scope=all|followed (auth required)
// scope=followed narrows the feed to authors the caller follows; the self
// edge keeps the caller's own posts in it.
func (h *PostHandler) ListFeed(c *gin.Context) {
	q := pageQuery(c)
	ctx := c.Request.Context()

	switch c.DefaultQuery("scope", "all") {
	case "followed":
		uid := c.GetString(middleware.CtxUserIDKey)
		p, err := h.Feed.PersonalizedFeed(ctx, uid, q)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, postViews(p.Items), "feed", pageMeta(p))
	case "all":
		p, err := h.Feed.GlobalFeed(ctx, q)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, postViews(p.Items), "feed", pageMeta(p))
	default:
		response.Error[any](c, http.StatusBadRequest, "unknown scope", nil)
	}
}

// ListByAuthor GET /api/users/:id/posts
func (h *PostHandler) ListByAuthor(c *gin.Context) {
	p, err := h.Feed.AuthorFeed(c.Request.Context(), c.Param("id"), pageQuery(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, postViews(p.Items), "posts", pageMeta(p))
}
