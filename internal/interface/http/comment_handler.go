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

type CommentHandler struct {
	Svc             *userapp.PostService
	Logger          *logrus.Logger
	DefaultPageSize int
	MaxPageSize     int
}

func NewCommentHandler(svc *userapp.PostService, logger *logrus.Logger, defaultPageSize, maxPageSize int) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger, DefaultPageSize: defaultPageSize, MaxPageSize: maxPageSize}
}

type commentRequest struct {
	Body string `json:"body" binding:"required"`
}

// List GET /api/posts/:id/comments (auth required)
// Moderators see disabled comments; everyone else gets the filtered view.
func (h *CommentHandler) List(c *gin.Context) {
	page, err := h.Svc.ListComments(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), pageQuery(c), h.DefaultPageSize, h.MaxPageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, commentViews(page.Items), "comments", pageMeta(page))
}

// Add POST /api/posts/:id/comments (auth + confirmed)
func (h *CommentHandler) Add(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cm, err := h.Svc.AddComment(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, commentView(cm), "comment added", nil)
}

// Disable PATCH /api/comments/:id/disable (auth + moderate permission)
func (h *CommentHandler) Disable(c *gin.Context) {
	h.setDisabled(c, true)
}

// Enable PATCH /api/comments/:id/enable (auth + moderate permission)
func (h *CommentHandler) Enable(c *gin.Context) {
	h.setDisabled(c, false)
}

func (h *CommentHandler) setDisabled(c *gin.Context, disabled bool) {
	err := h.Svc.SetCommentDisabled(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), disabled)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"disabled": disabled}, "comment moderation applied", nil)
}
