package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/finchlabs/finch/config"
	userapp "github.com/finchlabs/finch/internal/application"
	"github.com/finchlabs/finch/internal/domain/entity"
	repo "github.com/finchlabs/finch/internal/domain/repository"
	"github.com/finchlabs/finch/internal/interface/middleware"
	"github.com/finchlabs/finch/pkg/helpers"
	"github.com/finchlabs/finch/pkg/mailer"
	tpl "github.com/finchlabs/finch/pkg/mailer/templates"
	"github.com/finchlabs/finch/pkg/response"
	"github.com/finchlabs/finch/pkg/validation"
)

const (
	confirmTokenTTL = 24 * time.Hour
	resetTokenTTL   = 30 * time.Minute
)

// AuthHandler owns account confirmation and password reset. Both flows hand
// out single-use tokens stored in Redis and deliver them over the email
// queue; the account itself only changes when the token comes back.
type AuthHandler struct {
	Svc    *userapp.Service
	Repo   repo.UserRepository
	RDB    *redis.Client
	Logger *logrus.Logger
	Cfg    *config.Config
	Pub    *helpers.RabbitPublisher
}

func NewAuthHandler(svc *userapp.Service, users repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher) *AuthHandler {
	return &AuthHandler{Svc: svc, Repo: users, RDB: rdb, Logger: logger, Cfg: cfg, Pub: pub}
}

func (h *AuthHandler) enqueueEmail(c *gin.Context, u *entity.User, template, link string, expires time.Duration) {
	if h.Pub == nil || h.Cfg == nil || !h.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data: tpl.EmailData{
			Username:  u.Username,
			Email:     u.Email,
			AppName:   h.Cfg.AppName,
			ActionURL: link,
			ExpiresIn: expires.String(),
		},
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("template", template).Warn("email enqueue failed")
	}
}

// ConfirmInit POST /api/auth/confirm/init (auth required)
// Issues a confirmation token and emails the confirmation link.
func (h *AuthHandler) ConfirmInit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if user.Confirmed {
		response.Success(c, http.StatusOK, gin.H{"already_confirmed": true}, "already confirmed", nil)
		return
	}
	tok, err := helpers.GenURLToken(32)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "token generation failed", nil)
		return
	}
	if h.RDB != nil {
		h.RDB.Set(c.Request.Context(), helpers.KeyConfirmToken(tok), user.ID, confirmTokenTTL)
	}
	link := h.Cfg.ConfirmAccountURL + "?token=" + tok
	h.enqueueEmail(c, user, tpl.ConfirmAccount, link, confirmTokenTTL)

	response.Success(c, http.StatusOK, gin.H{"confirm_link": link}, "confirmation link", nil)
}

// Confirm POST /api/auth/confirm {token}
func (h *AuthHandler) Confirm(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if h.RDB == nil {
		response.Error[any](c, http.StatusInternalServerError, "confirmation unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	uid, err := h.RDB.Get(ctx, helpers.KeyConfirmToken(req.Token)).Result()
	if err != nil || uid == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	if err := h.Svc.Confirm(ctx, uid); err != nil {
		writeServiceError(c, err)
		return
	}
	h.RDB.Del(ctx, helpers.KeyConfirmToken(req.Token))
	response.Success[any](c, http.StatusOK, gin.H{"confirmed": true}, "account confirmed", nil)
}

// ResetInit POST /api/auth/reset/init {email}
// Always answers OK so callers cannot probe which emails exist.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()
	u, err := h.Repo.GetByEmail(ctx, entity.NormalizeEmail(req.Email))
	if err == nil && u != nil && h.RDB != nil {
		tok, tErr := helpers.GenURLToken(32)
		if tErr != nil {
			response.Error[any](c, http.StatusInternalServerError, "token generation failed", nil)
			return
		}
		h.RDB.Set(ctx, helpers.KeyResetToken(tok), u.ID, resetTokenTTL)
		link := h.Cfg.ResetPasswordURL + "?token=" + tok
		h.enqueueEmail(c, u, tpl.PasswordReset, link, resetTokenTTL)
	}
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "reset link sent if the account exists", nil)
}

// ResetConfirm POST /api/auth/reset/confirm {token, new_password}
func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if h.RDB == nil {
		response.Error[any](c, http.StatusInternalServerError, "reset unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	uid, err := h.RDB.Get(ctx, helpers.KeyResetToken(req.Token)).Result()
	if err != nil || uid == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	u, err := h.Repo.GetByID(ctx, uid)
	if err != nil || u == nil {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	hash, err := helpers.HashPassword(req.NewPassword)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "hash failed", nil)
		return
	}
	u.Password = hash
	if err := h.Repo.Update(ctx, u); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "update failed", nil)
		return
	}
	// Drop the live session so stolen cookies die with the old password.
	h.RDB.Del(ctx, helpers.KeyResetToken(req.Token), helpers.KeySession(uid))
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}
