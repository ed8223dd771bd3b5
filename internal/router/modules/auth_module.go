package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finchlabs/finch/internal/container"
	repo "github.com/finchlabs/finch/internal/domain/repository"
	handlers "github.com/finchlabs/finch/internal/interface/http"
	"github.com/finchlabs/finch/internal/interface/middleware"
	"github.com/finchlabs/finch/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, users repo.UserRepository, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Public endpoints with IP-based rate limits
	confirmLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetInitLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetConfirmLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/confirm", confirmLimiter, m.Handler.Confirm)
	rg.POST("/auth/reset/init", resetInitLimiter, m.Handler.ResetInit)
	rg.POST("/auth/reset/confirm", resetConfirmLimiter, m.Handler.ResetConfirm)

	// Protected confirm init with user-based rate limit
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, rdb, m.JWT, container.GetLogger()))
	auth.Use(middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/auth/confirm/init", m.Handler.ConfirmInit)
	}
}
