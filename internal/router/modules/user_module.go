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

// UserModule wires account routes.
// Public: POST /api/register, /api/login, /api/refresh, /api/tokens
// Protected: POST /api/logout, GET/PUT /api/profile, POST /api/profile/avatar,
// GET /api/users/search, GET /api/users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, users repo.UserRepository, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Users: users, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)
	tokenLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/tokens", tokenLimiter, m.Handler.IssueToken)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, rdb, m.JWT, container.GetLogger()))
	auth.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
		auth.GET("/users/search", m.Handler.Search)
		auth.GET("/users/:id", m.Handler.GetUser)
	}
}
