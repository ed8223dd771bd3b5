package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finchlabs/finch/internal/container"
	"github.com/finchlabs/finch/internal/domain/entity"
	repo "github.com/finchlabs/finch/internal/domain/repository"
	handlers "github.com/finchlabs/finch/internal/interface/http"
	"github.com/finchlabs/finch/internal/interface/middleware"
	"github.com/finchlabs/finch/pkg/helpers"
)

// FollowModule wires the follow graph routes. Reading the graph only needs a
// session; mutating it needs the follow capability and a confirmed account.
type FollowModule struct {
	Handler *handlers.FollowHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewFollowModule(h *handlers.FollowHandler, users repo.UserRepository, jwt *helpers.JWTManager) *FollowModule {
	return &FollowModule{Handler: h, Users: users, JWT: jwt}
}

func (m *FollowModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, rdb, m.JWT, container.GetLogger()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/users/:id/follow", m.Handler.Status)
		auth.GET("/users/:id/followers", m.Handler.Followers)
		auth.GET("/users/:id/following", m.Handler.Following)

		mutate := auth.Group("/")
		mutate.Use(middleware.RequireConfirmed(), middleware.RequirePermission(entity.PermFollow))
		{
			mutate.POST("/users/:id/follow", m.Handler.Follow)
			mutate.DELETE("/users/:id/follow", m.Handler.Unfollow)
		}
	}
}
