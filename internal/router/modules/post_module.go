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

// PostModule wires posts, feeds, and comments. Reads require a session so
// the feed can be personalized; writes additionally require confirmation and
// the matching capability. Moderation hides behind the moderate capability.
type PostModule struct {
	Posts    *handlers.PostHandler
	Comments *handlers.CommentHandler
	Users    repo.UserRepository
	JWT      *helpers.JWTManager
}

func NewPostModule(posts *handlers.PostHandler, comments *handlers.CommentHandler, users repo.UserRepository, jwt *helpers.JWTManager) *PostModule {
	return &PostModule{Posts: posts, Comments: comments, Users: users, JWT: jwt}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, rdb, m.JWT, container.GetLogger()))
	auth.Use(middleware.RateLimit(rdb, 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/feed", m.Posts.ListFeed)
		auth.GET("/posts/:id", m.Posts.Get)
		auth.GET("/users/:id/posts", m.Posts.ListByAuthor)
		auth.GET("/posts/:id/comments", m.Comments.List)

		write := auth.Group("/")
		write.Use(middleware.RequireConfirmed())
		{
			write.POST("/posts", middleware.RequirePermission(entity.PermWrite), m.Posts.Create)
			write.PUT("/posts/:id", middleware.RequirePermission(entity.PermWrite), m.Posts.Update)
			write.POST("/posts/:id/comments", middleware.RequirePermission(entity.PermComment), m.Comments.Add)
		}

		moderate := auth.Group("/")
		moderate.Use(middleware.RequirePermission(entity.PermModerate))
		{
			moderate.PATCH("/comments/:id/disable", m.Comments.Disable)
			moderate.PATCH("/comments/:id/enable", m.Comments.Enable)
		}
	}
}
