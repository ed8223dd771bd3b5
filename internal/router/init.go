package router

import (
	userapp "github.com/finchlabs/finch/internal/application"
	"github.com/finchlabs/finch/internal/container"
	pginfra "github.com/finchlabs/finch/internal/infrastructure/postgres"
	handlers "github.com/finchlabs/finch/internal/interface/http"
	"github.com/finchlabs/finch/internal/router/modules"
)

// InitModules builds repositories, services, and handlers from the container
// singletons and registers every feature module. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	rdb := container.GetRedis()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	users := pginfra.NewUserRepository(pool)
	roles := pginfra.NewRoleRepository(pool)
	follows := pginfra.NewFollowRepository(pool)
	posts := pginfra.NewPostRepository(pool)
	comments := pginfra.NewCommentRepository(pool)

	userSvc := userapp.NewService(
		users,
		roles,
		jwt,
		container.GetGCS(),
		cfg.GCSBucket,
		rdb,
		logger,
		container.GetES(),
		cfg.ESUsersIndex,
		cfg.AdminEmail,
	)
	followSvc := userapp.NewFollowService(follows, users, rdb, logger, cfg.DefaultPageSize, cfg.MaxPageSize)
	postSvc := userapp.NewPostService(posts, comments, logger)
	feedSvc := userapp.NewFeedService(posts, cfg.DefaultPageSize, cfg.MaxPageSize)

	userHandler := handlers.NewUserHandler(userSvc, jwt, rdb, logger, cfg.CookieDomain, cfg.CookieSecure)
	authHandler := handlers.NewAuthHandler(userSvc, users, rdb, logger, cfg, container.GetRabbitPub())
	followHandler := handlers.NewFollowHandler(followSvc, logger)
	postHandler := handlers.NewPostHandler(postSvc, feedSvc, logger)
	commentHandler := handlers.NewCommentHandler(postSvc, logger, cfg.DefaultPageSize, cfg.MaxPageSize)

	r.Add(modules.NewUserModule(userHandler, users, jwt))
	r.Add(modules.NewAuthModule(authHandler, users, jwt))
	r.Add(modules.NewFollowModule(followHandler, users, jwt))
	r.Add(modules.NewPostModule(postHandler, commentHandler, users, jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
