package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/finchlabs/finch/internal/domain/entity"
	"github.com/finchlabs/finch/internal/domain/repository"
	"github.com/finchlabs/finch/pkg/helpers"
	"github.com/finchlabs/finch/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "currentUser"
)

// bearerToken pulls the token from the Authorization header, if present.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Auth validates the access token and loads the authenticated user into the
// Gin context. Browser sessions carry the token in the access_token cookie
// and a session id claim that must still exist in Redis; API clients send a
// bare token via the Authorization header and skip the session check.
// Sets userID and currentUser (*entity.User, role preloaded) on success.
func Auth(users repository.UserRepository, rdb *redis.Client, jwt *helpers.JWTManager, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			token = bearerToken(c)
		}
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}

		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		ctx := c.Request.Context()

		// Session-bound tokens must still have a live session.
		if claims.SessionID != "" {
			data, err := rdb.HGetAll(ctx, helpers.KeySession(claims.UserID)).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				response.Error[any](c, http.StatusUnauthorized, "session expired", nil)
				c.Abort()
				return
			}
		}

		user, err := users.GetByID(ctx, claims.UserID)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "unknown user", nil)
			c.Abort()
			return
		}

		if err := users.TouchLastSeen(ctx, user.ID); err != nil && log != nil {
			log.WithError(err).WithField("user_id", user.ID).Warn("failed to update last seen")
		}

		c.Set(CtxUserIDKey, user.ID)
		c.Set(CtxUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
