package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finchlabs/finch/internal/domain/entity"
	"github.com/finchlabs/finch/pkg/response"
)

// RequirePermission rejects requests whose user lacks the given permission.
// Must run after Auth.
func RequirePermission(p entity.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if !user.Can(p) {
			response.Error[any](c, http.StatusForbidden, "insufficient permissions", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireConfirmed rejects users who have not confirmed their account yet.
func RequireConfirmed() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		if !user.Confirmed {
			response.Error[any](c, http.StatusForbidden, "account not confirmed", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
