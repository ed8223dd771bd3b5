package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	app "github.com/finchlabs/finch/internal/application"
	"github.com/finchlabs/finch/pkg/response"
)

// pageQuery reads ?page, ?per_page and ?strict from the request. Values are
// sanitized later by the service layer, so zero means "use the default".
func pageQuery(c *gin.Context) app.PageQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	strict, _ := strconv.ParseBool(c.DefaultQuery("strict", "false"))
	return app.PageQuery{Page: page, PerPage: perPage, Strict: strict}
}

func pageMeta[T any](p app.Page[T]) response.PageMeta {
	return response.PageMeta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

// writeServiceError maps a service error onto the HTTP status taxonomy.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, app.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, app.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "insufficient permissions", nil)
	case errors.Is(err, app.ErrNotConfirmed):
		response.Error[any](c, http.StatusForbidden, "account not confirmed", nil)
	case errors.Is(err, app.ErrValidation):
		response.Error[any](c, http.StatusBadRequest, "invalid input", nil)
	case errors.Is(err, app.ErrInvalidOperation):
		response.Error[any](c, http.StatusBadRequest, "invalid operation", nil)
	case errors.Is(err, app.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "email already registered", nil)
	case errors.Is(err, app.ErrUsernameTaken):
		response.Error[any](c, http.StatusConflict, "username already taken", nil)
	case errors.Is(err, app.ErrConfiguration):
		response.Error[any](c, http.StatusInternalServerError, "server misconfigured", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
