package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-feed-service/internal/application"
	"github.com/oksasatya/go-feed-service/pkg/response"
)

// writeError maps the application error taxonomy onto HTTP statuses. The
// validation case carries the structured violation list so clients can
// highlight the offending fields.
func writeError(c *gin.Context, err error) {
	if ve, ok := application.AsValidation(err); ok {
		response.Error(c, http.StatusUnprocessableEntity, "validation failed", ve.Violations)
		return
	}
	switch {
	case errors.Is(err, application.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, "not authenticated", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error(c, http.StatusForbidden, "not authorized", nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrConflict):
		response.Error(c, http.StatusConflict, "already exists", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}
