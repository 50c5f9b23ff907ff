package graphql

import (
	"errors"
	"net/http"

	"github.com/oksasatya/go-feed-service/internal/application"
)

// opError carries an HTTP-like status code into the GraphQL errors array via
// the extensions mechanism, so both front doors expose the same taxonomy.
type opError struct {
	err  error
	code int
	data any
}

func (e *opError) Error() string { return e.err.Error() }

func (e *opError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.code}
	if e.data != nil {
		ext["data"] = e.data
	}
	return ext
}

var errNotAuthenticated = &opError{err: errors.New("not authenticated"), code: http.StatusUnauthorized}

// wrapErr translates the application taxonomy into an extended GraphQL error.
func wrapErr(err error) error {
	if ve, ok := application.AsValidation(err); ok {
		return &opError{err: err, code: http.StatusUnprocessableEntity, data: ve.Violations}
	}
	switch {
	case errors.Is(err, application.ErrUnauthenticated):
		return &opError{err: err, code: http.StatusUnauthorized}
	case errors.Is(err, application.ErrForbidden):
		return &opError{err: err, code: http.StatusForbidden}
	case errors.Is(err, application.ErrNotFound):
		return &opError{err: err, code: http.StatusNotFound}
	case errors.Is(err, application.ErrConflict):
		return &opError{err: err, code: http.StatusConflict}
	default:
		return &opError{err: err, code: http.StatusInternalServerError}
	}
}
