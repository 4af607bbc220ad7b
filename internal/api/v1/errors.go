package v1

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/Davidnet/BookWise/internal/http/response"
	"github.com/Davidnet/BookWise/internal/model"
)

// writeError maps the domain error taxonomy onto status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case model.IsValidation(err):
		response.BadRequest(w, r, err)
	case errors.Is(err, model.ErrUnauthenticated):
		response.Unauthorized(w, r)
	case errors.Is(err, model.ErrNotFound):
		response.NotFound(w, r)
	case errors.Is(err, model.ErrInvalidTransition):
		response.Conflict(w, r, err)
	default:
		// StoreUnavailable, GenerationFailed, UploadFailed and anything unexpected.
		response.ServerError(w, r, err)
	}
}
