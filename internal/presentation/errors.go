package presentation

import (
	"errors"
	"net/http"

	"github.com/RaikyD/store-admin/internal/application"
	"github.com/RaikyD/store-admin/internal/logger"
	"github.com/RaikyD/store-admin/internal/presentation/helpers"
	"github.com/RaikyD/store-admin/internal/repository"
	"github.com/RaikyD/store-admin/internal/validation"
)

// writeError maps service errors to HTTP responses. Unexpected errors are
// logged and hidden behind msg.
func writeError(w http.ResponseWriter, err error, msg string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		helpers.FieldErrors(w, verrs)
	case errors.Is(err, repository.ErrNotFound):
		helpers.HttpError(w, http.StatusNotFound, "not found")
	case errors.Is(err, application.ErrInvalidRange),
		errors.Is(err, application.ErrInvalidStatus),
		errors.Is(err, application.ErrEmptyUpdate):
		helpers.HttpError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrImagesDisabled):
		helpers.HttpError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Warn(msg, "err", err)
		helpers.HttpError(w, http.StatusInternalServerError, msg)
	}
}
