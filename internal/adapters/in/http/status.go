package http

import (
	"errors"
	"net/http"

	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/commands"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// badRequest writes a 400 with the given message.
func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// respondError translates a use case error into its HTTP status and writes
// the standard error body.
func respondError(ctx echo.Context, err error) error {
	code := statusFromError(err)
	return ctx.JSON(code, Error{
		Code:    code,
		Message: err.Error(),
	})
}

// statusFromError maps the error taxonomy onto HTTP statuses. Validation
// failures are 400, missing records 404, losing a race 409, acting on a
// reclaimed record 410 and a full bay 429. Anything unrecognized is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrStateConflict),
		errors.Is(err, commands.ErrNoActiveShift),
		errors.Is(err, commands.ErrResourceBusy):
		return http.StatusConflict
	case errors.Is(err, errs.ErrExpired):
		return http.StatusGone
	case errors.Is(err, errs.ErrCapacityExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, commands.ErrQuantityIsInvalid),
		errors.Is(err, commands.ErrActorIsRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
