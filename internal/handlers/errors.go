package handlers

import (
	"net/http"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var statusByCode = map[string]int{
	errs.EINVALID:      http.StatusBadRequest,
	errs.EUNAUTHORIZED: http.StatusUnauthorized,
	errs.EFORBIDDEN:    http.StatusForbidden,
	errs.ENOTFOUND:     http.StatusNotFound,
	errs.EUNAVAILABLE:  http.StatusServiceUnavailable,
	errs.EINTERNAL:     http.StatusInternalServerError,
}

// httpError converts a service error into an echo.HTTPError. Server-side
// failures are logged with their cause and answered with a generic message.
func httpError(c echo.Context, err error) error {
	status, ok := statusByCode[errs.ErrorCode(err)]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		log.Ctx(c.Request().Context()).Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request failed")
	}
	return echo.NewHTTPError(status, errs.ErrorMessage(err))
}
