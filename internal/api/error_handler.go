package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes and renders {"error": "<message>"}. Anything it
// does not recognise is logged and reported as a 500 without details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var fe *domain.FormError
	if errors.As(err, &fe) {
		return http.StatusUnprocessableEntity, fe.Message
	}

	var ae *domain.APIError
	if errors.As(err, &ae) {
		if ae.Status == http.StatusNotFound {
			return http.StatusNotFound, ae.Detail
		}
		log.Warn().
			Err(err).
			Int("backend_status", ae.Status).
			Str("path", c.Path()).
			Msg("arena backend request failed")
		return http.StatusBadGateway, domain.NoticeServerOffline
	}

	switch {
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized, domain.NoticeNotLoggedIn
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
