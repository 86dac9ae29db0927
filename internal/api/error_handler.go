package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/preview"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNoExportData):
		return http.StatusBadRequest, domain.ErrNoExportData.Error()
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest, domain.ErrInvalidQuery.Error()
	case errors.Is(err, domain.ErrInvalidExpiry),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidParent),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidActivity):
		return http.StatusBadRequest, sentinelMessage(err, badRequestErrors)

	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserBlocked):
		return http.StatusForbidden, "user is blocked"
	case errors.Is(err, domain.ErrUserStorePending):
		return http.StatusForbidden, domain.ErrUserStorePending.Error()

	case errors.Is(err, domain.ErrDealNotFound),
		errors.Is(err, domain.ErrStoreNotFound),
		errors.Is(err, domain.ErrDealTypeNotFound),
		errors.Is(err, domain.ErrCouponNotFound),
		errors.Is(err, domain.ErrUserStoreNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrSubscriberMissing),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, sentinelMessage(err, notFoundErrors)

	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrSlugTaken),
		errors.Is(err, domain.ErrUserStoreExists),
		errors.Is(err, domain.ErrSubscriberExists),
		errors.Is(err, domain.ErrAlreadyReacted):
		return http.StatusConflict, sentinelMessage(err, conflictErrors)

	case errors.Is(err, preview.ErrFetchFailed):
		return http.StatusBadGateway, preview.ErrFetchFailed.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

var (
	badRequestErrors = []error{
		domain.ErrInvalidExpiry, domain.ErrInvalidPrice, domain.ErrInvalidParent,
		domain.ErrInvalidRole, domain.ErrInvalidActivity,
	}
	notFoundErrors = []error{
		domain.ErrDealNotFound, domain.ErrStoreNotFound, domain.ErrDealTypeNotFound,
		domain.ErrCouponNotFound, domain.ErrUserStoreNotFound, domain.ErrCommentNotFound,
		domain.ErrSubscriberMissing, domain.ErrUserNotFound,
	}
	conflictErrors = []error{
		domain.ErrSlugTaken, domain.ErrUserStoreExists, domain.ErrSubscriberExists,
		domain.ErrAlreadyReacted,
	}
)

// sentinelMessage returns the message of the first matching sentinel, dropping
// any wrapping context so ids and field names never reach the client.
func sentinelMessage(err error, targets []error) string {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return http.StatusText(http.StatusBadRequest)
}
