package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "jobboard/internal/errors"
)

// NewErrorHandler renders every error as the API's JSON envelope. With
// withStack the wrapped error chain is included for debugging.
func NewErrorHandler(logger *slog.Logger, withStack bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := toHTTPError(err)
		if httpErr.StatusCode >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"error", err,
			)
		}

		body := httpErr.ToErrorResponse()
		if withStack {
			body.Stack = errorChain(err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.StatusCode)
		} else {
			err = c.JSON(httpErr.StatusCode, body)
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}

func toHTTPError(err error) *apperrors.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_"))
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		if he.Code >= http.StatusInternalServerError {
			message = "internal server error"
			code = "INTERNAL_ERROR"
		}
		mapped := apperrors.NewHTTPError(he.Code, message, code)
		mapped.Internal = err
		return mapped
	}
	return apperrors.MapErrorToHTTP(err)
}

// errorChain lists the messages of err and everything it wraps, outermost
// first.
func errorChain(err error) string {
	var parts []string
	for err != nil {
		parts = append(parts, fmt.Sprintf("%T: %v", err, err))
		err = errors.Unwrap(err)
	}
	return strings.Join(parts, "\n")
}
