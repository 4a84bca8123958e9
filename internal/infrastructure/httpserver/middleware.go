package httpserver

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"NewsPortal/internal/apperrors"
)

// MsgInvalidCredentials is the 401 detail for a wrong admin login.
const MsgInvalidCredentials = "Invalid admin credentials"

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			s.logger.Info("request", attrs...)
			return nil
		},
	})
}

func (s *Server) adminAuthMiddleware() echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm: "admin",
		Validator: func(username, password string, _ echo.Context) (bool, error) {
			userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
			if userOK && passOK {
				return true, nil
			}
			return false, apperrors.Unauthorized(MsgInvalidCredentials)
		},
	})
}

// ErrorHandlingMiddleware renders handler errors as {"detail": message}.
func ErrorHandlingMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			return renderError(logger, c, err)
		}
	}
}

// errorHandler renders errors that bypass the middleware chain, such as recovered panics.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if werr := renderError(logger, c, err); werr != nil {
			logger.Error("write error response", "error", werr)
		}
	}
}

func renderError(logger *slog.Logger, c echo.Context, err error) error {
	var structured *apperrors.Error
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		structured = wrapHTTPError(httpErr)
	} else {
		structured = apperrors.AsStructured(err)
	}
	logError(logger, c, structured)

	if err := c.JSON(structured.HTTPStatus(), structured.ToResponse()); err != nil {
		return fmt.Errorf("failed to write error response: %w", err)
	}
	return nil
}

func logError(logger *slog.Logger, c echo.Context, err *apperrors.Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	switch err.Type {
	case apperrors.TypeValidation, apperrors.TypeNotFound, apperrors.TypeUnauthorized:
		logger.Info("request rejected", attrs...)
	default:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		logger.Error("request failed", attrs...)
	}
}

func wrapHTTPError(httpErr *echo.HTTPError) *apperrors.Error {
	message := http.StatusText(httpErr.Code)
	if msg, ok := httpErr.Message.(string); ok && msg != "" {
		message = msg
	}

	switch httpErr.Code {
	case http.StatusBadRequest:
		return apperrors.Validation(message)
	case http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case http.StatusNotFound:
		return apperrors.NotFound(message)
	}
	if httpErr.Code < http.StatusInternalServerError {
		return &apperrors.Error{Type: apperrors.TypeValidation, Message: message, Status: httpErr.Code}
	}
	return apperrors.Internal(message, httpErr)
}

// describe keeps structured errors and wraps anything else as a 500 with a
// localized prefix.
func describe(err error, prefix string) error {
	var structured *apperrors.Error
	if errors.As(err, &structured) {
		return err
	}
	return apperrors.Internal(prefix+err.Error(), err)
}
