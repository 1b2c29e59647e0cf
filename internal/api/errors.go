// Package api provides error handling utilities for HTTP APIs.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinelog/cinelog/internal/logger"
	"github.com/cinelog/cinelog/internal/types"
)

// ErrorResponse represents the standard error response format.
type ErrorResponse struct {
	Error   ErrorDetails `json:"error"`
	Success bool         `json:"success"`
}

// ErrorDetails contains detailed error information.
type ErrorDetails struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondWithError sends a structured error response.
func RespondWithError(c *gin.Context, err error) {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		logAppError(c, appErr)
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			Success: false,
			Error: ErrorDetails{
				Code:    string(appErr.Code),
				Message: appErr.Message,
				Details: appErr.Details,
				Fields:  appErr.Fields,
			},
		})
		return
	}

	logger.Error("unstructured error",
		logger.Err(err),
		logger.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error: ErrorDetails{
			Code:    string(types.ErrorCodeInternal),
			Message: err.Error(),
		},
	})
}

// RespondWithValidationError sends a validation error response.
func RespondWithValidationError(c *gin.Context, message string, details ...string) {
	RespondWithError(c, types.NewValidationError(message, details...))
}

// RespondWithNotFound sends a not found error response.
func RespondWithNotFound(c *gin.Context, resource string, id string) {
	RespondWithError(c, types.NewNotFoundError(resource, id))
}

// RespondWithForbidden sends a permission-denied error response.
func RespondWithForbidden(c *gin.Context, message string) {
	RespondWithError(c, types.NewForbiddenError(message))
}

// RespondWithInternalError sends an internal error response.
func RespondWithInternalError(c *gin.Context, message string, cause error) {
	RespondWithError(c, types.NewInternalError(message, cause))
}

func logAppError(c *gin.Context, err *types.AppError) {
	fields := []logger.Field{
		logger.String("error_code", string(err.Code)),
		logger.String("error_message", err.Message),
		logger.String("path", c.Request.URL.Path),
	}
	if err.Details != "" {
		fields = append(fields, logger.String("details", err.Details))
	}
	if err.Cause != nil {
		fields = append(fields, logger.String("cause", err.Cause.Error()))
	}

	switch err.Severity {
	case types.SeverityCritical:
		logger.Error("critical error", fields...)
	case types.SeverityWarning:
		logger.Warn("request rejected", fields...)
	case types.SeverityInfo:
		logger.Info("request note", fields...)
	default:
		logger.Error("error occurred", fields...)
	}
}

// ErrorMiddleware recovers from panics and converts them into structured
// 500 responses.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var err error
				switch v := r.(type) {
				case error:
					err = v
				case string:
					err = errors.New(v)
				default:
					err = errors.New("unknown panic")
				}

				logger.Error("panic recovered",
					logger.Err(err),
					logger.String("request_path", c.Request.URL.Path),
					logger.String("request_method", c.Request.Method),
				)

				RespondWithError(c, types.NewInternalError("panic recovered", err))
				c.Abort()
			}
		}()

		c.Next()
	}
}
