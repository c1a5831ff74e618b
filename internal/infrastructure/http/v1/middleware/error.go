package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/apperror"
	"backoffice/internal/infrastructure/http/v1/dto"
	"backoffice/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check for errors
		if len(c.Errors) == 0 {
			return
		}

		// Get last error
		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		// Try to extract AppError
		if appErr, ok := apperror.AsAppError(err); ok {
			// Log internal error if present
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
			return
		}

		// Unknown error - log and return generic message
		logger.Error(c.Request.Context(), "unhandled error",
			"error", err,
		)

		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    apperror.CodeInternal,
			Message: "Internal server error",
			Details: map[string]any{
				"request_id": c.GetString("request_id"),
			},
		})
	}
}
