// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/apperror"
	"backoffice/internal/infrastructure/http/v1/dto"
	"backoffice/pkg/logger"
)

// Recovery middleware recovers from panics and returns 500 error.
// Logs stack trace but never exposes internal details to client.
// It runs outside ErrorHandler, so it writes the response itself.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Log full stack trace
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", err)))
				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:    apperror.CodeInternal,
					Message: "Internal server error",
					Details: map[string]any{"request_id": c.GetString("request_id")},
				})
			}
		}()
		c.Next()
	}
}
