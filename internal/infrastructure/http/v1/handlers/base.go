package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/apperror"
	"backoffice/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error processes error and sends appropriate response.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	h.HandleError(c, err)
}

// HandleError registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}
