package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"backoffice/internal/core/apperror"
	"backoffice/internal/domain/serial"
	"backoffice/internal/infrastructure/http/v1/dto"
)

// SerialService is the part of serial.Service used by the handler.
type SerialService interface {
	Categories() []serial.Category
	Preview(ctx context.Context, category string, at time.Time) (serial.Hint, error)
	Reserve(ctx context.Context, category string, files int, at time.Time) (serial.Reservation, error)
}

// SerialHandler numbers documents over HTTP.
type SerialHandler struct {
	*BaseHandler
	service SerialService
	now     func() time.Time
}

// NewSerialHandler creates a new serial handler.
func NewSerialHandler(base *BaseHandler, service SerialService) *SerialHandler {
	return &SerialHandler{
		BaseHandler: base,
		service:     service,
		now:         time.Now,
	}
}

// RegisterRoutes registers serial endpoints on rg.
func (h *SerialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Categories)
	rg.GET("/:category/preview", h.Preview)
	rg.POST("/:category/reserve", h.Reserve)
}

// Categories lists document categories and their numbering.
// GET /api/v1/serials
func (h *SerialHandler) Categories(c *gin.Context) {
	cats := h.service.Categories()
	out := make([]dto.CategoryResponse, len(cats))
	for i, cat := range cats {
		out[i] = dto.FromCategory(cat)
	}
	h.OK(c, dto.NewListResponse(out))
}

// Preview shows the serial the next document would get. Nothing is reserved.
// GET /api/v1/serials/:category/preview?date=2026-10-18
func (h *SerialHandler) Preview(c *gin.Context) {
	at, ok := h.parseDate(c, c.Query("date"))
	if !ok {
		return
	}

	hint, err := h.service.Preview(c.Request.Context(), c.Param("category"), at)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromHint(hint))
}

// Reserve issues serials for a number of documents.
// POST /api/v1/serials/:category/reserve
func (h *SerialHandler) Reserve(c *gin.Context) {
	var req dto.ReserveSerialsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	at, ok := h.parseDate(c, req.Date)
	if !ok {
		return
	}

	res, err := h.service.Reserve(c.Request.Context(), c.Param("category"), req.Files, at)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromReservation(res))
}

// parseDate accepts YYYY-MM-DD or RFC 3339; empty means now.
func (h *SerialHandler) parseDate(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return h.now(), true
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	h.Error(c, apperror.NewValidation("invalid date").
		WithDetail("field", "date").
		WithDetail("value", raw))
	return time.Time{}, false
}
