package handlers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/core/sequence"
	"backoffice/internal/infrastructure/http/v1/dto"
)

// SequenceHandler exposes the allocator over HTTP.
type SequenceHandler struct {
	*BaseHandler
	allocator sequence.Allocator
	lister    sequence.Lister
}

// NewSequenceHandler creates a new sequence handler. lister may be nil, in
// which case listing is not routed.
func NewSequenceHandler(base *BaseHandler, allocator sequence.Allocator, lister sequence.Lister) *SequenceHandler {
	return &SequenceHandler{
		BaseHandler: base,
		allocator:   allocator,
		lister:      lister,
	}
}

// RegisterRoutes registers sequence endpoints on rg.
func (h *SequenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	if h.lister != nil {
		rg.GET("", h.List)
	}
	rg.GET("/:name/preview", h.Preview)
	rg.POST("/:name/next", h.Next)
	rg.POST("/:name/batch", h.Batch)
}

// List returns stored counters.
// GET /api/v1/sequences?prefix=INV
func (h *SequenceHandler) List(c *gin.Context) {
	var filter dto.SequenceFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	counters, err := h.lister.ListCounters(c.Request.Context(), filter.Prefix)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromCounters(counters)))
}

// Preview returns the value the next allocation would currently yield.
// Nothing is reserved.
// GET /api/v1/sequences/:name/preview
func (h *SequenceHandler) Preview(c *gin.Context) {
	p, err := h.allocator.PreviewNext(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPreview(p))
}

// Next reserves one value.
// POST /api/v1/sequences/:name/next
func (h *SequenceHandler) Next(c *gin.Context) {
	name := c.Param("name")

	value, err := h.allocator.AllocateNext(c.Request.Context(), name)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.AllocateResponse{Name: name, Value: value})
}

// Batch reserves a contiguous block of values.
// POST /api/v1/sequences/:name/batch
func (h *SequenceHandler) Batch(c *gin.Context) {
	var req dto.AllocateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rng, err := h.allocator.AllocateBatch(c.Request.Context(), c.Param("name"), req.Count)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromRange(rng))
}
