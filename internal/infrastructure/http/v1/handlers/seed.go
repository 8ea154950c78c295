package handlers

import (
	"github.com/gin-gonic/gin"

	"kardex/internal/core/id"
	"kardex/internal/core/types"
	"kardex/internal/domain/seed"
	"kardex/internal/infrastructure/http/v1/dto"
)

// SeedHandler handles HTTP requests for initial inventory.
type SeedHandler struct {
	*BaseHandler
	service *seed.Service
}

// NewSeedHandler creates an initial inventory handler.
func NewSeedHandler(base *BaseHandler, service *seed.Service) *SeedHandler {
	return &SeedHandler{BaseHandler: base, service: service}
}

// Create handles POST /seeds.
func (h *SeedHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSeedRequest
	if !h.BindJSON(c, &req) {
		return
	}

	articleID, err := id.Parse(req.ArticleID)
	if err != nil {
		h.Error(c, errInvalidID("articleId", req.ArticleID))
		return
	}
	warehouseID, err := id.Parse(req.WarehouseID)
	if err != nil {
		h.Error(c, errInvalidID("warehouseId", req.WarehouseID))
		return
	}

	s := &seed.Seed{
		ArticleID:   articleID,
		WarehouseID: warehouseID,
		Quantity:    types.Quantity(req.Quantity),
		UnitCost:    req.UnitCost,
	}
	if req.Date != nil {
		s.Date = *req.Date
	}

	seedID, err := h.service.Seed(ctx, s)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, seedID.String())
}

// Adjust handles PUT /seeds/:id.
func (h *SeedHandler) Adjust(c *gin.Context) {
	ctx := c.Request.Context()

	seedID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustSeedRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Adjust(ctx, seedID, types.Quantity(req.Quantity), req.UnitCost, req.Reason); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "seed adjusted")
}

// Delete handles DELETE /seeds/:id. Seeds are never deleted; this
// always reports the rule violation.
func (h *SeedHandler) Delete(c *gin.Context) {
	seedID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	h.Error(c, h.service.Delete(c.Request.Context(), seedID))
}

// Get handles GET /seeds/:id.
func (h *SeedHandler) Get(c *gin.Context) {
	seedID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	s, err := h.service.Get(c.Request.Context(), seedID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

// List handles GET /seeds.
func (h *SeedHandler) List(c *gin.Context) {
	warehouseID, ok := h.ParseIDQuery(c, "warehouseId")
	if !ok {
		return
	}

	filterID := id.Nil()
	if warehouseID != nil {
		filterID = *warehouseID
	}

	seeds, err := h.service.List(c.Request.Context(), filterID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: seeds, Count: len(seeds)})
}
