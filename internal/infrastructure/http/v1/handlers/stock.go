package handlers

import (
	"github.com/gin-gonic/gin"

	"kardex/internal/core/apperror"
	"kardex/internal/domain/ledger/stock"
	"kardex/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock ledger.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a stock ledger handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// List handles GET /stock. With warehouseId it reports one warehouse,
// without it the whole ledger.
func (h *StockHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	warehouseID, ok := h.ParseIDQuery(c, "warehouseId")
	if !ok {
		return
	}

	var (
		rows []stock.StatusRow
		err  error
	)
	if warehouseID != nil {
		rows, err = h.service.GetWarehouseStock(ctx, *warehouseID)
	} else {
		rows, err = h.service.GetAllStock(ctx)
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: rows, Count: len(rows)})
}

// Low handles GET /stock/low.
func (h *StockHandler) Low(c *gin.Context) {
	rows, err := h.service.GetLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: rows, Count: len(rows)})
}

// Level handles GET /stock/level: the full row for one pair.
func (h *StockHandler) Level(c *gin.Context) {
	ctx := c.Request.Context()

	articleID, ok := h.ParseIDQuery(c, "articleId")
	if !ok {
		return
	}
	warehouseID, ok := h.ParseIDQuery(c, "warehouseId")
	if !ok {
		return
	}
	if articleID == nil || warehouseID == nil {
		h.Error(c, apperror.NewValidation("articleId and warehouseId are required"))
		return
	}

	level, err := h.service.GetLevel(ctx, *articleID, *warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, level)
}

// Availability handles GET /stock/availability: total on hand for an
// article across warehouses.
func (h *StockHandler) Availability(c *gin.Context) {
	ctx := c.Request.Context()

	articleID, ok := h.ParseIDQuery(c, "articleId")
	if !ok {
		return
	}
	if articleID == nil {
		h.Error(c, apperror.NewValidation("articleId is required"))
		return
	}

	total, err := h.service.GetArticleAvailability(ctx, *articleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"articleId": articleID.String(), "quantity": total.Int64()})
}
