package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"kardex/internal/core/apperror"
	"kardex/internal/domain/ledger/kardex"
	"kardex/internal/infrastructure/http/v1/dto"
)

// KardexHandler handles HTTP requests for the kardex journal.
type KardexHandler struct {
	*BaseHandler
	service *kardex.Service
}

// NewKardexHandler creates a kardex handler.
func NewKardexHandler(base *BaseHandler, service *kardex.Service) *KardexHandler {
	return &KardexHandler{BaseHandler: base, service: service}
}

// Query handles GET /kardex.
func (h *KardexHandler) Query(c *gin.Context) {
	ctx := c.Request.Context()

	filter := kardex.Filter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	articleID, ok := h.ParseIDQuery(c, "articleId")
	if !ok {
		return
	}
	filter.ArticleID = articleID

	warehouseID, ok := h.ParseIDQuery(c, "warehouseId")
	if !ok {
		return
	}
	filter.WarehouseID = warehouseID

	from, ok := h.parseTimeQuery(c, "from")
	if !ok {
		return
	}
	filter.DateFrom = from

	to, ok := h.parseTimeQuery(c, "to")
	if !ok {
		return
	}
	filter.DateTo = to

	entries, err := h.service.Query(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: entries, Count: len(entries)})
}

// Balance handles GET /kardex/balance.
func (h *KardexHandler) Balance(c *gin.Context) {
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

	balance, err := h.service.LatestBalance(ctx, *articleID, *warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, balance)
}

func (h *KardexHandler) parseTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		// Date-only form is accepted too.
		t, err = time.Parse("2006-01-02", val)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid "+key).WithDetail(key, val))
			return nil, false
		}
	}
	return &t, true
}
