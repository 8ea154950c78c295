package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kardex/internal/core/id"
	"kardex/internal/core/types"
	"kardex/internal/domain/catalogs/article"
	"kardex/internal/domain/catalogs/movetype"
	"kardex/internal/domain/movement"
	"kardex/internal/domain/posting"
	"kardex/internal/infrastructure/http/v1/dto"
)

// MovementHandler handles HTTP requests for movement documents.
type MovementHandler struct {
	*BaseHandler
	engine    *posting.Engine
	movements movement.Repository
	moveTypes movetype.Repository
	articles  article.Repository
}

// NewMovementHandler creates a movement handler.
func NewMovementHandler(
	base *BaseHandler,
	engine *posting.Engine,
	movements movement.Repository,
	moveTypes movetype.Repository,
	articles article.Repository,
) *MovementHandler {
	return &MovementHandler{
		BaseHandler: base,
		engine:      engine,
		movements:   movements,
		moveTypes:   moveTypes,
		articles:    articles,
	}
}

// Post handles POST /movements.
func (h *MovementHandler) Post(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PostMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warehouseID, err := id.Parse(req.WarehouseID)
	if err != nil {
		h.Error(c, errInvalidID("warehouseId", req.WarehouseID))
		return
	}

	mt, err := h.moveTypes.GetByCode(ctx, req.TypeCode)
	if err != nil {
		h.Error(c, err)
		return
	}

	draft := movement.NewDraft(warehouseID, mt).WithNote(req.Note)
	if req.SupplierID != nil {
		supplierID, err := id.Parse(*req.SupplierID)
		if err != nil {
			h.Error(c, errInvalidID("supplierId", *req.SupplierID))
			return
		}
		draft.WithSupplier(supplierID)
	}

	for _, line := range req.Lines {
		articleID, err := id.Parse(line.ArticleID)
		if err != nil {
			h.Error(c, errInvalidID("articleId", line.ArticleID))
			return
		}

		unitCost, unitPrice, err := h.resolveLineValues(c, articleID, line, mt.Direction)
		if err != nil {
			h.Error(c, err)
			return
		}

		if err := draft.AddLine(articleID, types.Quantity(line.Quantity), unitCost, unitPrice); err != nil {
			h.Error(c, err)
			return
		}
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	header, err := draft.Finalize(date, req.CreatedBy)
	if err != nil {
		h.Error(c, err)
		return
	}

	if _, err := h.engine.Post(ctx, header); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromMovement(header)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// resolveLineValues fills unit cost and price from the article's
// reference values when the request omits them. Exits are costed at the
// running average anyway; the line cost only matters for entries.
func (h *MovementHandler) resolveLineValues(c *gin.Context, articleID id.ID, line dto.MovementLineRequest, direction movetype.Direction) (types.Money, types.Money, error) {
	if line.UnitCost != nil && line.UnitPrice != nil {
		return *line.UnitCost, *line.UnitPrice, nil
	}

	a, err := h.articles.GetByID(c.Request.Context(), articleID)
	if err != nil {
		return types.ZeroMoney(), types.ZeroMoney(), err
	}

	unitCost := a.PurchaseCost
	if line.UnitCost != nil {
		unitCost = *line.UnitCost
	}
	unitPrice := a.SalePrice
	if line.UnitPrice != nil {
		unitPrice = *line.UnitPrice
	}
	return unitCost, unitPrice, nil
}

// Get handles GET /movements/:id.
func (h *MovementHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	movementID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	header, err := h.movements.GetByID(ctx, movementID)
	if err != nil {
		h.Error(c, err)
		return
	}
	lines, err := h.movements.GetLines(ctx, movementID)
	if err != nil {
		h.Error(c, err)
		return
	}
	header.Lines = lines

	h.OK(c, gin.H{
		"movement": dto.FromMovement(header),
		"lines":    lines,
	})
}

// List handles GET /movements.
func (h *MovementHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := movement.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	warehouseID, ok := h.ParseIDQuery(c, "warehouseId")
	if !ok {
		return
	}
	filter.WarehouseID = warehouseID

	if typeCode := c.Query("typeCode"); typeCode != "" {
		filter.TypeCode = &typeCode
	}
	if dir := c.Query("direction"); dir != "" {
		d := movetype.Direction(dir)
		if !d.IsValid() {
			h.Error(c, errInvalidID("direction", dir))
			return
		}
		filter.Direction = &d
	}

	headers, err := h.movements.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, len(headers))
	for i := range headers {
		items[i] = dto.FromMovement(&headers[i])
	}
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}
