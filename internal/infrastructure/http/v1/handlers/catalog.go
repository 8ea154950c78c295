package handlers

import (
	"github.com/gin-gonic/gin"

	"kardex/internal/domain/catalogs/article"
	"kardex/internal/domain/catalogs/movetype"
	"kardex/internal/domain/catalogs/warehouse"
	"kardex/internal/infrastructure/http/v1/dto"
)

// CatalogHandler serves catalog lookups: articles, warehouses and
// movement types.
type CatalogHandler struct {
	*BaseHandler
	articles   article.Repository
	warehouses warehouse.Repository
	moveTypes  movetype.Repository
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(
	base *BaseHandler,
	articles article.Repository,
	warehouses warehouse.Repository,
	moveTypes movetype.Repository,
) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: base,
		articles:    articles,
		warehouses:  warehouses,
		moveTypes:   moveTypes,
	}
}

// ListArticles handles GET /articles.
func (h *CatalogHandler) ListArticles(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: articles, Count: len(articles)})
}

// GetArticle handles GET /articles/:id.
func (h *CatalogHandler) GetArticle(c *gin.Context) {
	articleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.articles.GetByID(c.Request.Context(), articleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}

// ListWarehouses handles GET /warehouses.
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.warehouses.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: warehouses, Count: len(warehouses)})
}

// ListMovementTypes handles GET /movement-types.
func (h *CatalogHandler) ListMovementTypes(c *gin.Context) {
	moveTypes, err := h.moveTypes.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: moveTypes, Count: len(moveTypes)})
}
