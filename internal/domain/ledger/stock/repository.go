// Package stock provides the stock ledger: the per-(article, warehouse)
// cache of quantity on hand, running average cost and stock value.
// The kardex journal stays the authoritative history; this ledger is the
// O(1) current balance kept in step with it inside the same transaction.
package stock

import (
	"context"
	"time"

	"kardex/internal/core/id"
	"kardex/internal/core/types"
)

// Level is the current balance row for one article in one warehouse.
type Level struct {
	ArticleID   id.ID `db:"article_id" json:"articleId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	QuantityOnHand types.Quantity `db:"quantity_on_hand" json:"quantityOnHand"`
	AvgCost        types.Money    `db:"avg_cost" json:"avgCost"`
	StockValue     types.Money    `db:"stock_value" json:"stockValue"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// StatusRow is one line of the stock status report: a level joined with
// article master data.
type StatusRow struct {
	ArticleID     id.ID          `db:"article_id" json:"articleId"`
	ArticleCode   string         `db:"article_code" json:"articleCode"`
	ArticleName   string         `db:"article_name" json:"articleName"`
	WarehouseID   id.ID          `db:"warehouse_id" json:"warehouseId"`
	WarehouseName string         `db:"warehouse_name" json:"warehouseName"`

	QuantityOnHand types.Quantity `db:"quantity_on_hand" json:"quantityOnHand"`
	MinStock       types.Quantity `db:"min_stock" json:"minStock"`

	Status string `db:"-" json:"status"`
}

// Repository defines persistence for the stock ledger.
type Repository interface {
	// Get returns the level for the pair; a zero-quantity Level when no
	// row exists (absence is never an error).
	Get(ctx context.Context, articleID, warehouseID id.ID) (Level, error)

	// GetForUpdate is Get with a row lock, creating a zero row when the
	// pair has none so the lock always holds. Inside a transaction this
	// serializes posts that touch the same (article, warehouse) pair.
	GetForUpdate(ctx context.Context, articleID, warehouseID id.ID) (Level, error)

	// Upsert creates or overwrites the level row.
	Upsert(ctx context.Context, level Level) error

	// ListByWarehouse returns status rows for a warehouse, article name order.
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]StatusRow, error)

	// ListAll returns status rows across all warehouses.
	ListAll(ctx context.Context) ([]StatusRow, error)

	// ListLowStock returns rows at or below the article minimum,
	// largest shortfall first.
	ListLowStock(ctx context.Context) ([]StatusRow, error)

	// TotalByArticle sums quantity on hand across warehouses.
	TotalByArticle(ctx context.Context, articleID id.ID) (types.Quantity, error)
}
