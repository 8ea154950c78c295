// Package seed provides initial inventory seeding: the one-time
// starting balance for an (article, warehouse) pair, recorded before
// any ordinary movements exist.
package seed

import (
	"context"
	"time"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/types"
)

// Seed is the starting balance record for one pair. At most one seed
// exists per pair, and seeds are never deleted.
type Seed struct {
	ID     id.ID  `db:"id" json:"id"`
	Number string `db:"number" json:"number"`

	ArticleID   id.ID `db:"article_id" json:"articleId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`
	UnitCost types.Money    `db:"unit_cost" json:"unitCost"`

	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks seed invariants.
func (s *Seed) Validate(ctx context.Context) error {
	if id.IsNil(s.ArticleID) {
		return apperror.NewValidation("article is required").
			WithDetail("field", "articleId")
	}
	if id.IsNil(s.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if s.Quantity.IsNegative() {
		return apperror.NewValidation("quantity must not be negative").
			WithDetail("quantity", s.Quantity.Int64())
	}
	if s.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost must not be negative")
	}
	return nil
}
