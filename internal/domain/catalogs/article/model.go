// Package article provides the article catalog.
// Master data management owns articles; the engine reads purchase cost and
// sale price as defaults when a caller omits explicit values.
package article

import (
	"context"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/types"
)

// Article is a stocked item.
type Article struct {
	ID   id.ID  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`

	// PurchaseCost is the reference unit cost used when an entry
	// movement does not supply one.
	PurchaseCost types.Money `db:"purchase_cost" json:"purchaseCost"`

	// SalePrice is the reference sale price for exit movements.
	SalePrice types.Money `db:"sale_price" json:"salePrice"`

	// MinStock is the reorder threshold used by the stock status report.
	MinStock types.Quantity `db:"min_stock" json:"minStock"`
}

// Validate implements basic catalog invariants.
func (a *Article) Validate(ctx context.Context) error {
	if a.Code == "" {
		return apperror.NewValidation("article code is required").
			WithDetail("field", "code")
	}
	if a.Name == "" {
		return apperror.NewValidation("article name is required").
			WithDetail("field", "name")
	}
	if a.PurchaseCost.IsNegative() || a.SalePrice.IsNegative() {
		return apperror.NewValidation("article prices must not be negative")
	}
	return nil
}
