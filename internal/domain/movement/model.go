// Package movement provides the stock movement document: a header with
// line items that the posting engine records against the stock ledger
// and the kardex journal.
package movement

import (
	"context"
	"time"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/types"
	"kardex/internal/domain/catalogs/movetype"
)

// Header is one business transaction against a warehouse.
// Immutable once posted; there is no update path.
type Header struct {
	ID     id.ID  `db:"id" json:"id"`
	Number string `db:"number" json:"number"`

	// Date is the business timestamp that orders kardex entries.
	Date time.Time `db:"date" json:"date"`

	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// TypeCode references the movement type catalog; Direction is the
	// resolved classification carried on the header so costing logic
	// never re-derives it per step.
	TypeCode  string             `db:"type_code" json:"typeCode"`
	Direction movetype.Direction `db:"direction" json:"direction"`

	// SupplierID is the optional counterparty on purchase entries.
	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	Note string `db:"note" json:"note,omitempty"`

	PostedAt  time.Time `db:"posted_at" json:"postedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one article position on a movement.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ArticleID id.ID `db:"article_id" json:"articleId"`

	// Quantity is a positive whole number of units.
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitCost is the cost basis for entries. Exits ignore it: they are
	// costed at the running average.
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// UnitPrice is the sale-side reference value. Informational only;
	// it never participates in the weighted-average calculation.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// Validate checks header invariants before posting.
func (h *Header) Validate(ctx context.Context) error {
	if id.IsNil(h.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if h.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if !h.Direction.IsValid() {
		return apperror.NewValidation("direction must be entry or exit").
			WithDetail("field", "direction")
	}
	if len(h.Lines) == 0 {
		return apperror.NewEmptyMovement()
	}

	for i, line := range h.Lines {
		if id.IsNil(line.ArticleID) {
			return apperror.NewValidation("article is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitCost.IsNegative() {
			return apperror.NewValidation("unit cost must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// TotalQuantity sums line quantities.
func (h *Header) TotalQuantity() types.Quantity {
	var total types.Quantity
	for _, line := range h.Lines {
		total += line.Quantity
	}
	return total
}
