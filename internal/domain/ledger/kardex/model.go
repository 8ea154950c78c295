// Package kardex provides the kardex journal: the append-only,
// chronologically ordered ledger of stock movements with running
// quantity and weighted-average cost balances.
package kardex

import (
	"time"

	"kardex/internal/core/id"
	"kardex/internal/core/types"
)

// Entry is one posted journal line. Entries are immutable: once written
// they are never updated, reordered or deleted. The canonical order is
// (Timestamp ascending, ID ascending); IDs are UUIDv7 assigned in
// insertion order, so same-timestamp entries keep insertion order.
type Entry struct {
	ID id.ID `db:"id" json:"id"`

	Timestamp   time.Time `db:"ts" json:"timestamp"`
	WarehouseID id.ID     `db:"warehouse_id" json:"warehouseId"`
	ArticleID   id.ID     `db:"article_id" json:"articleId"`

	// MovementType is the classification code of the recording movement.
	MovementType string `db:"movement_type" json:"movementType"`

	// DocumentRef identifies the recording document (movement number).
	DocumentRef string `db:"document_ref" json:"documentRef"`

	QuantityIn  types.Quantity `db:"quantity_in" json:"quantityIn"`
	CostIn      types.Money    `db:"cost_in" json:"costIn"`
	QuantityOut types.Quantity `db:"quantity_out" json:"quantityOut"`
	CostOut     types.Money    `db:"cost_out" json:"costOut"`

	// Running balance after this entry. The journal records whatever
	// the posting engine supplies; it does not recompute.
	RunningQuantity types.Quantity `db:"running_quantity" json:"runningQuantity"`
	RunningAvgCost  types.Money    `db:"running_avg_cost" json:"runningAvgCost"`
	RunningValue    types.Money    `db:"running_value" json:"runningValue"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Balance is the running triple of the most recent entry for a pair.
type Balance struct {
	Quantity types.Quantity `json:"quantity"`
	AvgCost  types.Money    `json:"avgCost"`
	Value    types.Money    `json:"value"`
}

// ZeroBalance is the balance of a pair with no journal history.
func ZeroBalance() Balance {
	return Balance{
		Quantity: 0,
		AvgCost:  types.ZeroMoney(),
		Value:    types.ZeroMoney(),
	}
}

// NewEntry builds a journal entry with a fresh insertion-ordered ID.
func NewEntry(ts time.Time, warehouseID, articleID id.ID, movementType, documentRef string) Entry {
	return Entry{
		ID:           id.New(),
		Timestamp:    ts,
		WarehouseID:  warehouseID,
		ArticleID:    articleID,
		MovementType: movementType,
		DocumentRef:  documentRef,
		CostIn:       types.ZeroMoney(),
		CostOut:      types.ZeroMoney(),
		CreatedAt:    time.Now().UTC(),
	}
}
