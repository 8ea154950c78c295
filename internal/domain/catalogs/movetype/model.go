// Package movetype provides the movement type classification catalog.
// Every movement belongs to a type, and the type decides whether the
// movement increases or decreases stock.
package movetype

import (
	"kardex/internal/core/id"
)

// Direction is the two-variant classification of a movement type.
type Direction string

const (
	// DirectionEntry increases stock (purchase, positive adjustment, opening).
	DirectionEntry Direction = "entry"
	// DirectionExit decreases stock (sale, negative adjustment).
	DirectionExit Direction = "exit"
)

// IsValid reports whether d is one of the two known directions.
func (d Direction) IsValid() bool {
	return d == DirectionEntry || d == DirectionExit
}

// Built-in movement type codes. ADJUSTMENT_IN/OUT are used by seed
// corrections, OPENING by initial inventory seeding.
const (
	CodePurchase      = "PURCHASE"
	CodeSale          = "SALE"
	CodeAdjustmentIn  = "ADJUSTMENT_IN"
	CodeAdjustmentOut = "ADJUSTMENT_OUT"
	CodeOpening       = "OPENING"
)

// MovementType classifies movements. Owned by master data; the engine
// only reads it to resolve a Direction.
type MovementType struct {
	ID        id.ID     `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Direction Direction `db:"direction" json:"direction"`
}
