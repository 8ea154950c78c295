// Package warehouse provides the warehouse catalog.
package warehouse

import (
	"context"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
)

// Warehouse is a stock location. The engine only references it as a key.
type Warehouse struct {
	ID   id.ID  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// Validate implements basic catalog invariants.
func (w *Warehouse) Validate(ctx context.Context) error {
	if w.Code == "" {
		return apperror.NewValidation("warehouse code is required").
			WithDetail("field", "code")
	}
	if w.Name == "" {
		return apperror.NewValidation("warehouse name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Repository defines read access to the warehouse catalog.
type Repository interface {
	// GetByID returns a warehouse or a NOT_FOUND error.
	GetByID(ctx context.Context, warehouseID id.ID) (Warehouse, error)

	// List returns warehouses ordered by name.
	List(ctx context.Context) ([]Warehouse, error)
}
