package movetype

import (
	"context"
)

// Repository defines read access to the movement type catalog.
type Repository interface {
	// GetByCode returns a movement type by its code.
	GetByCode(ctx context.Context, code string) (MovementType, error)

	// List returns all movement types ordered by name.
	List(ctx context.Context) ([]MovementType, error)
}
