package seed

import (
	"context"

	"kardex/internal/core/id"
)

// Repository persists seed records.
type Repository interface {
	Create(ctx context.Context, s *Seed) error
	Update(ctx context.Context, s *Seed) error
	GetByID(ctx context.Context, seedID id.ID) (*Seed, error)
	// GetByPair returns the seed for an (article, warehouse) pair,
	// or a NOT_FOUND error when the pair has never been seeded.
	GetByPair(ctx context.Context, articleID, warehouseID id.ID) (*Seed, error)
	ExistsForPair(ctx context.Context, articleID, warehouseID id.ID) (bool, error)
	List(ctx context.Context, warehouseID id.ID) ([]Seed, error)
}
