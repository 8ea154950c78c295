package movement

import (
	"context"
	"time"

	"kardex/internal/core/id"
	"kardex/internal/domain/catalogs/movetype"
)

// Repository defines persistence for movement documents.
// Headers and lines are written once, during posting, and never updated.
type Repository interface {
	// Create inserts the header (without lines).
	Create(ctx context.Context, h *Header) error

	// SaveLines inserts the lines of a header.
	SaveLines(ctx context.Context, headerID id.ID, lines []Line) error

	// GetByID returns a header or a NOT_FOUND error. Lines not loaded.
	GetByID(ctx context.Context, headerID id.ID) (*Header, error)

	// GetLines returns the lines of a header in line number order.
	GetLines(ctx context.Context, headerID id.ID) ([]Line, error)

	// List returns headers matching the filter, most recent first.
	List(ctx context.Context, filter ListFilter) ([]Header, error)
}

// ListFilter narrows movement listings.
type ListFilter struct {
	WarehouseID *id.ID
	Direction   *movetype.Direction
	TypeCode    *string
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}
