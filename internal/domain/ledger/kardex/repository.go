package kardex

import (
	"context"
	"time"

	"kardex/internal/core/id"
)

// Repository defines persistence for the kardex journal.
type Repository interface {
	// Append inserts one immutable entry.
	Append(ctx context.Context, entry *Entry) error

	// LatestBalance returns the running triple of the entry with the
	// greatest (timestamp, id) for the pair; a zero balance when the
	// pair has no history.
	LatestBalance(ctx context.Context, articleID, warehouseID id.ID) (Balance, error)

	// Query returns entries matching the filter in canonical order
	// (timestamp ascending, id ascending).
	Query(ctx context.Context, filter Filter) ([]Entry, error)
}

// Filter narrows journal queries. Nil fields match everything.
type Filter struct {
	ArticleID   *id.ID
	WarehouseID *id.ID
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}
