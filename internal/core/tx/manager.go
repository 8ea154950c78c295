// Package tx defines the transaction boundary used by the posting engine.
// Domain services depend on this interface; the pgx-backed implementation
// lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs a function inside one atomic unit of work.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error the transaction is rolled back and no
	// partial writes survive; otherwise it is committed.
	//
	// Nested calls reuse the transaction already carried in ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
