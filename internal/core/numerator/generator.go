// Package numerator provides domain contracts for movement auto-numbering.
// Implementations live in the infrastructure layer.
package numerator

import (
	"context"
	"time"
)

// Generator generates sequential movement numbers.
type Generator interface {
	// GetNextNumber generates the next document number.
	// Pattern: PREFIX-YEAR-XXXXX (e.g., MOV-2026-00001)
	GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)
}
