package article

import (
	"context"

	"kardex/internal/core/id"
)

// Repository defines read access to the article catalog.
type Repository interface {
	// GetByID returns an article or a NOT_FOUND error.
	GetByID(ctx context.Context, articleID id.ID) (Article, error)

	// List returns articles ordered by name.
	List(ctx context.Context) ([]Article, error)
}
