package kardex

import (
	"context"
	"fmt"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
)

// Service provides read access to the journal. Appending is reserved to
// the posting engine and the seeder.
type Service struct {
	repo Repository
}

// NewService creates a new kardex query service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetArticleKardex returns the journal for one article, optionally
// narrowed to a warehouse and date range.
func (s *Service) GetArticleKardex(ctx context.Context, articleID id.ID, filter Filter) ([]Entry, error) {
	if id.IsNil(articleID) {
		return nil, apperror.NewValidation("article is required")
	}
	filter.ArticleID = &articleID

	entries, err := s.repo.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query kardex: %w", err)
	}
	return entries, nil
}

// GetWarehouseKardex returns the journal for one warehouse.
func (s *Service) GetWarehouseKardex(ctx context.Context, warehouseID id.ID, filter Filter) ([]Entry, error) {
	if id.IsNil(warehouseID) {
		return nil, apperror.NewValidation("warehouse is required")
	}
	filter.WarehouseID = &warehouseID

	entries, err := s.repo.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query kardex: %w", err)
	}
	return entries, nil
}

// Query returns journal entries for arbitrary filters.
func (s *Service) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	return s.repo.Query(ctx, filter)
}

// LatestBalance returns the current running triple for a pair.
func (s *Service) LatestBalance(ctx context.Context, articleID, warehouseID id.ID) (Balance, error) {
	return s.repo.LatestBalance(ctx, articleID, warehouseID)
}
