package stock

import (
	"context"
	"fmt"
	"time"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/types"
)

// Stock status thresholds against the article minimum.
const (
	StatusNormal   = "NORMAL"
	StatusLow      = "LOW"
	StatusCritical = "CRITICAL"
)

// Service provides ledger operations. All mutation goes through the
// posting engine or the seeder; no other component writes levels.
type Service struct {
	repo Repository
}

// NewService creates a new stock ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetQuantity returns quantity on hand; 0 when no row exists.
func (s *Service) GetQuantity(ctx context.Context, articleID, warehouseID id.ID) (types.Quantity, error) {
	level, err := s.repo.Get(ctx, articleID, warehouseID)
	if err != nil {
		return 0, fmt.Errorf("get level: %w", err)
	}
	return level.QuantityOnHand, nil
}

// GetLevel returns the full level row for the pair.
func (s *Service) GetLevel(ctx context.Context, articleID, warehouseID id.ID) (Level, error) {
	return s.repo.Get(ctx, articleID, warehouseID)
}

// Set overwrites the level row (upsert). Used by the seeder and by
// physical-count correction, never by ordinary posting.
func (s *Service) Set(ctx context.Context, level Level) error {
	if level.QuantityOnHand.IsNegative() {
		return apperror.NewValidation("quantity on hand must not be negative").
			WithDetail("quantity", level.QuantityOnHand.Int64())
	}
	level.UpdatedAt = time.Now().UTC()
	return s.repo.Upsert(ctx, level)
}

// Lock takes the pair's row lock, creating the row when absent. Must
// run inside a transaction; a post holds this lock across its whole
// read-balance-then-append sequence so concurrent posts for the same
// pair cannot interleave.
func (s *Service) Lock(ctx context.Context, articleID, warehouseID id.ID) error {
	if _, err := s.repo.GetForUpdate(ctx, articleID, warehouseID); err != nil {
		return fmt.Errorf("lock level: %w", err)
	}
	return nil
}

// ApplyDelta adjusts quantity on hand by a signed delta, carrying the
// supplied running average cost and value. Creates the row when absent.
// Fails with INSUFFICIENT_STOCK when the result would be negative,
// leaving the ledger unmodified.
//
// Must run inside a transaction: the ForUpdate read keeps concurrent
// posts for the same pair from interleaving.
func (s *Service) ApplyDelta(ctx context.Context, articleID, warehouseID id.ID, delta types.Quantity, avgCost, stockValue types.Money) error {
	level, err := s.repo.GetForUpdate(ctx, articleID, warehouseID)
	if err != nil {
		return fmt.Errorf("lock level: %w", err)
	}

	next := level.QuantityOnHand + delta
	if next.IsNegative() {
		return apperror.NewInsufficientStock(
			articleID.String(),
			delta.Neg().Int64(),
			level.QuantityOnHand.Int64(),
		)
	}

	return s.repo.Upsert(ctx, Level{
		ArticleID:      articleID,
		WarehouseID:    warehouseID,
		QuantityOnHand: next,
		AvgCost:        avgCost,
		StockValue:     stockValue,
		UpdatedAt:      time.Now().UTC(),
	})
}

// ReserveForExit validates availability for one exit line with a row
// lock. Must run inside the posting transaction; the lock is what keeps
// two posts for the same pair from interleaving their read-then-append.
// A pair with no ledger row has zero available stock.
func (s *Service) ReserveForExit(ctx context.Context, articleID, warehouseID id.ID, required types.Quantity) error {
	level, err := s.repo.GetForUpdate(ctx, articleID, warehouseID)
	if err != nil {
		return fmt.Errorf("lock level: %w", err)
	}

	if level.QuantityOnHand < required {
		return apperror.NewInsufficientStock(
			articleID.String(),
			required.Int64(),
			level.QuantityOnHand.Int64(),
		)
	}
	return nil
}

// GetWarehouseStock returns the status report for one warehouse.
func (s *Service) GetWarehouseStock(ctx context.Context, warehouseID id.ID) ([]StatusRow, error) {
	rows, err := s.repo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	classifyAll(rows)
	return rows, nil
}

// GetAllStock returns the status report across warehouses.
func (s *Service) GetAllStock(ctx context.Context) ([]StatusRow, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	classifyAll(rows)
	return rows, nil
}

// GetLowStock returns articles at or below their minimum.
func (s *Service) GetLowStock(ctx context.Context) ([]StatusRow, error) {
	rows, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	classifyAll(rows)
	return rows, nil
}

// GetArticleAvailability sums quantity on hand across warehouses.
func (s *Service) GetArticleAvailability(ctx context.Context, articleID id.ID) (types.Quantity, error) {
	return s.repo.TotalByArticle(ctx, articleID)
}

func classifyAll(rows []StatusRow) {
	for i := range rows {
		rows[i].Status = Classify(rows[i].QuantityOnHand, rows[i].MinStock)
	}
}

// Classify grades quantity on hand against the article minimum:
// CRITICAL at or below the minimum, LOW within 1.5x of it.
func Classify(onHand, minStock types.Quantity) string {
	switch {
	case onHand <= minStock:
		return StatusCritical
	case onHand.Int64()*2 <= minStock.Int64()*3:
		return StatusLow
	default:
		return StatusNormal
	}
}
