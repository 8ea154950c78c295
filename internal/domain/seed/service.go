package seed

import (
	"context"
	"fmt"
	"time"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/numerator"
	"kardex/internal/core/tx"
	"kardex/internal/core/types"
	"kardex/internal/domain/catalogs/movetype"
	"kardex/internal/domain/ledger/kardex"
	"kardex/internal/domain/ledger/stock"
	"kardex/internal/domain/movement"
	"kardex/internal/domain/posting"
	"kardex/pkg/logger"
)

// Service records initial inventory: the starting balance for an
// (article, warehouse) pair, posted once before ordinary movements.
// Later corrections go through the posting engine as adjustment
// movements, so the journal keeps the full history.
type Service struct {
	repo      Repository
	stock     *stock.Service
	kardex    kardex.Repository
	moveTypes movetype.Repository
	engine    *posting.Engine
	numbers   numerator.Generator
	txm       tx.Manager
}

// NewService creates an initial inventory service.
func NewService(
	repo Repository,
	stockService *stock.Service,
	kardexRepo kardex.Repository,
	moveTypes movetype.Repository,
	engine *posting.Engine,
	numbers numerator.Generator,
	txm tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stockService,
		kardex:    kardexRepo,
		moveTypes: moveTypes,
		engine:    engine,
		numbers:   numbers,
		txm:       txm,
	}
}

// Seed records the starting balance for a pair. The seed row, the
// ledger level and an OPENING journal entry are written in one
// transaction, so the journal replays to the same balance the ledger
// reports from the first moment. A pair can be seeded at most once;
// repeats fail with ALREADY_SEEDED regardless of values.
func (s *Service) Seed(ctx context.Context, seed *Seed) (id.ID, error) {
	if seed == nil {
		return id.Nil(), apperror.NewValidation("seed is required")
	}
	if err := seed.Validate(ctx); err != nil {
		return id.Nil(), err
	}

	exists, err := s.repo.ExistsForPair(ctx, seed.ArticleID, seed.WarehouseID)
	if err != nil {
		return id.Nil(), fmt.Errorf("check existing seed: %w", err)
	}
	if exists {
		return id.Nil(), apperror.NewAlreadySeeded(
			seed.ArticleID.String(),
			seed.WarehouseID.String(),
		)
	}

	if id.IsNil(seed.ID) {
		seed.ID = id.New()
	}
	if seed.Date.IsZero() {
		seed.Date = time.Now().UTC()
	}
	if seed.Number == "" {
		number, err := s.numbers.GetNextNumber(ctx, numerator.DefaultConfig("SEED"), seed.Date)
		if err != nil {
			return id.Nil(), fmt.Errorf("generate number: %w", err)
		}
		seed.Number = number
	}
	now := time.Now().UTC()
	seed.CreatedAt = now
	seed.UpdatedAt = now

	unitCost := types.RoundAvgCost(seed.UnitCost)
	value := types.RoundMoney(seed.Quantity.Decimal().Mul(unitCost))

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, seed); err != nil {
			return fmt.Errorf("create seed: %w", err)
		}

		if err := s.stock.Set(ctx, stock.Level{
			ArticleID:      seed.ArticleID,
			WarehouseID:    seed.WarehouseID,
			QuantityOnHand: seed.Quantity,
			AvgCost:        unitCost,
			StockValue:     value,
		}); err != nil {
			return fmt.Errorf("set level: %w", err)
		}

		entry := kardex.NewEntry(seed.Date, seed.WarehouseID, seed.ArticleID, movetype.CodeOpening, seed.Number)
		entry.QuantityIn = seed.Quantity
		entry.CostIn = unitCost
		entry.RunningQuantity = seed.Quantity
		entry.RunningAvgCost = unitCost
		entry.RunningValue = value
		if err := s.kardex.Append(ctx, &entry); err != nil {
			return fmt.Errorf("append opening entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return id.Nil(), err
	}

	logger.Info(ctx, "initial inventory seeded",
		"seed_id", seed.ID,
		"article_id", seed.ArticleID,
		"warehouse_id", seed.WarehouseID,
		"quantity", seed.Quantity.Int64(),
	)
	return seed.ID, nil
}

// Adjust corrects a seeded balance. A quantity change posts an
// adjustment movement through the engine, so the ledger and the journal
// record the correction as history instead of rewriting the opening. A
// cost-only change updates the seed record alone; the running average
// already absorbed the original cost and later movements may have moved
// it since. When both change at once, the entering or leaving units are
// costed at the cost recorded before the change; the new cost corrects
// the record, not the ledger.
func (s *Service) Adjust(ctx context.Context, seedID id.ID, newQuantity types.Quantity, newUnitCost types.Money, reason string) error {
	if newQuantity.IsNegative() {
		return apperror.NewValidation("quantity must not be negative").
			WithDetail("quantity", newQuantity.Int64())
	}
	if newUnitCost.IsNegative() {
		return apperror.NewValidation("unit cost must not be negative")
	}

	seed, err := s.repo.GetByID(ctx, seedID)
	if err != nil {
		return fmt.Errorf("get seed: %w", err)
	}

	delta := newQuantity - seed.Quantity
	costChanged := !newUnitCost.Equal(seed.UnitCost)
	if delta.IsZero() && !costChanged {
		return apperror.NewValidation("no changes to apply")
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if !delta.IsZero() {
			code := movetype.CodeAdjustmentIn
			if delta.IsNegative() {
				code = movetype.CodeAdjustmentOut
			}
			mt, err := s.moveTypes.GetByCode(ctx, code)
			if err != nil {
				return fmt.Errorf("resolve movement type %s: %w", code, err)
			}

			draft := movement.NewDraft(seed.WarehouseID, mt).WithNote(reason)
			if err := draft.AddLine(seed.ArticleID, delta.Abs(), seed.UnitCost, types.ZeroMoney()); err != nil {
				return err
			}
			header, err := draft.Finalize(time.Now().UTC(), "seed-adjustment")
			if err != nil {
				return err
			}
			if _, err := s.engine.Post(ctx, header); err != nil {
				return err
			}
		}

		seed.Quantity = newQuantity
		seed.UnitCost = newUnitCost
		seed.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, seed); err != nil {
			return fmt.Errorf("update seed: %w", err)
		}

		logger.Info(ctx, "seed adjusted",
			"seed_id", seed.ID,
			"quantity_delta", delta.Int64(),
			"cost_changed", costChanged,
		)
		return nil
	})
}

// Delete always refuses. Seeds anchor the journal's opening entries;
// removing one would orphan the history that replays from it.
func (s *Service) Delete(ctx context.Context, seedID id.ID) error {
	return apperror.NewSeedDeletionForbidden(seedID.String())
}

// Get returns one seed record.
func (s *Service) Get(ctx context.Context, seedID id.ID) (*Seed, error) {
	return s.repo.GetByID(ctx, seedID)
}

// List returns seed records, optionally filtered by warehouse.
func (s *Service) List(ctx context.Context, warehouseID id.ID) ([]Seed, error) {
	return s.repo.List(ctx, warehouseID)
}
