// Package posting provides the movement posting engine: the one
// component that records movements against the stock ledger and the
// kardex journal, as a single atomic unit.
package posting

import (
	"context"
	"fmt"
	"time"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/numerator"
	"kardex/internal/core/tx"
	"kardex/internal/domain/catalogs/movetype"
	"kardex/internal/domain/ledger/kardex"
	"kardex/internal/domain/ledger/stock"
	"kardex/internal/domain/movement"
	"kardex/pkg/logger"
)

// Engine posts movement documents. All stock ledger and kardex journal
// writes flow through here (or through the seeder, which reuses this
// engine for corrections).
type Engine struct {
	movements movement.Repository
	stock     *stock.Service
	kardex    kardex.Repository
	numbers   numerator.Generator
	txm       tx.Manager
}

// NewEngine creates a posting engine.
func NewEngine(
	movements movement.Repository,
	stockService *stock.Service,
	kardexRepo kardex.Repository,
	numbers numerator.Generator,
	txm tx.Manager,
) *Engine {
	return &Engine{
		movements: movements,
		stock:     stockService,
		kardex:    kardexRepo,
		numbers:   numbers,
		txm:       txm,
	}
}

// Post records one movement header with its lines as a single
// transaction: persist the document, validate stock sufficiency for
// exits, then per line advance the running balance, mutate the ledger
// and append the journal entry. Any failure rolls the whole post back;
// on success the ledger and the journal agree by construction.
func (e *Engine) Post(ctx context.Context, h *movement.Header) (id.ID, error) {
	if h == nil {
		return id.Nil(), apperror.NewValidation("movement header is required")
	}
	// Validate rejects an empty line list with EMPTY_MOVEMENT before
	// anything is touched.
	if err := h.Validate(ctx); err != nil {
		return id.Nil(), err
	}

	if id.IsNil(h.ID) {
		h.ID = id.New()
	}
	if h.Number == "" {
		number, err := e.numbers.GetNextNumber(ctx, numerator.DefaultConfig("MOV"), h.Date)
		if err != nil {
			return id.Nil(), fmt.Errorf("generate number: %w", err)
		}
		h.Number = number
	}
	h.PostedAt = time.Now().UTC()

	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := e.movements.Create(ctx, h); err != nil {
			return fmt.Errorf("create movement: %w", err)
		}
		if err := e.movements.SaveLines(ctx, h.ID, h.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		// Exits check every line against locked ledger rows before any
		// mutation, so a shortage on line K leaves lines 1..K-1 untouched
		// too (the transaction makes the rest of the guarantee).
		if h.Direction == movetype.DirectionExit {
			for _, line := range h.Lines {
				if err := e.stock.ReserveForExit(ctx, line.ArticleID, h.WarehouseID, line.Quantity); err != nil {
					return err
				}
			}
		}

		for _, line := range h.Lines {
			if err := e.postLine(ctx, h, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return id.Nil(), err
	}

	logger.Info(ctx, "movement posted",
		"movement_id", h.ID,
		"number", h.Number,
		"direction", h.Direction,
		"lines", len(h.Lines),
	)
	return h.ID, nil
}

// postLine advances one line: lock the pair's ledger row, read the
// latest journal balance, compute the next one, mutate the ledger,
// append the journal entry. The lock comes first for both directions:
// without it two concurrent entries could read the same balance and
// the second journal entry would carry a stale running triple.
func (e *Engine) postLine(ctx context.Context, h *movement.Header, line movement.Line) error {
	if err := e.stock.Lock(ctx, line.ArticleID, h.WarehouseID); err != nil {
		return err
	}

	prev, err := e.kardex.LatestBalance(ctx, line.ArticleID, h.WarehouseID)
	if err != nil {
		return fmt.Errorf("latest balance: %w", err)
	}

	next, costIn, costOut := Advance(prev, h.Direction, line.Quantity, line.UnitCost)

	delta := line.Quantity
	if h.Direction == movetype.DirectionExit {
		delta = delta.Neg()
	}
	if err := e.stock.ApplyDelta(ctx, line.ArticleID, h.WarehouseID, delta, next.AvgCost, next.Value); err != nil {
		return err
	}

	entry := kardex.NewEntry(h.Date, h.WarehouseID, line.ArticleID, h.TypeCode, h.Number)
	if h.Direction == movetype.DirectionEntry {
		entry.QuantityIn = line.Quantity
		entry.CostIn = costIn
	} else {
		entry.QuantityOut = line.Quantity
		entry.CostOut = costOut
	}
	entry.RunningQuantity = next.Quantity
	entry.RunningAvgCost = next.AvgCost
	entry.RunningValue = next.Value

	if err := e.kardex.Append(ctx, &entry); err != nil {
		return fmt.Errorf("append kardex: %w", err)
	}
	return nil
}
