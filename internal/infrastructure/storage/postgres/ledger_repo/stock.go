// Package ledger_repo provides PostgreSQL implementations for the
// stock ledger and kardex journal repositories.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/id"
	"kardex/internal/core/types"
	"kardex/internal/domain/ledger/stock"
	"kardex/internal/infrastructure/storage/postgres"
)

const (
	stockLevelsTable = "ledger_stock_levels"
	articlesTable    = "cat_articles"
	warehousesTable  = "cat_warehouses"
)

var statusColumns = []string{
	"l.article_id",
	"a.code AS article_code",
	"a.name AS article_name",
	"l.warehouse_id",
	"w.name AS warehouse_name",
	"l.quantity_on_hand",
	"a.min_stock",
}

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a stock ledger repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get returns the level for the pair, or a zero level when absent.
func (r *StockRepo) Get(ctx context.Context, articleID, warehouseID id.ID) (stock.Level, error) {
	q := r.builder.Select(
		"article_id", "warehouse_id",
		"quantity_on_hand", "avg_cost", "stock_value", "updated_at",
	).From(stockLevelsTable).
		Where(squirrel.Eq{
			"article_id":   articleID,
			"warehouse_id": warehouseID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return stock.Level{}, fmt.Errorf("build query: %w", err)
	}

	var level stock.Level
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &level, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return emptyLevel(articleID, warehouseID), nil
		}
		return stock.Level{}, fmt.Errorf("get level: %w", err)
	}
	return level, nil
}

// GetForUpdate returns the level with a row lock. A pair with no row
// yet gets a zero row inserted first: SELECT FOR UPDATE on an absent
// row locks nothing, and two first-ever posts for the pair would both
// proceed.
func (r *StockRepo) GetForUpdate(ctx context.Context, articleID, warehouseID id.ID) (stock.Level, error) {
	insert := `
		INSERT INTO ledger_stock_levels
			(article_id, warehouse_id, quantity_on_hand, avg_cost, stock_value, updated_at)
		VALUES ($1, $2, 0, 0, 0, NOW())
		ON CONFLICT (article_id, warehouse_id) DO NOTHING
	`

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, insert, articleID, warehouseID); err != nil {
		return stock.Level{}, fmt.Errorf("ensure level row: %w", err)
	}

	sql := `
		SELECT article_id, warehouse_id, quantity_on_hand, avg_cost, stock_value, updated_at
		FROM ledger_stock_levels
		WHERE article_id = $1 AND warehouse_id = $2
		FOR UPDATE
	`

	var level stock.Level
	if err := pgxscan.Get(ctx, querier, &level, sql, articleID, warehouseID); err != nil {
		return stock.Level{}, fmt.Errorf("get level for update: %w", err)
	}
	return level, nil
}

// Upsert creates or overwrites the level row.
func (r *StockRepo) Upsert(ctx context.Context, level stock.Level) error {
	sql := `
		INSERT INTO ledger_stock_levels
			(article_id, warehouse_id, quantity_on_hand, avg_cost, stock_value, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (article_id, warehouse_id) DO UPDATE SET
			quantity_on_hand = EXCLUDED.quantity_on_hand,
			avg_cost = EXCLUDED.avg_cost,
			stock_value = EXCLUDED.stock_value,
			updated_at = EXCLUDED.updated_at
	`

	querier := r.txm.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		level.ArticleID, level.WarehouseID,
		level.QuantityOnHand, level.AvgCost, level.StockValue,
		level.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert level: %w", err)
	}
	return nil
}

// ListByWarehouse returns status rows for one warehouse.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]stock.StatusRow, error) {
	q := r.statusQuery().
		Where(squirrel.Eq{"l.warehouse_id": warehouseID}).
		OrderBy("a.name")

	return r.selectStatus(ctx, q)
}

// ListAll returns status rows across warehouses.
func (r *StockRepo) ListAll(ctx context.Context) ([]stock.StatusRow, error) {
	q := r.statusQuery().OrderBy("a.name", "w.name")
	return r.selectStatus(ctx, q)
}

// ListLowStock returns rows at or below the article minimum, largest
// shortfall first.
func (r *StockRepo) ListLowStock(ctx context.Context) ([]stock.StatusRow, error) {
	q := r.statusQuery().
		Where("l.quantity_on_hand <= a.min_stock").
		OrderBy("a.min_stock - l.quantity_on_hand DESC", "a.name")

	return r.selectStatus(ctx, q)
}

// TotalByArticle sums quantity on hand across warehouses.
func (r *StockRepo) TotalByArticle(ctx context.Context, articleID id.ID) (types.Quantity, error) {
	sql := `
		SELECT COALESCE(SUM(quantity_on_hand), 0)
		FROM ledger_stock_levels
		WHERE article_id = $1
	`

	var total int64
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, articleID).Scan(&total); err != nil {
		return 0, fmt.Errorf("total by article: %w", err)
	}
	return types.Quantity(total), nil
}

func (r *StockRepo) statusQuery() squirrel.SelectBuilder {
	return r.builder.Select(statusColumns...).
		From(stockLevelsTable + " l").
		Join(articlesTable + " a ON a.id = l.article_id").
		Join(warehousesTable + " w ON w.id = l.warehouse_id")
}

func (r *StockRepo) selectStatus(ctx context.Context, q squirrel.SelectBuilder) ([]stock.StatusRow, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []stock.StatusRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select status rows: %w", err)
	}
	return rows, nil
}

func emptyLevel(articleID, warehouseID id.ID) stock.Level {
	return stock.Level{
		ArticleID:   articleID,
		WarehouseID: warehouseID,
		AvgCost:     types.ZeroMoney(),
		StockValue:  types.ZeroMoney(),
	}
}
