package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/id"
	"kardex/internal/core/types"
	"kardex/internal/domain/ledger/kardex"
	"kardex/internal/infrastructure/storage/postgres"
)

const kardexTable = "ledger_kardex_entries"

var kardexColumns = []string{
	"id", "ts", "warehouse_id", "article_id",
	"movement_type", "document_ref",
	"quantity_in", "cost_in", "quantity_out", "cost_out",
	"running_quantity", "running_avg_cost", "running_value",
	"created_at",
}

// KardexRepo implements kardex.Repository. Entries are insert-only;
// there is no update or delete path here at all.
type KardexRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewKardexRepo creates a kardex journal repository.
func NewKardexRepo(txm *postgres.TxManager) *KardexRepo {
	return &KardexRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts one journal entry.
func (r *KardexRepo) Append(ctx context.Context, entry *kardex.Entry) error {
	q := r.builder.Insert(kardexTable).
		Columns(kardexColumns...).
		Values(
			entry.ID, entry.Timestamp, entry.WarehouseID, entry.ArticleID,
			entry.MovementType, entry.DocumentRef,
			entry.QuantityIn, entry.CostIn, entry.QuantityOut, entry.CostOut,
			entry.RunningQuantity, entry.RunningAvgCost, entry.RunningValue,
			entry.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// LatestBalance returns the running triple of the last entry for the
// pair in canonical order, or a zero balance when there is none.
func (r *KardexRepo) LatestBalance(ctx context.Context, articleID, warehouseID id.ID) (kardex.Balance, error) {
	sql := `
		SELECT running_quantity, running_avg_cost, running_value
		FROM ledger_kardex_entries
		WHERE article_id = $1 AND warehouse_id = $2
		ORDER BY ts DESC, id DESC
		LIMIT 1
	`

	var row struct {
		RunningQuantity types.Quantity `db:"running_quantity"`
		RunningAvgCost  types.Money    `db:"running_avg_cost"`
		RunningValue    types.Money    `db:"running_value"`
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, articleID, warehouseID); err != nil {
		if pgxscan.NotFound(err) {
			return kardex.ZeroBalance(), nil
		}
		return kardex.Balance{}, fmt.Errorf("latest balance: %w", err)
	}

	return kardex.Balance{
		Quantity: row.RunningQuantity,
		AvgCost:  row.RunningAvgCost,
		Value:    row.RunningValue,
	}, nil
}

// Query returns entries matching the filter in canonical order.
func (r *KardexRepo) Query(ctx context.Context, filter kardex.Filter) ([]kardex.Entry, error) {
	sql, args, err := r.buildQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []kardex.Entry
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	return entries, nil
}

// buildQuery assembles the filtered select. The ORDER BY is the
// journal's canonical order; the UUIDv7 id breaks same-timestamp ties
// in insertion order.
func (r *KardexRepo) buildQuery(filter kardex.Filter) (string, []any, error) {
	q := r.builder.Select(kardexColumns...).
		From(kardexTable).
		OrderBy("ts ASC", "id ASC")

	if filter.ArticleID != nil {
		q = q.Where(squirrel.Eq{"article_id": *filter.ArticleID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"ts": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"ts": *filter.DateTo})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	return q.ToSql()
}
