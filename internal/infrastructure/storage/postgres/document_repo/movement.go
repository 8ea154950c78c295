// Package document_repo provides PostgreSQL implementations for
// movement document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain/movement"
	"kardex/internal/infrastructure/storage/postgres"
)

const (
	movementsTable     = "doc_movements"
	movementLinesTable = "doc_movement_lines"
)

var movementColumns = []string{
	"id", "number", "date", "warehouse_id",
	"type_code", "direction", "supplier_id", "note",
	"posted_at", "created_by",
}

// MovementRepo implements movement.Repository. Documents are written
// once during posting; there is no update path.
type MovementRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewMovementRepo creates a movement document repository.
func NewMovementRepo(txm *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the header.
func (r *MovementRepo) Create(ctx context.Context, h *movement.Header) error {
	q := r.builder.Insert(movementsTable).
		Columns(movementColumns...).
		Values(
			h.ID, h.Number, h.Date, h.WarehouseID,
			h.TypeCode, h.Direction, h.SupplierID, h.Note,
			h.PostedAt, h.CreatedBy,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// SaveLines inserts the lines of a header. Posting always runs inside
// a transaction, where the COPY protocol is the fast path; the built
// INSERT covers the rare non-transactional call.
func (r *MovementRepo) SaveLines(ctx context.Context, headerID id.ID, lines []movement.Line) error {
	if len(lines) == 0 {
		return nil
	}

	if tx := r.txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txm)
		columns := []string{
			"line_id", "movement_id", "line_no", "article_id",
			"quantity", "unit_cost", "unit_price",
		}
		rows := make([][]any, 0, len(lines))
		for _, line := range lines {
			rows = append(rows, []any{
				line.LineID, headerID, line.LineNo, line.ArticleID,
				line.Quantity, line.UnitCost, line.UnitPrice,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, movementLinesTable, columns, rows); err != nil {
			return fmt.Errorf("copy lines: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(movementLinesTable).
		Columns(
			"line_id", "movement_id", "line_no", "article_id",
			"quantity", "unit_cost", "unit_price",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, headerID, line.LineNo, line.ArticleID,
			line.Quantity, line.UnitCost, line.UnitPrice,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

// GetByID returns a header without lines.
func (r *MovementRepo) GetByID(ctx context.Context, headerID id.ID) (*movement.Header, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"id": headerID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var h movement.Header
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &h, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("movement", headerID.String())
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &h, nil
}

// GetLines returns the lines of a header in line number order.
func (r *MovementRepo) GetLines(ctx context.Context, headerID id.ID) ([]movement.Line, error) {
	q := r.builder.Select(
		"line_id", "line_no", "article_id",
		"quantity", "unit_cost", "unit_price",
	).From(movementLinesTable).
		Where(squirrel.Eq{"movement_id": headerID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []movement.Line
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// List returns headers matching the filter, most recent first.
func (r *MovementRepo) List(ctx context.Context, filter movement.ListFilter) ([]movement.Header, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		OrderBy("date DESC", "posted_at DESC")

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.Direction != nil {
		q = q.Where(squirrel.Eq{"direction": *filter.Direction})
	}
	if filter.TypeCode != nil {
		q = q.Where(squirrel.Eq{"type_code": *filter.TypeCode})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var headers []movement.Header
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &headers, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	return headers, nil
}
