// Package seed_repo provides the PostgreSQL implementation of the
// initial inventory repository.
package seed_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain/seed"
	"kardex/internal/infrastructure/storage/postgres"
)

const seedsTable = "doc_inventory_seeds"

var seedColumns = []string{
	"id", "number", "article_id", "warehouse_id",
	"quantity", "unit_cost", "date", "created_at", "updated_at",
}

// SeedRepo implements seed.Repository. Rows are never deleted; the
// unique (article_id, warehouse_id) constraint backs the one-seed rule.
type SeedRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSeedRepo creates an initial inventory repository.
func NewSeedRepo(txm *postgres.TxManager) *SeedRepo {
	return &SeedRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a seed record.
func (r *SeedRepo) Create(ctx context.Context, s *seed.Seed) error {
	q := r.builder.Insert(seedsTable).
		Columns(seedColumns...).
		Values(
			s.ID, s.Number, s.ArticleID, s.WarehouseID,
			s.Quantity, s.UnitCost, s.Date, s.CreatedAt, s.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert seed: %w", err)
	}
	return nil
}

// Update overwrites quantity and unit cost of a seed record.
func (r *SeedRepo) Update(ctx context.Context, s *seed.Seed) error {
	q := r.builder.Update(seedsTable).
		Set("quantity", s.Quantity).
		Set("unit_cost", s.UnitCost).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update seed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("seed", s.ID.String())
	}
	return nil
}

// GetByID returns a seed record or a NOT_FOUND error.
func (r *SeedRepo) GetByID(ctx context.Context, seedID id.ID) (*seed.Seed, error) {
	q := r.builder.Select(seedColumns...).
		From(seedsTable).
		Where(squirrel.Eq{"id": seedID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s seed.Seed
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("seed", seedID.String())
		}
		return nil, fmt.Errorf("get seed: %w", err)
	}
	return &s, nil
}

// GetByPair returns the seed for an (article, warehouse) pair.
func (r *SeedRepo) GetByPair(ctx context.Context, articleID, warehouseID id.ID) (*seed.Seed, error) {
	q := r.builder.Select(seedColumns...).
		From(seedsTable).
		Where(squirrel.Eq{
			"article_id":   articleID,
			"warehouse_id": warehouseID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s seed.Seed
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("seed", fmt.Sprintf("%s/%s", articleID, warehouseID))
		}
		return nil, fmt.Errorf("get seed by pair: %w", err)
	}
	return &s, nil
}

// ExistsForPair reports whether the pair has already been seeded.
func (r *SeedRepo) ExistsForPair(ctx context.Context, articleID, warehouseID id.ID) (bool, error) {
	sql := `
		SELECT EXISTS (
			SELECT 1 FROM doc_inventory_seeds
			WHERE article_id = $1 AND warehouse_id = $2
		)
	`

	var exists bool
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, articleID, warehouseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check seed exists: %w", err)
	}
	return exists, nil
}

// List returns seed records, optionally filtered by warehouse.
func (r *SeedRepo) List(ctx context.Context, warehouseID id.ID) ([]seed.Seed, error) {
	q := r.builder.Select(seedColumns...).
		From(seedsTable).
		OrderBy("date DESC", "created_at DESC")

	if !id.IsNil(warehouseID) {
		q = q.Where(squirrel.Eq{"warehouse_id": warehouseID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var seeds []seed.Seed
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &seeds, sql, args...); err != nil {
		return nil, fmt.Errorf("select seeds: %w", err)
	}
	return seeds, nil
}
