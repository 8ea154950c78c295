package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain/catalogs/warehouse"
	"kardex/internal/infrastructure/storage/postgres"
)

const warehousesTable = "cat_warehouses"

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewWarehouseRepo creates a warehouse catalog repository.
func NewWarehouseRepo(txm *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID returns a warehouse or a NOT_FOUND error.
func (r *WarehouseRepo) GetByID(ctx context.Context, warehouseID id.ID) (warehouse.Warehouse, error) {
	q := r.builder.Select("id", "code", "name").
		From(warehousesTable).
		Where(squirrel.Eq{"id": warehouseID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return warehouse.Warehouse{}, fmt.Errorf("build query: %w", err)
	}

	var w warehouse.Warehouse
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &w, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return warehouse.Warehouse{}, apperror.NewNotFound("warehouse", warehouseID.String())
		}
		return warehouse.Warehouse{}, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

// List returns warehouses ordered by name.
func (r *WarehouseRepo) List(ctx context.Context) ([]warehouse.Warehouse, error) {
	q := r.builder.Select("id", "code", "name").
		From(warehousesTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var warehouses []warehouse.Warehouse
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &warehouses, sql, args...); err != nil {
		return nil, fmt.Errorf("select warehouses: %w", err)
	}
	return warehouses, nil
}
