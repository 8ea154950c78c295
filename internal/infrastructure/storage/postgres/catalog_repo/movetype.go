package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/apperror"
	"kardex/internal/domain/catalogs/movetype"
	"kardex/internal/infrastructure/storage/postgres"
)

const movementTypesTable = "cat_movement_types"

// MovementTypeRepo implements movetype.Repository.
type MovementTypeRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewMovementTypeRepo creates a movement type catalog repository.
func NewMovementTypeRepo(txm *postgres.TxManager) *MovementTypeRepo {
	return &MovementTypeRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByCode returns a movement type by its code.
func (r *MovementTypeRepo) GetByCode(ctx context.Context, code string) (movetype.MovementType, error) {
	q := r.builder.Select("id", "code", "name", "direction").
		From(movementTypesTable).
		Where(squirrel.Eq{"code": code}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return movetype.MovementType{}, fmt.Errorf("build query: %w", err)
	}

	var mt movetype.MovementType
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &mt, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return movetype.MovementType{}, apperror.NewNotFound("movement type", code)
		}
		return movetype.MovementType{}, fmt.Errorf("get movement type: %w", err)
	}
	return mt, nil
}

// List returns all movement types ordered by name.
func (r *MovementTypeRepo) List(ctx context.Context) ([]movetype.MovementType, error) {
	q := r.builder.Select("id", "code", "name", "direction").
		From(movementTypesTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var moveTypes []movetype.MovementType
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &moveTypes, sql, args...); err != nil {
		return nil, fmt.Errorf("select movement types: %w", err)
	}
	return moveTypes, nil
}
