package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/types"
)

type fakeRepo struct {
	levels map[[2]id.ID]Level
	rows   []StatusRow
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{levels: make(map[[2]id.ID]Level)}
}

func (r *fakeRepo) Get(_ context.Context, articleID, warehouseID id.ID) (Level, error) {
	if level, ok := r.levels[[2]id.ID{articleID, warehouseID}]; ok {
		return level, nil
	}
	return Level{
		ArticleID:   articleID,
		WarehouseID: warehouseID,
		AvgCost:     types.ZeroMoney(),
		StockValue:  types.ZeroMoney(),
	}, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, articleID, warehouseID id.ID) (Level, error) {
	return r.Get(ctx, articleID, warehouseID)
}

func (r *fakeRepo) Upsert(_ context.Context, level Level) error {
	r.levels[[2]id.ID{level.ArticleID, level.WarehouseID}] = level
	return nil
}

func (r *fakeRepo) ListByWarehouse(_ context.Context, _ id.ID) ([]StatusRow, error) {
	return append([]StatusRow(nil), r.rows...), nil
}

func (r *fakeRepo) ListAll(_ context.Context) ([]StatusRow, error) {
	return append([]StatusRow(nil), r.rows...), nil
}

func (r *fakeRepo) ListLowStock(_ context.Context) ([]StatusRow, error) {
	return append([]StatusRow(nil), r.rows...), nil
}

func (r *fakeRepo) TotalByArticle(_ context.Context, articleID id.ID) (types.Quantity, error) {
	var total types.Quantity
	for key, level := range r.levels {
		if key[0] == articleID {
			total += level.QuantityOnHand
		}
	}
	return total, nil
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		onHand   types.Quantity
		minStock types.Quantity
		want     string
	}{
		{"zero on hand", 0, 5, StatusCritical},
		{"at minimum", 5, 5, StatusCritical},
		{"below minimum", 3, 5, StatusCritical},
		{"just above minimum", 6, 5, StatusLow},
		{"at one and a half minimums", 9, 6, StatusLow},
		{"above the low band", 10, 6, StatusNormal},
		{"well stocked", 100, 5, StatusNormal},
		{"no minimum set", 1, 0, StatusNormal},
		{"zero of zero", 0, 0, StatusCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.onHand, tc.minStock))
		})
	}
}

func TestService_Set_RejectsNegativeQuantity(t *testing.T) {
	svc := NewService(newFakeRepo())

	err := svc.Set(context.Background(), Level{
		ArticleID:      id.New(),
		WarehouseID:    id.New(),
		QuantityOnHand: -1,
		AvgCost:        types.ZeroMoney(),
		StockValue:     types.ZeroMoney(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestService_Set_StampsUpdatedAt(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	articleID, warehouseID := id.New(), id.New()

	err := svc.Set(context.Background(), Level{
		ArticleID:      articleID,
		WarehouseID:    warehouseID,
		QuantityOnHand: 10,
		AvgCost:        types.MustMoney("2.00"),
		StockValue:     types.MustMoney("20.00"),
	})
	require.NoError(t, err)

	stored := repo.levels[[2]id.ID{articleID, warehouseID}]
	assert.EqualValues(t, 10, stored.QuantityOnHand)
	assert.False(t, stored.UpdatedAt.IsZero())
}

func TestService_ApplyDelta_CreatesRowWhenAbsent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	articleID, warehouseID := id.New(), id.New()

	err := svc.ApplyDelta(context.Background(), articleID, warehouseID, 10,
		types.MustMoney("2.00"), types.MustMoney("20.00"))
	require.NoError(t, err)

	level := repo.levels[[2]id.ID{articleID, warehouseID}]
	assert.EqualValues(t, 10, level.QuantityOnHand)
	assert.True(t, level.AvgCost.Equal(types.MustMoney("2.00")))
	assert.True(t, level.StockValue.Equal(types.MustMoney("20.00")))
}

func TestService_ApplyDelta_NegativeResultFails(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	articleID, warehouseID := id.New(), id.New()

	require.NoError(t, svc.ApplyDelta(context.Background(), articleID, warehouseID, 5,
		types.MustMoney("1.00"), types.MustMoney("5.00")))

	err := svc.ApplyDelta(context.Background(), articleID, warehouseID, -6,
		types.MustMoney("1.00"), types.ZeroMoney())
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err), "got %v", err)

	// The failed delta left the row alone.
	level := repo.levels[[2]id.ID{articleID, warehouseID}]
	assert.EqualValues(t, 5, level.QuantityOnHand)
}

func TestService_ApplyDelta_ToExactlyZero(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	articleID, warehouseID := id.New(), id.New()

	require.NoError(t, svc.ApplyDelta(context.Background(), articleID, warehouseID, 5,
		types.MustMoney("3.00"), types.MustMoney("15.00")))
	require.NoError(t, svc.ApplyDelta(context.Background(), articleID, warehouseID, -5,
		types.MustMoney("3.00"), types.ZeroMoney()))

	level := repo.levels[[2]id.ID{articleID, warehouseID}]
	assert.EqualValues(t, 0, level.QuantityOnHand)
	assert.True(t, level.AvgCost.Equal(types.MustMoney("3.00")), "average survives a zero balance")
}

func TestService_ReserveForExit(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	articleID, warehouseID := id.New(), id.New()

	require.NoError(t, svc.ApplyDelta(context.Background(), articleID, warehouseID, 5,
		types.MustMoney("1.00"), types.MustMoney("5.00")))

	assert.NoError(t, svc.ReserveForExit(context.Background(), articleID, warehouseID, 5))

	err := svc.ReserveForExit(context.Background(), articleID, warehouseID, 6)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// An unknown pair has zero available stock.
	err = svc.ReserveForExit(context.Background(), id.New(), warehouseID, 1)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestService_Reports_ClassifyEveryRow(t *testing.T) {
	repo := newFakeRepo()
	repo.rows = []StatusRow{
		{ArticleCode: "A-1", QuantityOnHand: 2, MinStock: 5},
		{ArticleCode: "A-2", QuantityOnHand: 7, MinStock: 5},
		{ArticleCode: "A-3", QuantityOnHand: 50, MinStock: 5},
	}
	svc := NewService(repo)

	rows, err := svc.GetAllStock(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, StatusCritical, rows[0].Status)
	assert.Equal(t, StatusLow, rows[1].Status)
	assert.Equal(t, StatusNormal, rows[2].Status)
}

func TestService_GetQuantity_ZeroWhenAbsent(t *testing.T) {
	svc := NewService(newFakeRepo())

	qty, err := svc.GetQuantity(context.Background(), id.New(), id.New())
	require.NoError(t, err)
	assert.EqualValues(t, 0, qty)
}

func TestService_GetArticleAvailability_SumsWarehouses(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	articleID := id.New()

	require.NoError(t, svc.ApplyDelta(context.Background(), articleID, id.New(), 3,
		types.MustMoney("1.00"), types.MustMoney("3.00")))
	require.NoError(t, svc.ApplyDelta(context.Background(), articleID, id.New(), 4,
		types.MustMoney("1.00"), types.MustMoney("4.00")))

	total, err := svc.GetArticleAvailability(context.Background(), articleID)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
}
