package movement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/types"
	"kardex/internal/domain/catalogs/movetype"
)

var testPurchase = movetype.MovementType{
	ID: id.New(), Code: movetype.CodePurchase, Name: "Purchase", Direction: movetype.DirectionEntry,
}

func TestDraft_AddLine_AssignsSequentialNumbers(t *testing.T) {
	d := NewDraft(id.New(), testPurchase)

	require.NoError(t, d.AddLine(id.New(), 5, types.MustMoney("1.00"), types.ZeroMoney()))
	require.NoError(t, d.AddLine(id.New(), 3, types.MustMoney("2.00"), types.ZeroMoney()))

	lines := d.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].LineNo)
	assert.Equal(t, 2, lines[1].LineNo)
	assert.NotEqual(t, lines[0].LineID, lines[1].LineID)
}

func TestDraft_AddLine_Validation(t *testing.T) {
	d := NewDraft(id.New(), testPurchase)

	err := d.AddLine(id.Nil(), 5, types.MustMoney("1.00"), types.ZeroMoney())
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "nil article: %v", err)

	err = d.AddLine(id.New(), 0, types.MustMoney("1.00"), types.ZeroMoney())
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "zero quantity: %v", err)

	err = d.AddLine(id.New(), -2, types.MustMoney("1.00"), types.ZeroMoney())
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "negative quantity: %v", err)

	err = d.AddLine(id.New(), 5, types.MustMoney("-1.00"), types.ZeroMoney())
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "negative cost: %v", err)

	assert.Empty(t, d.Lines(), "rejected lines must not be kept")
}

func TestDraft_RemoveLine_Renumbers(t *testing.T) {
	d := NewDraft(id.New(), testPurchase)
	first, second, third := id.New(), id.New(), id.New()

	require.NoError(t, d.AddLine(first, 1, types.MustMoney("1.00"), types.ZeroMoney()))
	require.NoError(t, d.AddLine(second, 2, types.MustMoney("1.00"), types.ZeroMoney()))
	require.NoError(t, d.AddLine(third, 3, types.MustMoney("1.00"), types.ZeroMoney()))

	require.NoError(t, d.RemoveLine(2))

	lines := d.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, first, lines[0].ArticleID)
	assert.Equal(t, third, lines[1].ArticleID)
	assert.Equal(t, 1, lines[0].LineNo)
	assert.Equal(t, 2, lines[1].LineNo)
}

func TestDraft_RemoveLine_OutOfRange(t *testing.T) {
	d := NewDraft(id.New(), testPurchase)
	require.NoError(t, d.AddLine(id.New(), 1, types.MustMoney("1.00"), types.ZeroMoney()))

	assert.Error(t, d.RemoveLine(0))
	assert.Error(t, d.RemoveLine(2))
	assert.Len(t, d.Lines(), 1)
}

func TestDraft_Finalize_EmptyDraft(t *testing.T) {
	d := NewDraft(id.New(), testPurchase)

	h, err := d.Finalize(time.Now().UTC(), "tester")
	require.Error(t, err)
	assert.Nil(t, h)
	assert.True(t, apperror.IsCode(err, apperror.CodeEmptyMovement), "got %v", err)
}

func TestDraft_Finalize_CarriesTypeAndDirection(t *testing.T) {
	warehouseID, supplierID := id.New(), id.New()
	d := NewDraft(warehouseID, testPurchase).
		WithSupplier(supplierID).
		WithNote("march restock")

	require.NoError(t, d.AddLine(id.New(), 4, types.MustMoney("2.50"), types.MustMoney("4.00")))

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	h, err := d.Finalize(date, "alice")
	require.NoError(t, err)

	assert.False(t, id.IsNil(h.ID))
	assert.Equal(t, warehouseID, h.WarehouseID)
	assert.Equal(t, movetype.CodePurchase, h.TypeCode)
	assert.Equal(t, movetype.DirectionEntry, h.Direction)
	require.NotNil(t, h.SupplierID)
	assert.Equal(t, supplierID, *h.SupplierID)
	assert.Equal(t, "march restock", h.Note)
	assert.Equal(t, "alice", h.CreatedBy)
	assert.True(t, h.Date.Equal(date))
	require.Len(t, h.Lines, 1)
}

func TestDraft_Finalize_DefaultsZeroDate(t *testing.T) {
	d := NewDraft(id.New(), testPurchase)
	require.NoError(t, d.AddLine(id.New(), 1, types.MustMoney("1.00"), types.ZeroMoney()))

	h, err := d.Finalize(time.Time{}, "")
	require.NoError(t, err)
	assert.False(t, h.Date.IsZero())
}

func TestHeader_Validate(t *testing.T) {
	valid := func() *Header {
		return &Header{
			ID:          id.New(),
			Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			WarehouseID: id.New(),
			TypeCode:    movetype.CodeSale,
			Direction:   movetype.DirectionExit,
			Lines: []Line{{
				LineID:    id.New(),
				LineNo:    1,
				ArticleID: id.New(),
				Quantity:  2,
				UnitCost:  types.ZeroMoney(),
				UnitPrice: types.MustMoney("9.99"),
			}},
		}
	}

	ctx := context.Background()

	assert.NoError(t, valid().Validate(ctx))

	h := valid()
	h.WarehouseID = id.Nil()
	assert.True(t, apperror.IsCode(h.Validate(ctx), apperror.CodeValidation))

	h = valid()
	h.Direction = "sideways"
	assert.True(t, apperror.IsCode(h.Validate(ctx), apperror.CodeValidation))

	h = valid()
	h.Lines = nil
	assert.True(t, apperror.IsCode(h.Validate(ctx), apperror.CodeEmptyMovement))

	h = valid()
	h.Lines[0].Quantity = -1
	assert.True(t, apperror.IsCode(h.Validate(ctx), apperror.CodeValidation))
}

func TestHeader_TotalQuantity(t *testing.T) {
	h := &Header{Lines: []Line{{Quantity: 3}, {Quantity: 7}}}
	assert.EqualValues(t, 10, h.TotalQuantity())
}
