package posting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kardex/internal/core/types"
	"kardex/internal/domain/catalogs/movetype"
	"kardex/internal/domain/ledger/kardex"
)

func TestAdvance_EntryIntoEmptyBalance(t *testing.T) {
	next, costIn, costOut := Advance(kardex.ZeroBalance(), movetype.DirectionEntry, 10, types.MustMoney("2.00"))

	assert.EqualValues(t, 10, next.Quantity)
	assert.True(t, next.AvgCost.Equal(types.MustMoney("2.00")), "avg cost %s", next.AvgCost)
	assert.True(t, next.Value.Equal(types.MustMoney("20.00")), "value %s", next.Value)
	assert.True(t, costIn.Equal(types.MustMoney("2.00")))
	assert.True(t, costOut.IsZero())
}

func TestAdvance_EntryRecomputesWeightedAverage(t *testing.T) {
	// 10 units at 2.00, then 10 units at 4.00: average lands at 3.00.
	first, _, _ := Advance(kardex.ZeroBalance(), movetype.DirectionEntry, 10, types.MustMoney("2.00"))
	second, costIn, _ := Advance(first, movetype.DirectionEntry, 10, types.MustMoney("4.00"))

	assert.EqualValues(t, 20, second.Quantity)
	assert.True(t, second.AvgCost.Equal(types.MustMoney("3.00")), "avg cost %s", second.AvgCost)
	assert.True(t, second.Value.Equal(types.MustMoney("60.00")), "value %s", second.Value)
	assert.True(t, costIn.Equal(types.MustMoney("4.00")))
}

func TestAdvance_ExitCostsAtAverageWithoutChangingIt(t *testing.T) {
	prev := kardex.Balance{
		Quantity: 20,
		AvgCost:  types.MustMoney("3.00"),
		Value:    types.MustMoney("60.00"),
	}

	next, costIn, costOut := Advance(prev, movetype.DirectionExit, 5, types.MustMoney("9.99"))

	assert.EqualValues(t, 15, next.Quantity)
	assert.True(t, next.AvgCost.Equal(types.MustMoney("3.00")), "exit must not move the average")
	assert.True(t, next.Value.Equal(types.MustMoney("45.00")), "value %s", next.Value)
	assert.True(t, costOut.Equal(types.MustMoney("3.00")), "exit is costed at the running average")
	assert.True(t, costIn.IsZero())
}

func TestAdvance_ExitToZeroKeepsAverage(t *testing.T) {
	prev := kardex.Balance{
		Quantity: 5,
		AvgCost:  types.MustMoney("3.50"),
		Value:    types.MustMoney("17.50"),
	}

	next, _, _ := Advance(prev, movetype.DirectionExit, 5, types.ZeroMoney())

	assert.EqualValues(t, 0, next.Quantity)
	assert.True(t, next.AvgCost.Equal(types.MustMoney("3.50")), "average survives a zero balance")
	assert.True(t, next.Value.IsZero())
}

func TestAdvance_EntryAfterZeroBalanceUsesNewCost(t *testing.T) {
	prev := kardex.Balance{
		Quantity: 0,
		AvgCost:  types.MustMoney("3.50"),
		Value:    types.ZeroMoney(),
	}

	next, _, _ := Advance(prev, movetype.DirectionEntry, 4, types.MustMoney("5.00"))

	assert.EqualValues(t, 4, next.Quantity)
	assert.True(t, next.AvgCost.Equal(types.MustMoney("5.00")), "avg cost %s", next.AvgCost)
	assert.True(t, next.Value.Equal(types.MustMoney("20.00")))
}

func TestAdvance_AverageRoundsToFourPlaces(t *testing.T) {
	// 3 units at 1.00 plus 1 unit at 2.00: 5/4 = 1.25 exactly; then an
	// uneven split: 1 more at 1.00 gives 6/5 = 1.20.
	b, _, _ := Advance(kardex.ZeroBalance(), movetype.DirectionEntry, 3, types.MustMoney("1.00"))
	b, _, _ = Advance(b, movetype.DirectionEntry, 1, types.MustMoney("2.00"))
	assert.True(t, b.AvgCost.Equal(types.MustMoney("1.25")), "avg cost %s", b.AvgCost)

	// A division with a repeating expansion rounds at 4 places.
	b, _, _ = Advance(b, movetype.DirectionEntry, 2, types.MustMoney("1.50"))
	// (4*1.25 + 2*1.50) / 6 = 8 / 6 = 1.3333...
	assert.True(t, b.AvgCost.Equal(types.MustMoney("1.3333")), "avg cost %s", b.AvgCost)
}

func TestAdvance_ValueReconcilesAsQuantityTimesAverage(t *testing.T) {
	b := kardex.ZeroBalance()
	steps := []struct {
		direction movetype.Direction
		quantity  types.Quantity
		unitCost  types.Money
	}{
		{movetype.DirectionEntry, 7, types.MustMoney("2.37")},
		{movetype.DirectionEntry, 13, types.MustMoney("4.11")},
		{movetype.DirectionExit, 5, types.ZeroMoney()},
		{movetype.DirectionEntry, 2, types.MustMoney("1.99")},
		{movetype.DirectionExit, 9, types.ZeroMoney()},
	}

	for _, step := range steps {
		b, _, _ = Advance(b, step.direction, step.quantity, step.unitCost)
		expected := types.RoundMoney(b.Quantity.Decimal().Mul(b.AvgCost))
		assert.True(t, b.Value.Equal(expected),
			"value %s != quantity %d x avg %s", b.Value, b.Quantity, b.AvgCost)
	}
}
