package posting

import (
	"kardex/internal/core/types"
	"kardex/internal/domain/catalogs/movetype"
	"kardex/internal/domain/ledger/kardex"
)

// Advance computes the running balance that follows prev after one
// movement line, under perpetual weighted-average costing.
//
// Entries recompute the average as the quantity-weighted mean of the
// prior balance and the received stock; they are the only event that
// introduces new cost information. Exits consume at the current average
// and never change it, which keeps running value reconcilable as
// quantity times average at every entry.
func Advance(prev kardex.Balance, direction movetype.Direction, quantity types.Quantity, unitCost types.Money) (next kardex.Balance, costIn, costOut types.Money) {
	costIn = types.ZeroMoney()
	costOut = types.ZeroMoney()

	switch direction {
	case movetype.DirectionEntry:
		costIn = unitCost

		next.Quantity = prev.Quantity + quantity
		if next.Quantity.IsPositive() {
			priorValue := prev.Quantity.Decimal().Mul(prev.AvgCost)
			receivedValue := quantity.Decimal().Mul(costIn)
			next.AvgCost = types.RoundAvgCost(
				priorValue.Add(receivedValue).Div(next.Quantity.Decimal()),
			)
		} else {
			next.AvgCost = costIn
		}

	case movetype.DirectionExit:
		// Costed at the existing average; the average is unchanged.
		costOut = prev.AvgCost

		next.Quantity = prev.Quantity - quantity
		next.AvgCost = prev.AvgCost
	}

	next.Value = types.RoundMoney(next.Quantity.Decimal().Mul(next.AvgCost))
	return next, costIn, costOut
}
