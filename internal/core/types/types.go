// Package types provides common value types for the engine.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Monetary precision policy:
// unit costs and running values are persisted with 2 fractional digits,
// the running average cost carries 4 to keep value reconciliation tight.
const (
	MoneyScale   int32 = 2
	AvgCostScale int32 = 4
)

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// RoundMoney rounds to the persisted monetary scale.
func RoundMoney(m Money) Money {
	return m.Round(MoneyScale)
}

// RoundAvgCost rounds to the average-cost scale.
func RoundAvgCost(m Money) Money {
	return m.Round(AvgCostScale)
}

// Quantity is a whole-unit stock quantity.
// Stock is counted in integral units; monetary precision lives in Money.
type Quantity int64

func (q Quantity) Int64() int64 { return int64(q) }

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

func (q Quantity) Neg() Quantity { return -q }

func (q Quantity) Abs() Quantity {
	if q < 0 {
		return -q
	}
	return q
}

// Decimal converts the quantity for monetary arithmetic.
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(q))
}
