// Package annuity provides the level-payment amortization formula used to
// size withdrawals that deplete a balance over a fixed number of years.
package annuity

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPeriods = errors.New("periods must be positive")
	ErrNegativeRate   = errors.New("rate must not be negative")
)

// Payment returns the level annual payment that amortizes presentValue to zero
// over periods years at the given per-period rate:
//
//	pmt = pv * r / (1 - (1+r)^-n)
//
// A zero rate divides the balance evenly across the periods.
func Payment(rate decimal.Decimal, periods int, presentValue decimal.Decimal) (decimal.Decimal, error) {
	if periods <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrInvalidPeriods, periods)
	}
	if rate.LessThan(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNegativeRate, rate)
	}
	n := decimal.NewFromInt(int64(periods))
	if rate.IsZero() {
		return presentValue.DivRound(n, 10), nil
	}
	onePlusR := decimal.NewFromInt(1).Add(rate)
	compound := onePlusR.Pow(n)
	denom := decimal.NewFromInt(1).Sub(decimal.NewFromInt(1).DivRound(compound, 12))
	if denom.IsZero() {
		return decimal.Zero, fmt.Errorf("amortization denominator is zero for rate %s over %d periods", rate, periods)
	}
	return presentValue.Mul(rate).DivRound(denom, 10), nil
}
