package taxrules

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var defaultAge95Factor = decimal.NewFromFloat(0.2000)

// MinWithdrawalFactor returns the RRIF minimum withdrawal fraction for an age.
//
// Under 71 the factor is 1/(90-age). From 71 through 94 it comes from the
// table; a missing exact age falls back to the nearest defined age below it
// (the returned usedAge lets the caller log the substitution). From 95 on the
// age-95 factor applies for life.
func MinWithdrawalFactor(age int, table map[int]decimal.Decimal) (factor decimal.Decimal, usedAge int, err error) {
	if age < 0 {
		return decimal.Zero, 0, fmt.Errorf("%w: got %d", ErrInvalidAge, age)
	}
	if age < 71 {
		if age >= 90 {
			return decimal.NewFromInt(1), age, nil
		}
		denom := decimal.NewFromInt(int64(90 - age))
		return decimal.NewFromInt(1).DivRound(denom, 10), age, nil
	}
	if age >= 95 {
		if f, ok := table[95]; ok {
			return f, 95, nil
		}
		return defaultAge95Factor, 95, nil
	}
	if f, ok := table[age]; ok {
		return f, age, nil
	}
	// Exact age missing: use the nearest defined age below it within 71..94.
	closest := 0
	for a := range table {
		if a >= 71 && a < age && a > closest {
			closest = a
		}
	}
	if closest == 0 {
		return decimal.Zero, 0, fmt.Errorf("%w: age %d", ErrFactorUnavailable, age)
	}
	return table[closest], closest, nil
}
