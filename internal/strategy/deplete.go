package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/rrifgo/rrifgo/internal/calculation"
	"github.com/rrifgo/rrifgo/internal/domain"
	"github.com/rrifgo/rrifgo/pkg/annuity"
)

// Amortizer computes the level payment that depletes presentValue over periods
// at rate. Abstracted so the even-division fallback path stays independently
// testable.
type Amortizer func(rate decimal.Decimal, periods int, presentValue decimal.Decimal) (decimal.Decimal, error)

// EmptyByTargetAge sizes each year's withdrawal so the account reaches zero at
// the scenario's target depletion age, accounting for ongoing growth. With no
// target set, past the target, or on an empty account it behaves like
// minimum-only. An amortizer failure degrades to dividing the balance evenly
// across the remaining years.
type EmptyByTargetAge struct {
	tax      *calculation.TaxCalculator
	amortize Amortizer
}

func NewEmptyByTargetAge(tax *calculation.TaxCalculator) *EmptyByTargetAge {
	return &EmptyByTargetAge{tax: tax, amortize: annuity.Payment}
}

// NewEmptyByTargetAgeWithAmortizer injects a custom amortizer; nil selects the
// even-division fallback unconditionally.
func NewEmptyByTargetAgeWithAmortizer(tax *calculation.TaxCalculator, amortize Amortizer) *EmptyByTargetAge {
	return &EmptyByTargetAge{tax: tax, amortize: amortize}
}

func (e *EmptyByTargetAge) Name() string { return domain.StrategyEmptyByTargetAge }

func (e *EmptyByTargetAge) Propose(state domain.CurrentYearState, scenario *domain.Scenario) (decimal.Decimal, error) {
	minimum := NewMinimumOnly(e.tax)
	if scenario.TargetDepletionAge == nil ||
		state.Age >= *scenario.TargetDepletionAge ||
		state.RRIFBalance.LessThanOrEqual(decimal.Zero) {
		return minimum.Propose(state, scenario)
	}
	yearsRemaining := *scenario.TargetDepletionAge - state.Age

	rate := scenario.NominalReturnPct.Div(decimal.NewFromInt(100))
	if rate.LessThan(decimal.Zero) {
		rate = decimal.Zero
	}

	var withdrawal decimal.Decimal
	if e.amortize == nil {
		withdrawal = evenDivision(state.RRIFBalance, yearsRemaining)
	} else {
		pmt, err := e.amortize(rate, yearsRemaining, state.RRIFBalance)
		if err != nil {
			e.tax.Logger.Warnf("amortized payment failed (%v), dividing balance evenly over %d years", err, yearsRemaining)
			pmt = evenDivision(state.RRIFBalance, yearsRemaining)
		}
		withdrawal = decimal.Max(pmt, decimal.Zero)
	}

	minWithdrawal, err := minimum.Propose(state, scenario)
	if err != nil {
		return decimal.Zero, err
	}
	withdrawal = decimal.Max(withdrawal, minWithdrawal)
	withdrawal = decimal.Min(withdrawal, state.RRIFBalance)
	return withdrawal.Round(2), nil
}

func evenDivision(balance decimal.Decimal, years int) decimal.Decimal {
	return balance.DivRound(decimal.NewFromInt(int64(years)), 10)
}
