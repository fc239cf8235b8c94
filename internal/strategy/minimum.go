package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rrifgo/rrifgo/internal/calculation"
	"github.com/rrifgo/rrifgo/internal/domain"
)

// MinimumOnly withdraws exactly the legally required minimum each year.
type MinimumOnly struct {
	tax *calculation.TaxCalculator
}

func NewMinimumOnly(tax *calculation.TaxCalculator) *MinimumOnly {
	return &MinimumOnly{tax: tax}
}

func (m *MinimumOnly) Name() string { return domain.StrategyMinimumOnly }

func (m *MinimumOnly) Propose(state domain.CurrentYearState, _ *domain.Scenario) (decimal.Decimal, error) {
	rules, err := m.tax.Rules.ForYear(state.Year)
	if err != nil {
		return decimal.Zero, err
	}
	if len(rules.MinWithdrawalFactors) == 0 {
		return decimal.Zero, fmt.Errorf("RRIF factor table missing for year %d", state.Year)
	}
	return m.tax.MinimumWithdrawal(state.RRIFBalance, state.Age, rules.MinWithdrawalFactors)
}
