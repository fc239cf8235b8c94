package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/rrifgo/rrifgo/internal/calculation"
	"github.com/rrifgo/rrifgo/internal/domain"
)

// topUpSafetyBuffer keeps the targeted income one dollar below the clawback
// threshold to absorb rounding.
var topUpSafetyBuffer = decimal.NewFromInt(1)

// TopUpToOAS withdraws the legal minimum plus whatever income room remains
// below the OAS clawback threshold, melting the account faster without
// triggering the recovery tax.
type TopUpToOAS struct {
	tax *calculation.TaxCalculator
}

func NewTopUpToOAS(tax *calculation.TaxCalculator) *TopUpToOAS {
	return &TopUpToOAS{tax: tax}
}

func (t *TopUpToOAS) Name() string { return domain.StrategyTopUpToOAS }

func (t *TopUpToOAS) Propose(state domain.CurrentYearState, scenario *domain.Scenario) (decimal.Decimal, error) {
	if state.RRIFBalance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}
	rules, err := t.tax.Rules.ForYear(state.Year)
	if err != nil {
		return decimal.Zero, err
	}
	minWithdrawal, err := t.tax.MinimumWithdrawal(state.RRIFBalance, state.Age, rules.MinWithdrawalFactors)
	if err != nil {
		return decimal.Zero, err
	}
	if rules.Federal.OAS == nil {
		// No threshold to target; nothing beats the minimum.
		return minWithdrawal, nil
	}

	fixedIncome := scenario.PensionIncome.
		Add(scenario.OtherTaxableIncome()).
		Add(scenario.EmploymentIncomeAt(state.Age))
	if state.Age >= scenario.CPPStartAge {
		fixedIncome = fixedIncome.Add(scenario.CPPAmount)
	}
	if state.Age >= scenario.OASStartAge {
		fixedIncome = fixedIncome.Add(scenario.OASAmount)
	}
	fixedIncome = fixedIncome.Round(2)

	target := minWithdrawal
	incomeIfMinTaken := fixedIncome.Add(minWithdrawal)
	threshold := rules.Federal.OAS.ClawbackThreshold
	if incomeIfMinTaken.LessThan(threshold) {
		room := threshold.Sub(incomeIfMinTaken)
		extra := decimal.Max(room.Sub(topUpSafetyBuffer), decimal.Zero)
		target = minWithdrawal.Add(extra)
	}

	target = decimal.Min(target, state.RRIFBalance)
	target = decimal.Max(target, minWithdrawal)
	return target.Round(2), nil
}
