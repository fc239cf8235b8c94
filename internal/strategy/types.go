// Package strategy implements the three interchangeable withdrawal policies:
// take only the legal minimum, top up toward the OAS clawback threshold, or
// amortize the balance to zero by a target age. Strategies propose a target
// withdrawal for one year; the simulation engine clamps it against the legal
// minimum and the available balance.
package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/rrifgo/rrifgo/internal/calculation"
	"github.com/rrifgo/rrifgo/internal/domain"
)

// WithdrawalStrategy proposes an uncapped target withdrawal for one year from
// read-only state. The engine, not the strategy, enforces the minimum and the
// balance cap.
type WithdrawalStrategy interface {
	Name() string
	Propose(state domain.CurrentYearState, scenario *domain.Scenario) (decimal.Decimal, error)
}

// ForScenario returns the strategies to run for a scenario: minimum-only and
// top-up always, empty-by-target-age only when a depletion age is set. The set
// is closed; there is no plugin registration.
func ForScenario(tax *calculation.TaxCalculator, scenario *domain.Scenario) []WithdrawalStrategy {
	strategies := []WithdrawalStrategy{
		NewMinimumOnly(tax),
		NewTopUpToOAS(tax),
	}
	if scenario.TargetDepletionAge != nil {
		strategies = append(strategies, NewEmptyByTargetAge(tax))
	}
	return strategies
}
