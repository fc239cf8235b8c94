package compare

import (
	"context"
	"fmt"

	"github.com/rrifgo/rrifgo/internal/calculation"
	"github.com/rrifgo/rrifgo/internal/domain"
	"github.com/rrifgo/rrifgo/internal/strategy"
)

// Run validates the scenario and simulates every applicable strategy.
// Strategy runs are independent; the context is checked between runs so a
// caller can abandon a long comparison.
func Run(ctx context.Context, engine *calculation.Engine, scenario *domain.Scenario) (*ComparisonSet, error) {
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	set := &ComparisonSet{
		Scenario: scenario,
		Results:  make(map[string]*domain.StrategyResult),
	}
	for _, strat := range strategy.ForScenario(engine.Tax, scenario) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := engine.Simulate(scenario, strat)
		if err != nil {
			return nil, fmt.Errorf("strategy %q: %w", strat.Name(), err)
		}
		set.Results[strat.Name()] = result
		set.Order = append(set.Order, strat.Name())
	}
	return set, nil
}
