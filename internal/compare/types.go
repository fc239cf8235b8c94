// Package compare runs every applicable withdrawal strategy over one scenario
// and formats the side-by-side results.
package compare

import (
	"github.com/rrifgo/rrifgo/internal/domain"
)

// ComparisonSet holds the results of all strategies run over one scenario,
// keyed by strategy name, with Order preserving the run order for stable
// output.
type ComparisonSet struct {
	Scenario *domain.Scenario                  `json:"scenario"`
	Results  map[string]*domain.StrategyResult `json:"results"`
	Order    []string                          `json:"order"`
}

// Get returns a strategy's result by name.
func (cs *ComparisonSet) Get(name string) (*domain.StrategyResult, bool) {
	r, ok := cs.Results[name]
	return r, ok
}
