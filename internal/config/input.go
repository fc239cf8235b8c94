// Package config loads scenario files and optional tax-rule overrides.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rrifgo/rrifgo/internal/domain"
	"github.com/rrifgo/rrifgo/internal/taxrules"
)

// InputParser handles parsing of scenario and rules files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadScenario loads and validates a scenario from a YAML file.
func (ip *InputParser) LoadScenario(filename string) (*domain.Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var scenario domain.Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	applyScenarioDefaults(&scenario)

	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	return &scenario, nil
}

// LoadRules builds a rule store from a YAML rules file. The file holds a list
// of year rule sets; they replace the built-in tables entirely so a stale
// built-in year can never shadow a supplied one.
func (ip *InputParser) LoadRules(filename string) (*taxrules.Store, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if len(file.Years) == 0 {
		return nil, fmt.Errorf("rules file %s defines no years", filename)
	}

	years := make([]*taxrules.YearRules, 0, len(file.Years))
	for i := range file.Years {
		yr := &file.Years[i]
		if err := validateYearRules(yr); err != nil {
			return nil, fmt.Errorf("rules for year %d invalid: %w", yr.Year, err)
		}
		years = append(years, yr)
	}
	return taxrules.NewStore(years...), nil
}

type rulesFile struct {
	Years []taxrules.YearRules `yaml:"years"`
}

func applyScenarioDefaults(s *domain.Scenario) {
	if s.RetirementStatus == "" {
		s.RetirementStatus = domain.StatusRetired
	}
	if s.Province == "" {
		s.Province = "ON"
	}
	if s.CPPStartAge == 0 {
		s.CPPStartAge = 65
	}
	if s.OASStartAge == 0 {
		s.OASStartAge = 65
	}
}

// validateYearRules checks the structural invariants the calculator assumes:
// a sorted, gapless bracket ladder starting at zero for every jurisdiction,
// and a factor table covering the mandatory 71+ ages.
func validateYearRules(yr *taxrules.YearRules) error {
	if yr.Year <= 0 {
		return fmt.Errorf("year is required")
	}
	if err := validateBrackets("federal", yr.Federal.Brackets); err != nil {
		return err
	}
	if len(yr.Provincial) == 0 {
		return fmt.Errorf("at least one provincial rule set is required")
	}
	for code, prov := range yr.Provincial {
		if err := validateBrackets(code, prov.Brackets); err != nil {
			return err
		}
	}
	if len(yr.MinWithdrawalFactors) == 0 {
		return fmt.Errorf("rrif_factors table is required")
	}
	return nil
}

func validateBrackets(jurisdiction string, brackets []taxrules.Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("%s: income_brackets are required", jurisdiction)
	}
	prev := decimal.Zero
	for i, b := range brackets {
		if !b.Min.Equal(prev) {
			return fmt.Errorf("%s: bracket %d must start where the previous one ends (got %s, want %s)", jurisdiction, i, b.Min, prev)
		}
		if b.Max.LessThanOrEqual(b.Min) {
			return fmt.Errorf("%s: bracket %d max must exceed min", jurisdiction, i)
		}
		prev = b.Max
	}
	return nil
}
