// Package taxrules holds the versioned-by-year reference tables the tax
// calculator consumes: income brackets, non-refundable credit parameters, the
// Ontario surtax schedule, OAS recovery-tax parameters and the RRIF minimum
// withdrawal factor table. The tables are loaded once at process start and are
// read-only afterwards.
package taxrules

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// NoLimit marks the open-ended top bracket.
var NoLimit = decimal.NewFromInt(999999999)

// Configuration errors. These are structural and unrecoverable for the run,
// unlike the degraded-accuracy fallbacks which only log.
var (
	ErrNoRulesForYear      = errors.New("tax rules not available for requested year or any prior year")
	ErrJurisdictionMissing = errors.New("tax rules not implemented for jurisdiction")
	ErrFactorUnavailable   = errors.New("RRIF minimum withdrawal factor unavailable")
	ErrInvalidAge          = errors.New("age must be non-negative")
)

// Bracket is one marginal income bracket. Bracket sets must be sorted,
// non-overlapping and gapless over [0, NoLimit].
type Bracket struct {
	Min  decimal.Decimal `yaml:"min_income" json:"minIncome"`
	Max  decimal.Decimal `yaml:"max_income" json:"maxIncome"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// BPACredit is the basic personal amount, always fully claimable.
type BPACredit struct {
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
	Rate   decimal.Decimal `yaml:"rate" json:"rate"`
}

// AgeCredit is the 65+ credit, clawed down dollar-for-dollar at ReductionRate
// above IncomeThreshold.
type AgeCredit struct {
	BaseAmount      decimal.Decimal `yaml:"base_amount" json:"baseAmount"`
	IncomeThreshold decimal.Decimal `yaml:"income_threshold" json:"incomeThreshold"`
	ReductionRate   decimal.Decimal `yaml:"reduction_rate" json:"reductionRate"`
	CreditRate      decimal.Decimal `yaml:"credit_rate" json:"creditRate"`
}

// PensionCredit caps the claimable eligible pension income.
type PensionCredit struct {
	MaxClaim   decimal.Decimal `yaml:"max_claim" json:"maxClaim"`
	CreditRate decimal.Decimal `yaml:"credit_rate" json:"creditRate"`
}

// CPPCredit caps the claimable CPP/QPP contribution base.
type CPPCredit struct {
	MaxClaimBase decimal.Decimal `yaml:"max_credit_base_claim" json:"maxCreditBaseClaim"`
	CreditRate   decimal.Decimal `yaml:"credit_rate" json:"creditRate"`
}

// Credits groups the non-refundable credit parameters for one jurisdiction.
// The BPA rate is the jurisdiction's lowest bracket rate and is applied to the
// combined credit base.
type Credits struct {
	BPA     BPACredit     `yaml:"bpa" json:"bpa"`
	Age     AgeCredit     `yaml:"age" json:"age"`
	Pension PensionCredit `yaml:"pension" json:"pension"`
	CPPQPP  CPPCredit     `yaml:"cpp_qpp" json:"cppQpp"`
}

// Surtax is an additional tax on tax-after-credits, two additive tiers.
// Rate2 applies on top of Rate1 above Threshold2, not compounding.
type Surtax struct {
	Threshold1 decimal.Decimal `yaml:"threshold1_amount" json:"threshold1Amount"`
	Rate1      decimal.Decimal `yaml:"rate1_additional" json:"rate1Additional"`
	Threshold2 decimal.Decimal `yaml:"threshold2_amount" json:"threshold2Amount"`
	Rate2      decimal.Decimal `yaml:"rate2_additional" json:"rate2Additional"`
}

// OASParams holds the OAS recovery-tax threshold and rate. Federal only.
type OASParams struct {
	ClawbackThreshold decimal.Decimal `yaml:"oas_clawback_threshold" json:"oasClawbackThreshold"`
	ClawbackRate      decimal.Decimal `yaml:"oas_clawback_rate" json:"oasClawbackRate"`
}

// JurisdictionRules is the full parameter set for one taxing jurisdiction in
// one year. OAS is nil for provincial rules; Surtax is nil where no surtax
// schedule exists.
type JurisdictionRules struct {
	Year         int       `yaml:"year" json:"year"`
	Jurisdiction string    `yaml:"jurisdiction" json:"jurisdiction"`
	Brackets     []Bracket `yaml:"income_brackets" json:"incomeBrackets"`
	Credits      Credits   `yaml:"credits" json:"credits"`
	Surtax       *Surtax   `yaml:"surtax_on_tax,omitempty" json:"surtaxOnTax,omitempty"`
	OAS          *OASParams `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// SortedBrackets returns the bracket set in ascending Min order.
func (jr *JurisdictionRules) SortedBrackets() []Bracket {
	out := make([]Bracket, len(jr.Brackets))
	copy(out, jr.Brackets)
	sort.Slice(out, func(i, j int) bool { return out[i].Min.LessThan(out[j].Min) })
	return out
}

// YearRules bundles everything keyed to one tax year.
type YearRules struct {
	Year                 int                          `yaml:"year" json:"year"`
	Federal              JurisdictionRules            `yaml:"federal" json:"federal"`
	Provincial           map[string]JurisdictionRules `yaml:"provincial" json:"provincial"`
	MinWithdrawalFactors map[int]decimal.Decimal      `yaml:"rrif_factors" json:"rrifFactors"`
}

// ProvincialFor looks up the provincial rule set for a jurisdiction code.
func (yr *YearRules) ProvincialFor(code string) (*JurisdictionRules, error) {
	rules, ok := yr.Provincial[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s (year %d)", ErrJurisdictionMissing, code, yr.Year)
	}
	return &rules, nil
}

// Store is the immutable year-keyed rule table, built once at process start.
type Store struct {
	years map[int]*YearRules
}

// NewStore builds a store from explicit year rule sets.
func NewStore(rules ...*YearRules) *Store {
	s := &Store{years: make(map[int]*YearRules, len(rules))}
	for _, r := range rules {
		s.years[r.Year] = r
	}
	return s
}

// DefaultStore returns a store seeded with the built-in tables.
func DefaultStore() *Store {
	return NewStore(canada2025())
}

// Years returns the years the store has rules for, ascending.
func (s *Store) Years() []int {
	out := make([]int, 0, len(s.years))
	for y := range s.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// ForYear returns the rules for year, or the latest year at or before it.
// Callers can detect the fallback by comparing the returned Year against the
// requested one. Returns ErrNoRulesForYear when nothing at or before the
// requested year exists.
func (s *Store) ForYear(year int) (*YearRules, error) {
	if r, ok := s.years[year]; ok {
		return r, nil
	}
	var best *YearRules
	for y, r := range s.years {
		if y <= year && (best == nil || y > best.Year) {
			best = r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %d", ErrNoRulesForYear, year)
	}
	return best, nil
}
