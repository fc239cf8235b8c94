package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Retirement status values accepted on a scenario.
const (
	StatusRetired = "Retired"
	StatusWorking = "Working"
)

// Strategy display names. These are the keys of a comparison result set.
const (
	StrategyMinimumOnly      = "Minimum only"
	StrategyTopUpToOAS       = "Top-up-to-OAS"
	StrategyEmptyByTargetAge = "Empty-by-Target-Age"
)

// SpouseInfo captures the spouse's balances and income sources. The engine does
// not simulate the spouse's own withdrawals; the record exists for validation
// and reporting.
type SpouseInfo struct {
	Age              int             `yaml:"age" json:"age"`
	RRSPBalance      decimal.Decimal `yaml:"rrsp_balance" json:"rrspBalance"`
	EmploymentIncome decimal.Decimal `yaml:"employment_income" json:"employmentIncome"`
	PensionIncome    decimal.Decimal `yaml:"pension_income" json:"pensionIncome"`
	CPPOASIncome     decimal.Decimal `yaml:"cpp_oas_income" json:"cppOasIncome"`
	InvestmentIncome decimal.Decimal `yaml:"investment_income" json:"investmentIncome"`
}

// TotalOtherIncome returns the spouse's combined annual income.
func (s SpouseInfo) TotalOtherIncome() decimal.Decimal {
	return s.EmploymentIncome.Add(s.PensionIncome).Add(s.CPPOASIncome).Add(s.InvestmentIncome)
}

// Scenario is the immutable input describing one household's situation for a
// projection run. Validated once at entry; the engine treats it as read-only.
type Scenario struct {
	Age              int    `yaml:"age" json:"age"`
	RetirementStatus string `yaml:"retirement_status" json:"retirementStatus"`
	RetirementAge    *int   `yaml:"retirement_age,omitempty" json:"retirementAge,omitempty"`

	RRSPBalance decimal.Decimal `yaml:"rrsp_balance" json:"rrspBalance"`

	EmploymentIncome      decimal.Decimal `yaml:"employment_income" json:"employmentIncome"`
	PensionIncome         decimal.Decimal `yaml:"pension_income" json:"pensionIncome"`
	CPPStartAge           int             `yaml:"cpp_start_age" json:"cppStartAge"`
	CPPAmount             decimal.Decimal `yaml:"cpp_amount" json:"cppAmount"`
	OASStartAge           int             `yaml:"oas_start_age" json:"oasStartAge"`
	OASAmount             decimal.Decimal `yaml:"oas_amount" json:"oasAmount"`
	OtherInvestmentIncome decimal.Decimal `yaml:"other_investment_income" json:"otherInvestmentIncome"`

	HasSpouse     bool        `yaml:"has_spouse" json:"hasSpouse"`
	SpouseDetails *SpouseInfo `yaml:"spouse_details,omitempty" json:"spouseDetails,omitempty"`

	DesiredSpending decimal.Decimal `yaml:"desired_spending" json:"desiredSpending"`
	TFSABalance     decimal.Decimal `yaml:"tfsa_balance" json:"tfsaBalance"`

	PlanningHorizonYears int             `yaml:"planning_horizon_years" json:"planningHorizonYears"`
	NominalReturnPct     decimal.Decimal `yaml:"expect_return_pct" json:"expectReturnPct"`
	InflationRatePct     decimal.Decimal `yaml:"inflation_rate_pct" json:"inflationRatePct"`
	TargetDepletionAge   *int            `yaml:"target_rrif_depletion_age,omitempty" json:"targetRrifDepletionAge,omitempty"`

	Province  string `yaml:"province" json:"province"`
	StartYear *int   `yaml:"start_year,omitempty" json:"startYear,omitempty"`
}

// OtherTaxableIncome is the non-registered taxable income counted every year
// regardless of retirement status. Employment income is handled separately.
func (s *Scenario) OtherTaxableIncome() decimal.Decimal {
	return s.OtherInvestmentIncome
}

// EmploymentIncomeAt returns the employment income earned at the given age.
// Income stops at the stated retirement age; a scenario marked Retired with no
// retirement age is treated as retired at its current age. A working scenario
// with no retirement age keeps earning for the whole horizon.
func (s *Scenario) EmploymentIncomeAt(age int) decimal.Decimal {
	switch {
	case s.RetirementAge != nil:
		if age < *s.RetirementAge {
			return s.EmploymentIncome
		}
	case s.RetirementStatus == StatusRetired:
		if age < s.Age {
			return s.EmploymentIncome
		}
	default:
		return s.EmploymentIncome
	}
	return decimal.Zero
}

// Validate checks the cross-field business rules the simulation relies on.
// Structural range checks mirror the request-layer schema so a scenario built
// in code gets the same treatment as one parsed from a file.
func (s *Scenario) Validate() error {
	if s.Age < 55 || s.Age > 110 {
		return fmt.Errorf("age must be between 55 and 110, got %d", s.Age)
	}
	if s.PlanningHorizonYears <= 0 || s.PlanningHorizonYears > 50 {
		return fmt.Errorf("planning horizon must be between 1 and 50 years, got %d", s.PlanningHorizonYears)
	}
	if s.RetirementAge != nil && s.RetirementStatus == StatusRetired && *s.RetirementAge > s.Age {
		return fmt.Errorf("retirement age %d cannot be in the future for a retired scenario (current age %d)", *s.RetirementAge, s.Age)
	}
	if s.HasSpouse && s.SpouseDetails == nil {
		return fmt.Errorf("spouse details must be provided when has_spouse is true")
	}
	if !s.HasSpouse && s.SpouseDetails != nil {
		return fmt.Errorf("spouse details should not be provided when has_spouse is false")
	}
	if s.TargetDepletionAge != nil && *s.TargetDepletionAge <= s.Age {
		return fmt.Errorf("target depletion age %d must be greater than current age %d", *s.TargetDepletionAge, s.Age)
	}
	if s.CPPStartAge < 60 || s.CPPStartAge > 70 {
		return fmt.Errorf("CPP start age must be between 60 and 70, got %d", s.CPPStartAge)
	}
	if s.OASStartAge < 65 || s.OASStartAge > 70 {
		return fmt.Errorf("OAS start age must be between 65 and 70, got %d", s.OASStartAge)
	}
	if s.NominalReturnPct.LessThan(decimal.NewFromInt(-10)) || s.NominalReturnPct.GreaterThan(decimal.NewFromInt(25)) {
		return fmt.Errorf("expected return must be between -10%% and 25%%, got %s%%", s.NominalReturnPct)
	}
	if s.InflationRatePct.LessThan(decimal.Zero) || s.InflationRatePct.GreaterThan(decimal.NewFromInt(10)) {
		return fmt.Errorf("inflation rate must be between 0%% and 10%%, got %s%%", s.InflationRatePct)
	}
	for name, v := range map[string]decimal.Decimal{
		"rrsp_balance":            s.RRSPBalance,
		"employment_income":       s.EmploymentIncome,
		"pension_income":          s.PensionIncome,
		"cpp_amount":              s.CPPAmount,
		"oas_amount":              s.OASAmount,
		"other_investment_income": s.OtherInvestmentIncome,
		"desired_spending":        s.DesiredSpending,
		"tfsa_balance":            s.TFSABalance,
	} {
		if v.LessThan(decimal.Zero) {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	if len(s.Province) != 2 {
		return fmt.Errorf("province must be a two-letter code, got %q", s.Province)
	}
	return nil
}

// CurrentYearState is the engine's working state for one loop iteration. It is
// passed to strategies by value; strategies never mutate engine state.
type CurrentYearState struct {
	Year        int
	Age         int
	RRIFBalance decimal.Decimal
}
