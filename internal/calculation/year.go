package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rrifgo/rrifgo/internal/domain"
)

// YearTaxResult carries everything the simulation loop needs from one year's
// tax calculation, including the per-jurisdiction audit details.
type YearTaxResult struct {
	Year         int    `json:"year"`
	Age          int    `json:"age"`
	Jurisdiction string `json:"jurisdiction"`

	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TaxableIncome decimal.Decimal `json:"taxableIncome"`

	Pension          decimal.Decimal `json:"pension"`
	CPP              decimal.Decimal `json:"cpp"`
	OASGross         decimal.Decimal `json:"oasGross"`
	OASClawback      decimal.Decimal `json:"oasClawback"`
	OASNet           decimal.Decimal `json:"oasNet"`
	OtherTaxable     decimal.Decimal `json:"otherTaxable"`
	EmploymentIncome decimal.Decimal `json:"employmentIncome"`

	Federal    JurisdictionTaxDetail `json:"federal"`
	Provincial JurisdictionTaxDetail `json:"provincial"`

	FederalTax      decimal.Decimal `json:"federalTax"`
	ProvincialTax   decimal.Decimal `json:"provincialTax"`
	TotalTax        decimal.Decimal `json:"totalTax"`
	NetCashAfterTax decimal.Decimal `json:"netCashAfterTax"`
}

// TotalTaxesForYear orchestrates one person-year: assembles the income
// components from the scenario, computes OAS clawback, then federal and
// provincial tax. Total income serves as both the taxable-income base and the
// net-income base for the clawback and credit tests; no further deductions are
// modeled. Fails when rules for the year or jurisdiction are absent.
func (tc *TaxCalculator) TotalTaxesForYear(year, age int, jurisdiction string, scenario *domain.Scenario, withdrawal, cppContributions decimal.Decimal) (*YearTaxResult, error) {
	yearRules, err := tc.Rules.ForYear(year)
	if err != nil {
		return nil, err
	}
	if yearRules.Year != year {
		tc.Logger.Warnf("tax rules for %d not found, using %d rules", year, yearRules.Year)
	}
	fed := &yearRules.Federal
	prov, err := yearRules.ProvincialFor(jurisdiction)
	if err != nil {
		return nil, err
	}

	employment := scenario.EmploymentIncomeAt(age)
	pension := scenario.PensionIncome
	cpp := decimal.Zero
	if age >= scenario.CPPStartAge {
		cpp = scenario.CPPAmount
	}
	oasGross := decimal.Zero
	if age >= scenario.OASStartAge {
		oasGross = scenario.OASAmount
	}
	other := scenario.OtherTaxableIncome()

	totalIncome := withdrawal.Add(pension).Add(cpp).Add(oasGross).Add(employment).Add(other).Round(2)

	// Simplification carried from the rule set: net income for the clawback
	// and credit tests equals total income, as does taxable income.
	netIncomeForTests := totalIncome
	taxableIncome := netIncomeForTests

	clawback := tc.OASClawback(netIncomeForTests, oasGross, fed)
	oasNet := decimal.Max(oasGross.Sub(clawback), decimal.Zero).Round(2)

	// RRIF withdrawals count as eligible pension income from 65 on.
	eligiblePension := pension
	if age >= 65 {
		eligiblePension = eligiblePension.Add(withdrawal)
	}
	eligiblePension = eligiblePension.Round(2)

	fedDetail := tc.JurisdictionTax(taxableIncome, netIncomeForTests, age, cppContributions, eligiblePension, fed)
	provDetail := tc.JurisdictionTax(taxableIncome, netIncomeForTests, age, cppContributions, eligiblePension, prov)

	totalTax := fedDetail.NetTax.Add(provDetail.NetTax).Round(2)
	netCash := totalIncome.Sub(totalTax).Sub(clawback).Round(2)

	return &YearTaxResult{
		Year:             year,
		Age:              age,
		Jurisdiction:     jurisdiction,
		TotalIncome:      totalIncome,
		TaxableIncome:    taxableIncome,
		Pension:          pension,
		CPP:              cpp,
		OASGross:         oasGross,
		OASClawback:      clawback,
		OASNet:           oasNet,
		OtherTaxable:     other,
		EmploymentIncome: employment,
		Federal:          fedDetail,
		Provincial:       provDetail,
		FederalTax:       fedDetail.NetTax,
		ProvincialTax:    provDetail.NetTax,
		TotalTax:         totalTax,
		NetCashAfterTax:  netCash,
	}, nil
}
