package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrifgo/rrifgo/internal/domain"
	"github.com/rrifgo/rrifgo/internal/taxrules"
)

func retiredOntarian() *domain.Scenario {
	return &domain.Scenario{
		Age:                  73,
		RetirementStatus:     domain.StatusRetired,
		RRSPBalance:          decimal.NewFromInt(500000),
		PensionIncome:        decimal.NewFromInt(20000),
		CPPStartAge:          65,
		CPPAmount:            decimal.NewFromInt(10000),
		OASStartAge:          65,
		OASAmount:            decimal.NewFromInt(8000),
		DesiredSpending:      decimal.NewFromInt(60000),
		PlanningHorizonYears: 20,
		NominalReturnPct:     decimal.NewFromInt(5),
		InflationRatePct:     decimal.NewFromInt(2),
		Province:             "ON",
	}
}

func TestTotalTaxesForYearOntario(t *testing.T) {
	tc := NewTaxCalculator(taxrules.DefaultStore())
	scenario := retiredOntarian()

	result, err := tc.TotalTaxesForYear(2025, 73, "ON", scenario, decimal.NewFromInt(53000), decimal.Zero)
	require.NoError(t, err)

	// 53000 withdrawal + 20000 pension + 10000 CPP + 8000 OAS = 91000.
	assert.True(t, result.TotalIncome.Equal(decimal.NewFromInt(91000)), "got %s", result.TotalIncome)
	assert.True(t, result.TaxableIncome.Equal(result.TotalIncome))

	// 3 dollars over the 90997 threshold at 15 cents each.
	assert.True(t, result.OASClawback.Equal(decimal.RequireFromString("0.45")), "got %s", result.OASClawback)
	assert.True(t, result.OASNet.Equal(decimal.RequireFromString("7999.55")), "got %s", result.OASNet)

	assert.True(t, result.FederalTax.Equal(decimal.RequireFromString("12658.26")), "got %s", result.FederalTax)
	assert.True(t, result.ProvincialTax.Equal(decimal.RequireFromString("5550.52")), "got %s", result.ProvincialTax)
	assert.True(t, result.Provincial.Surtax.Equal(decimal.RequireFromString("39.25")), "got %s", result.Provincial.Surtax)
	assert.True(t, result.TotalTax.Equal(result.FederalTax.Add(result.ProvincialTax)))

	// Net cash deducts both income tax and the OAS recovery tax.
	expectedNet := result.TotalIncome.Sub(result.TotalTax).Sub(result.OASClawback)
	assert.True(t, result.NetCashAfterTax.Equal(expectedNet), "got %s want %s", result.NetCashAfterTax, expectedNet)

	// Pension + withdrawal exceed the caps; only the capped bases are claimed.
	assert.True(t, result.Federal.PensionBase.Equal(decimal.NewFromInt(2000)))
	assert.True(t, result.Provincial.PensionBase.Equal(decimal.NewFromInt(1580)))
}

func TestTotalTaxesForYearBenefitStartAges(t *testing.T) {
	tc := NewTaxCalculator(taxrules.DefaultStore())
	scenario := retiredOntarian()
	scenario.Age = 62
	scenario.CPPStartAge = 65
	scenario.OASStartAge = 67

	result, err := tc.TotalTaxesForYear(2025, 62, "ON", scenario, decimal.NewFromInt(10000), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, result.CPP.IsZero(), "CPP not yet started")
	assert.True(t, result.OASGross.IsZero(), "OAS not yet started")
	assert.True(t, result.OASClawback.IsZero())

	result, err = tc.TotalTaxesForYear(2025, 66, "ON", scenario, decimal.NewFromInt(10000), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, result.CPP.Equal(scenario.CPPAmount))
	assert.True(t, result.OASGross.IsZero(), "OAS starts at 67")
}

func TestTotalTaxesForYearRRIFCountsAsPensionFrom65(t *testing.T) {
	tc := NewTaxCalculator(taxrules.DefaultStore())
	scenario := retiredOntarian()
	scenario.PensionIncome = decimal.Zero
	withdrawal := decimal.NewFromInt(500)

	result, err := tc.TotalTaxesForYear(2025, 73, "ON", scenario, withdrawal, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, result.Federal.PensionBase.Equal(withdrawal))

	scenario.Age = 62
	result, err = tc.TotalTaxesForYear(2025, 62, "ON", scenario, withdrawal, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, result.Federal.PensionBase.IsZero(), "withdrawals are not eligible pension income before 65")
}

func TestTotalTaxesForYearUnknownJurisdiction(t *testing.T) {
	tc := NewTaxCalculator(taxrules.DefaultStore())

	_, err := tc.TotalTaxesForYear(2025, 73, "BC", retiredOntarian(), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, taxrules.ErrJurisdictionMissing)
}

func TestTotalTaxesForYearNoRules(t *testing.T) {
	tc := NewTaxCalculator(taxrules.DefaultStore())

	_, err := tc.TotalTaxesForYear(2020, 73, "ON", retiredOntarian(), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, taxrules.ErrNoRulesForYear)
}
