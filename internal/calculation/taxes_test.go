package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrifgo/rrifgo/internal/taxrules"
)

func rules2025(t *testing.T) *taxrules.YearRules {
	t.Helper()
	rules, err := taxrules.DefaultStore().ForYear(2025)
	require.NoError(t, err)
	return rules
}

func TestMarginalTaxFederal(t *testing.T) {
	fed := &rules2025(t).Federal

	testCases := []struct {
		name     string
		income   decimal.Decimal
		expected string
	}{
		{"zero income", decimal.Zero, "0"},
		{"negative income", decimal.NewFromInt(-5000), "0"},
		{"first bracket only", decimal.NewFromInt(40000), "6000"},               // 40000 * 0.15
		{"first bracket boundary", decimal.NewFromInt(55867), "8380.05"},        // 55867 * 0.15
		{"spanning two brackets", decimal.NewFromInt(100000), "17427.32"},       // 8380.05 + 44133 * 0.205
		{"spanning three brackets", decimal.NewFromInt(150000), "29782"},        // 8380.05 + 55866 * 0.205 + 38267 * 0.26
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tax := MarginalTax(tc.income, fed)
			assert.True(t, tax.Equal(decimal.RequireFromString(tc.expected)),
				"got %s want %s", tax, tc.expected)
		})
	}
}

func TestMarginalTaxIsNonDecreasing(t *testing.T) {
	fed := &rules2025(t).Federal

	prev := decimal.Zero
	for income := 0; income <= 300000; income += 5000 {
		tax := MarginalTax(decimal.NewFromInt(int64(income)), fed)
		assert.True(t, tax.GreaterThanOrEqual(prev), "tax dropped at income %d", income)
		prev = tax
	}
}

func TestMarginalRate(t *testing.T) {
	rules := rules2025(t)
	fed := &rules.Federal

	assert.True(t, MarginalRate(decimal.NewFromInt(40000), fed).Equal(decimal.NewFromFloat(0.15)))
	assert.True(t, MarginalRate(decimal.NewFromInt(100000), fed).Equal(decimal.NewFromFloat(0.205)))
	assert.True(t, MarginalRate(decimal.NewFromInt(300000), fed).Equal(decimal.NewFromFloat(0.33)))
	assert.True(t, MarginalRate(decimal.Zero, fed).IsZero())
}

func TestMinimumWithdrawal(t *testing.T) {
	tc := NewTaxCalculator(taxrules.DefaultStore())
	table := rules2025(t).MinWithdrawalFactors

	// 500000 * 0.0553 at age 73.
	min, err := tc.MinimumWithdrawal(decimal.NewFromInt(500000), 73, table)
	require.NoError(t, err)
	assert.True(t, min.Equal(decimal.NewFromInt(27650)), "got %s", min)

	// Empty account owes nothing.
	min, err = tc.MinimumWithdrawal(decimal.Zero, 73, table)
	require.NoError(t, err)
	assert.True(t, min.IsZero())

	// The minimum never exceeds the balance itself.
	min, err = tc.MinimumWithdrawal(decimal.NewFromInt(100), 95, table)
	require.NoError(t, err)
	assert.True(t, min.LessThanOrEqual(decimal.NewFromInt(100)))
}

func TestOASClawback(t *testing.T) {
	tc := NewTaxCalculator(taxrules.DefaultStore())
	fed := &rules2025(t).Federal
	grossOAS := decimal.NewFromInt(8000)

	testCases := []struct {
		name      string
		netIncome decimal.Decimal
		expected  string
	}{
		{"below threshold", decimal.NewFromInt(80000), "0"},
		{"at threshold", decimal.NewFromInt(90997), "0"},
		{"just above threshold", decimal.NewFromInt(91000), "0.45"}, // 3 * 0.15
		{"well above threshold", decimal.NewFromInt(120000), "4350.45"},
		{"capped at gross benefit", decimal.NewFromInt(500000), "8000"},
	}

	for _, tcase := range testCases {
		t.Run(tcase.name, func(t *testing.T) {
			clawback := tc.OASClawback(tcase.netIncome, grossOAS, fed)
			assert.True(t, clawback.Equal(decimal.RequireFromString(tcase.expected)),
				"got %s want %s", clawback, tcase.expected)
		})
	}

	// No benefit, no clawback regardless of income.
	assert.True(t, tc.OASClawback(decimal.NewFromInt(500000), decimal.Zero, fed).IsZero())

	// Missing parameters degrade to zero rather than failing.
	assert.True(t, tc.OASClawback(decimal.NewFromInt(500000), grossOAS, nil).IsZero())
}

func TestJurisdictionTaxCredits(t *testing.T) {
	tc := NewTaxCalculator(taxrules.DefaultStore())
	fed := &rules2025(t).Federal

	// Low income: credits wipe out the gross tax but never go negative.
	detail := tc.JurisdictionTax(decimal.NewFromInt(12000), decimal.NewFromInt(12000), 73, decimal.Zero, decimal.Zero, fed)
	assert.True(t, detail.NetTax.IsZero(), "got %s", detail.NetTax)
	assert.True(t, detail.CreditValue.GreaterThan(detail.GrossTax))

	// Age credit fully intact below the income threshold.
	detail = tc.JurisdictionTax(decimal.NewFromInt(40000), decimal.NewFromInt(40000), 70, decimal.Zero, decimal.Zero, fed)
	assert.True(t, detail.AgeBase.Equal(decimal.NewFromInt(8790)))

	// Age credit reduced above the threshold: 8790 - (91000-44325)*0.15.
	detail = tc.JurisdictionTax(decimal.NewFromInt(91000), decimal.NewFromInt(91000), 73, decimal.Zero, decimal.Zero, fed)
	assert.True(t, detail.AgeBase.Equal(decimal.RequireFromString("1788.75")), "got %s", detail.AgeBase)

	// No age credit under 65.
	detail = tc.JurisdictionTax(decimal.NewFromInt(40000), decimal.NewFromInt(40000), 60, decimal.Zero, decimal.Zero, fed)
	assert.True(t, detail.AgeBase.IsZero())

	// Pension credit capped at the claim maximum.
	detail = tc.JurisdictionTax(decimal.NewFromInt(91000), decimal.NewFromInt(91000), 73, decimal.Zero, decimal.NewFromInt(73000), fed)
	assert.True(t, detail.PensionBase.Equal(decimal.NewFromInt(2000)))

	// CPP contribution credit capped at the base maximum.
	detail = tc.JurisdictionTax(decimal.NewFromInt(91000), decimal.NewFromInt(91000), 60, decimal.NewFromInt(5000), decimal.Zero, fed)
	assert.True(t, detail.CPPQPPBase.Equal(decimal.RequireFromString("3867.50")))
}

func TestJurisdictionTaxOntarioSurtax(t *testing.T) {
	tc := NewTaxCalculator(taxrules.DefaultStore())
	rules := rules2025(t)
	on, err := rules.ProvincialFor("ON")
	require.NoError(t, err)

	// Modest income stays under the first surtax threshold.
	detail := tc.JurisdictionTax(decimal.NewFromInt(60000), decimal.NewFromInt(60000), 73, decimal.Zero, decimal.Zero, on)
	assert.True(t, detail.Surtax.IsZero(), "got %s", detail.Surtax)

	// High income triggers both tiers; surtax applies to tax, not income.
	detail = tc.JurisdictionTax(decimal.NewFromInt(200000), decimal.NewFromInt(200000), 73, decimal.Zero, decimal.Zero, on)
	assert.True(t, detail.TaxBeforeSurtax.GreaterThan(on.Surtax.Threshold2))
	assert.True(t, detail.Surtax.GreaterThan(decimal.Zero))
	assert.True(t, detail.NetTax.Equal(detail.TaxBeforeSurtax.Add(detail.Surtax)))

	// Federal schedule carries no surtax at any income.
	fedDetail := tc.JurisdictionTax(decimal.NewFromInt(200000), decimal.NewFromInt(200000), 73, decimal.Zero, decimal.Zero, &rules.Federal)
	assert.True(t, fedDetail.Surtax.IsZero())
}

func TestSetLoggerNilRestoresNop(t *testing.T) {
	tc := NewTaxCalculator(taxrules.DefaultStore())
	tc.SetLogger(nil)
	assert.IsType(t, NopLogger{}, tc.Logger)
}
