package taxrules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStoreYears(t *testing.T) {
	store := DefaultStore()
	assert.Equal(t, []int{2025}, store.Years())
}

func TestForYearExactAndFallback(t *testing.T) {
	store := DefaultStore()

	rules, err := store.ForYear(2025)
	require.NoError(t, err)
	assert.Equal(t, 2025, rules.Year)

	// Future years fall back to the latest available rule set.
	rules, err = store.ForYear(2040)
	require.NoError(t, err)
	assert.Equal(t, 2025, rules.Year)

	_, err = store.ForYear(2020)
	assert.ErrorIs(t, err, ErrNoRulesForYear)
}

func TestForYearPicksLatestAtOrBefore(t *testing.T) {
	store := NewStore(
		&YearRules{Year: 2024},
		&YearRules{Year: 2026},
	)

	rules, err := store.ForYear(2025)
	require.NoError(t, err)
	assert.Equal(t, 2024, rules.Year)

	rules, err = store.ForYear(2026)
	require.NoError(t, err)
	assert.Equal(t, 2026, rules.Year)
}

func TestProvincialFor(t *testing.T) {
	rules, err := DefaultStore().ForYear(2025)
	require.NoError(t, err)

	on, err := rules.ProvincialFor("ON")
	require.NoError(t, err)
	assert.Equal(t, "ON", on.Jurisdiction)
	require.NotNil(t, on.Surtax)
	assert.Nil(t, on.OAS, "OAS parameters are federal only")

	_, err = rules.ProvincialFor("QC")
	assert.ErrorIs(t, err, ErrJurisdictionMissing)
}

func TestSortedBracketsDoesNotMutate(t *testing.T) {
	jr := JurisdictionRules{Brackets: []Bracket{
		{Min: decimal.NewFromInt(50000), Max: NoLimit, Rate: decimal.NewFromFloat(0.20)},
		{Min: decimal.Zero, Max: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.10)},
	}}

	sorted := jr.SortedBrackets()
	assert.True(t, sorted[0].Min.IsZero())
	assert.True(t, sorted[1].Min.Equal(decimal.NewFromInt(50000)))
	// Original order untouched.
	assert.True(t, jr.Brackets[0].Min.Equal(decimal.NewFromInt(50000)))
}

func TestBuiltInBracketLaddersAreGapless(t *testing.T) {
	rules, err := DefaultStore().ForYear(2025)
	require.NoError(t, err)

	for name, jr := range map[string]*JurisdictionRules{
		"federal": &rules.Federal,
		"ontario": mustProvincial(t, rules, "ON"),
	} {
		prev := decimal.Zero
		for i, b := range jr.SortedBrackets() {
			assert.True(t, b.Min.Equal(prev), "%s bracket %d should start at %s", name, i, prev)
			assert.True(t, b.Max.GreaterThan(b.Min), "%s bracket %d", name, i)
			prev = b.Max
		}
		assert.True(t, prev.Equal(NoLimit), "%s top bracket must be open-ended", name)
	}
}

func mustProvincial(t *testing.T, yr *YearRules, code string) *JurisdictionRules {
	t.Helper()
	jr, err := yr.ProvincialFor(code)
	require.NoError(t, err)
	return jr
}
