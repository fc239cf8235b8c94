package taxrules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinWithdrawalFactorUnder71(t *testing.T) {
	table := rrifFactors()

	testCases := []struct {
		age      int
		expected string
	}{
		{55, "0.0285714286"}, // 1/35
		{60, "0.0333333333"}, // 1/30
		{65, "0.04"},         // 1/25
		{70, "0.05"},         // 1/20
	}

	for _, tc := range testCases {
		factor, usedAge, err := MinWithdrawalFactor(tc.age, table)
		require.NoError(t, err)
		assert.Equal(t, tc.age, usedAge)
		expected := decimal.RequireFromString(tc.expected)
		assert.True(t, factor.Sub(expected).Abs().LessThan(decimal.New(1, -9)),
			"age %d: got %s want %s", tc.age, factor, tc.expected)
	}
}

func TestMinWithdrawalFactorTableAges(t *testing.T) {
	table := rrifFactors()

	f71, used, err := MinWithdrawalFactor(71, table)
	require.NoError(t, err)
	assert.Equal(t, 71, used)
	assert.True(t, f71.Equal(decimal.NewFromFloat(0.0528)))

	f94, used, err := MinWithdrawalFactor(94, table)
	require.NoError(t, err)
	assert.Equal(t, 94, used)
	assert.True(t, f94.Equal(decimal.NewFromFloat(0.1879)))

	// Factors must increase monotonically through the table.
	prev := decimal.Zero
	for age := 71; age <= 95; age++ {
		f, _, err := MinWithdrawalFactor(age, table)
		require.NoError(t, err)
		assert.True(t, f.GreaterThan(prev), "factor at age %d must exceed factor at age %d", age, age-1)
		prev = f
	}
}

func TestMinWithdrawalFactor95AndBeyond(t *testing.T) {
	table := rrifFactors()

	for _, age := range []int{95, 96, 100, 110} {
		f, used, err := MinWithdrawalFactor(age, table)
		require.NoError(t, err)
		assert.Equal(t, 95, used)
		assert.True(t, f.Equal(decimal.NewFromFloat(0.2000)), "age %d", age)
	}

	// The age-95 factor has a hardcoded fallback even with a sparse table.
	f, used, err := MinWithdrawalFactor(97, map[int]decimal.Decimal{})
	require.NoError(t, err)
	assert.Equal(t, 95, used)
	assert.True(t, f.Equal(decimal.NewFromFloat(0.2000)))
}

func TestMinWithdrawalFactorNearestLowerFallback(t *testing.T) {
	sparse := map[int]decimal.Decimal{
		71: decimal.NewFromFloat(0.0528),
		80: decimal.NewFromFloat(0.0682),
	}

	f, used, err := MinWithdrawalFactor(85, sparse)
	require.NoError(t, err)
	assert.Equal(t, 80, used)
	assert.True(t, f.Equal(decimal.NewFromFloat(0.0682)))

	f, used, err = MinWithdrawalFactor(75, sparse)
	require.NoError(t, err)
	assert.Equal(t, 71, used)
	assert.True(t, f.Equal(decimal.NewFromFloat(0.0528)))
}

func TestMinWithdrawalFactorErrors(t *testing.T) {
	_, _, err := MinWithdrawalFactor(-1, rrifFactors())
	assert.ErrorIs(t, err, ErrInvalidAge)

	_, _, err = MinWithdrawalFactor(80, map[int]decimal.Decimal{})
	assert.ErrorIs(t, err, ErrFactorUnavailable)
}
