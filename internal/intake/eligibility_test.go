package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestComputeEligibilityIncomeBoundary(t *testing.T) {
	cases := []struct {
		income  float64
		percent int
		meets   bool
	}{
		{64000, 80, true},
		{64001, 80, true},
		{64400, 81, false},
		{64800, 81, false},
		{40000, 50, true},
	}
	for _, tc := range cases {
		r := ComputeEligibility(EligibilityParams{
			Age:                intPtr(70),
			HouseholdIncome:    floatPtr(tc.income),
			AreaMedianIncome:   80000,
			IsPrimaryResidence: true,
		})
		require.NotNil(t, r.IncomePercentOfAMI, "income %v", tc.income)
		assert.Equal(t, tc.percent, *r.IncomePercentOfAMI, "income %v", tc.income)
		assert.Equal(t, tc.meets, r.MeetsIncomeRequirement, "income %v", tc.income)
		assert.Equal(t, tc.meets, r.IsEligible, "income %v", tc.income)
	}
}

func TestComputeEligibilityRequiresIncome(t *testing.T) {
	for _, income := range []*float64{nil, floatPtr(0)} {
		r := ComputeEligibility(EligibilityParams{Age: intPtr(80), HouseholdIncome: income, IsPrimaryResidence: true})
		assert.Nil(t, r.IncomePercentOfAMI)
		assert.False(t, r.MeetsIncomeRequirement)
		assert.False(t, r.IsEligible)
	}
}

func TestComputeEligibilityDefaultsAMI(t *testing.T) {
	r := ComputeEligibility(EligibilityParams{HouseholdIncome: floatPtr(40000)})
	assert.Equal(t, float64(DefaultAreaMedianIncome), r.AreaMedianIncome)
	require.NotNil(t, r.IncomePercentOfAMI)
	assert.Equal(t, 50, *r.IncomePercentOfAMI)
}

func TestComputeEligibilityAge(t *testing.T) {
	base := EligibilityParams{HouseholdIncome: floatPtr(30000), IsPrimaryResidence: true}

	base.Age = intPtr(61)
	assert.False(t, ComputeEligibility(base).MeetsAgeRequirement)
	base.Age = intPtr(62)
	assert.True(t, ComputeEligibility(base).MeetsAgeRequirement)
	assert.True(t, ComputeEligibility(base).IsEligible)
	base.Age = nil
	assert.False(t, ComputeEligibility(base).MeetsAgeRequirement)

	base.Age = intPtr(75)
	base.IsPrimaryResidence = false
	assert.False(t, ComputeEligibility(base).IsEligible)
}

func TestEligibilityVerificationRecompute(t *testing.T) {
	e := EligibilityVerification{
		HouseholdIncome:        floatPtr(20000),
		IsPrimaryResidence:     true,
		MeetsIncomeRequirement: false,
		IsEligible:             false,
	}
	e.Recompute(intPtr(68))
	assert.Equal(t, float64(80000), e.AreaMedianIncome)
	require.NotNil(t, e.IncomePercentOfAMI)
	assert.Equal(t, 25, *e.IncomePercentOfAMI)
	assert.True(t, e.MeetsAgeRequirement)
	assert.True(t, e.IsEligible)
}

func TestComputeEligibilityPercentRoundsExactHalves(t *testing.T) {
	for income, want := range map[float64]int{11600: 15, 64001: 80, 64400: 81} {
		r := ComputeEligibility(EligibilityParams{HouseholdIncome: floatPtr(income), AreaMedianIncome: 80000})
		require.NotNil(t, r.IncomePercentOfAMI)
		assert.Equal(t, want, *r.IncomePercentOfAMI, "income %v", income)
	}
}
