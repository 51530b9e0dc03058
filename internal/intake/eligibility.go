package intake

import "math"

const (
	MinimumAge              = 62
	MaxIncomePercentOfAMI   = 80
	DefaultAreaMedianIncome = 80000
)

type EligibilityParams struct {
	Age                *int
	HouseholdIncome    *float64
	AreaMedianIncome   float64
	IsPrimaryResidence bool
}

type EligibilityResult struct {
	AreaMedianIncome       float64
	IncomePercentOfAMI     *int
	MeetsAgeRequirement    bool
	MeetsIncomeRequirement bool
	IsPrimaryResidence     bool
	IsEligible             bool
}

// ComputeEligibility applies the program thresholds. A household with no
// reported income does not meet the income requirement.
func ComputeEligibility(p EligibilityParams) EligibilityResult {
	ami := p.AreaMedianIncome
	if ami <= 0 {
		ami = DefaultAreaMedianIncome
	}
	r := EligibilityResult{
		AreaMedianIncome:   ami,
		IsPrimaryResidence: p.IsPrimaryResidence,
	}
	if p.HouseholdIncome != nil && *p.HouseholdIncome > 0 {
		pct := int(math.Round(*p.HouseholdIncome * 100 / ami))
		r.IncomePercentOfAMI = &pct
		r.MeetsIncomeRequirement = pct <= MaxIncomePercentOfAMI
	}
	r.MeetsAgeRequirement = p.Age != nil && *p.Age >= MinimumAge
	r.IsEligible = r.MeetsAgeRequirement && r.MeetsIncomeRequirement && r.IsPrimaryResidence
	return r
}

// Recompute refreshes the derived fields from the stored inputs and the
// client's age.
func (e *EligibilityVerification) Recompute(age *int) {
	r := ComputeEligibility(EligibilityParams{
		Age:                age,
		HouseholdIncome:    e.HouseholdIncome,
		AreaMedianIncome:   e.AreaMedianIncome,
		IsPrimaryResidence: e.IsPrimaryResidence,
	})
	e.AreaMedianIncome = r.AreaMedianIncome
	e.IncomePercentOfAMI = r.IncomePercentOfAMI
	e.MeetsAgeRequirement = r.MeetsAgeRequirement
	e.MeetsIncomeRequirement = r.MeetsIncomeRequirement
	e.IsEligible = r.IsEligible
}
