package intake

import "fmt"

func ComputeADLScore(a ADLAssessment) ActivityScore {
	return scoreActivities(a.Activities())
}

func ComputeIADLScore(a IADLAssessment) ActivityScore {
	return scoreActivities(a.Activities())
}

func scoreActivities(activities []NamedActivity) ActivityScore {
	var s ActivityScore
	for _, a := range activities {
		if a.Activity.DifficultyLevel > 0 {
			s.TotalDifficulties++
		}
		s.TotalScore += a.Activity.DifficultyLevel
	}
	s.IndependenceLevel = ClassifyIndependence(s.TotalScore)
	return s
}

// ClassifyIndependence maps a total activity score onto one of five bands by
// its share of the maximum score.
func ClassifyIndependence(totalScore int) IndependenceLevel {
	ratio := float64(totalScore) / MaxActivityScore
	switch {
	case ratio <= 0.25:
		return IndependenceFully
	case ratio <= 0.5:
		return IndependenceMostly
	case ratio <= 0.75:
		return IndependenceModerate
	case ratio <= 0.9:
		return IndependenceSignificant
	default:
		return IndependenceDependent
	}
}

// Recompute overwrites the derived score fields and the hazard union.
func (a *ADLAssessment) Recompute() {
	activities := a.Activities()
	a.ActivityScore = scoreActivities(activities)
	a.IdentifiedHazards = hazardUnion(activities)
}

func (a *IADLAssessment) Recompute() {
	activities := a.Activities()
	a.ActivityScore = scoreActivities(activities)
	a.IdentifiedHazards = hazardUnion(activities)
}

func hazardUnion(activities []NamedActivity) []string {
	var out []string
	seen := map[string]bool{}
	for _, a := range activities {
		for _, h := range a.Activity.HazardsIdentified {
			if h == "" || seen[h] {
				continue
			}
			seen[h] = true
			out = append(out, h)
		}
	}
	return out
}

func ComputeFallsEfficacyScore(f FallsEfficacy) int {
	total := 0
	for _, r := range f.Ratings() {
		total += r
	}
	return total
}

// ComputeRiskLevel combines fall history, the STEADI factor count and the
// falls efficacy total into an overall risk level.
func ComputeRiskLevel(factors RiskFactors, efficacyScore int, hasFallenPastYear bool, fallCount int) RiskLevel {
	n := factors.Count()
	switch {
	case hasFallenPastYear && fallCount >= 1, n >= 5, efficacyScore < 40:
		return RiskHigh
	case n >= 3, efficacyScore < 70:
		return RiskModerate
	default:
		return RiskLow
	}
}

func (f *FallsRiskAssessment) Recompute() {
	f.NumberOfFalls = len(f.FallDetails)
	f.FallsEfficacy.TotalScore = ComputeFallsEfficacyScore(f.FallsEfficacy)
	f.FallsEfficacyScore = f.FallsEfficacy.TotalScore
	f.OverallRiskLevel = ComputeRiskLevel(f.RiskFactors, f.FallsEfficacy.TotalScore, f.HasFallenPastYear, len(f.FallDetails))
}

func validateActivities(kind string, activities []NamedActivity) error {
	for _, a := range activities {
		if a.Activity.DifficultyLevel < DifficultyNone || a.Activity.DifficultyLevel > DifficultyUnable {
			return fmt.Errorf("%s %s: difficulty level %d out of range 0-3", kind, a.Label, a.Activity.DifficultyLevel)
		}
	}
	return nil
}

// Validate reports the first activity whose difficulty level is out of range.
// Scoring itself passes such values through unchanged.
func (a ADLAssessment) Validate() error {
	return validateActivities("adl", a.Activities())
}

func (a IADLAssessment) Validate() error {
	return validateActivities("iadl", a.Activities())
}

func (m MobilityAssessment) Validate() error {
	devices := []struct {
		name string
		d    DeviceUsage
	}{
		{"wheelchair", m.UsesWheelchair},
		{"walker", m.UsesWalker},
		{"cane", m.UsesCane},
		{"other device", m.UsesOtherDevice},
	}
	for _, dv := range devices {
		if dv.d.Frequency < FrequencyNever || dv.d.Frequency > FrequencyAlways {
			return fmt.Errorf("mobility %s: frequency %d out of range 0-4", dv.name, dv.d.Frequency)
		}
	}
	switch m.RestFrequency {
	case "", RestNever, RestOccasionally, RestFrequently, RestAlways:
	default:
		return fmt.Errorf("mobility: unknown rest frequency %q", m.RestFrequency)
	}
	return nil
}

func (f FallsRiskAssessment) Validate() error {
	for i, r := range f.FallsEfficacy.Ratings() {
		if r < MinEfficacyRating || r > MaxEfficacyRating {
			return fmt.Errorf("falls efficacy item %d: rating %d out of range 1-10", i+1, r)
		}
	}
	for i, d := range f.FallDetails {
		switch d.Location {
		case FallBathroom, FallBedroom, FallKitchen, FallStairs, FallEntrance, FallYard, FallOther:
		default:
			return fmt.Errorf("fall %d: unknown location %q", i+1, d.Location)
		}
	}
	return nil
}
