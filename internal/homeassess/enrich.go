package homeassess

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joelkehle/homeassess/internal/intake"
)

const (
	defaultConfidence  = 50
	defaultSafetyScore = 50
	criticalSeverity   = 4

	budgetNoticePrefix = "Total recommended modifications ("
)

func ParseRawOutput(data []byte) (RawOutput, error) {
	var raw RawOutput
	if err := json.Unmarshal([]byte(stripCodeFences(string(data))), &raw); err != nil {
		return RawOutput{}, fmt.Errorf("decode assessment json: %w", err)
	}
	return raw, nil
}

// Enrich fills defaults into a decoded model response, derives the summary
// values the model left out, attaches the client's functional assessment and
// records a budget overrun. It never fails and does not modify raw.
func Enrich(raw RawOutput, input intake.AssessmentInput) AssessmentOutput {
	out := AssessmentOutput{
		Confidence:            enrichConfidence(raw.Confidence),
		DetectedRooms:         nonNil(raw.DetectedRooms),
		DetectedHazards:       nonNil(raw.DetectedHazards),
		ExistingAccessibility: nonNil(raw.ExistingAccessibility),
		Recommendations:       nonNil(raw.Recommendations),
		EquipmentSuggestions:  nonNil(raw.EquipmentSuggestions),
		Summary: Summary{
			OverallSafetyScore:      defaultSafetyScore,
			PrimaryRiskAreas:        []string{},
			TopThreeRecommendations: []string{},
		},
		Limitations:                  nonNil(raw.Limitations),
		AdditionalPhotosNeeded:       nonNil(raw.AdditionalPhotosNeeded),
		ProfessionalAssessmentReason: raw.ProfessionalAssessmentReason,
	}
	if raw.RequiresProfessionalAssessment != nil {
		out.RequiresProfessionalAssessment = *raw.RequiresProfessionalAssessment
	}
	if s := raw.Summary; s != nil {
		if s.OverallSafetyScore != nil {
			out.Summary.OverallSafetyScore = *s.OverallSafetyScore
		}
		out.Summary.CriticalIssuesCount = s.CriticalIssuesCount
		out.Summary.PrimaryRiskAreas = nonNil(s.PrimaryRiskAreas)
		out.Summary.TopThreeRecommendations = nonNil(s.TopThreeRecommendations)
		if s.EstimatedTotalCost != nil {
			out.Summary.EstimatedTotalCost = *s.EstimatedTotalCost
		}
	}

	for i := range out.DetectedHazards {
		if out.DetectedHazards[i].ID == "" {
			out.DetectedHazards[i].ID = fmt.Sprintf("hazard-%d", i+1)
		}
	}
	for i := range out.Recommendations {
		if out.Recommendations[i].ID == "" {
			out.Recommendations[i].ID = fmt.Sprintf("rec-%d", i+1)
		}
	}
	for i := range out.EquipmentSuggestions {
		if out.EquipmentSuggestions[i].ID == "" {
			out.EquipmentSuggestions[i].ID = fmt.Sprintf("equip-%d", i+1)
		}
	}

	if out.Summary.CriticalIssuesCount == 0 {
		out.Summary.CriticalIssuesCount = countCritical(out.DetectedHazards)
	}

	total := TotalRecommendationCost(out.Recommendations)
	if out.Summary.EstimatedTotalCost.Low == 0 {
		out.Summary.EstimatedTotalCost = CostRange{
			Low:  math.Round(total * 0.8),
			High: math.Round(total * 1.2),
		}
	}

	if fa := input.FullAssessment; fa != nil {
		out.ADL = fa.ADLAssessment
		out.IADL = fa.IADLAssessment
		out.Mobility = fa.MobilityAssessment
		out.FallsRisk = fa.FallsRiskAssessment
	}

	out.Limitations = applyBudgetNotice(out.Limitations, total, BudgetCap(input))
	return out
}

func enrichConfidence(c *RawConfidence) Confidence {
	if c == nil {
		c = &RawConfidence{}
	}
	return Confidence{
		Overall:         valueOr(c.Overall, defaultConfidence),
		ImageQuality:    valueOr(c.ImageQuality, defaultConfidence),
		HazardDetection: valueOr(c.HazardDetection, defaultConfidence),
		Recommendations: valueOr(c.Recommendations, defaultConfidence),
	}
}

// applyBudgetNotice drops any earlier overrun notice and, when the total is
// over the cap, appends one describing the current figures.
func applyBudgetNotice(limitations []string, total, budgetCap float64) []string {
	out := make([]string, 0, len(limitations)+1)
	for _, l := range limitations {
		if !strings.HasPrefix(l, budgetNoticePrefix) {
			out = append(out, l)
		}
	}
	if total > budgetCap {
		out = append(out, BudgetNotice(total, budgetCap))
	}
	return out
}

func BudgetNotice(total, budgetCap float64) string {
	return fmt.Sprintf("%s$%s) exceed program budget cap ($%s). Prioritization required.",
		budgetNoticePrefix, formatAmount(total), formatAmount(budgetCap))
}

// BudgetCap returns the request's cap, falling back to the program default.
func BudgetCap(input intake.AssessmentInput) float64 {
	if input.AssessmentContext.BudgetCap > 0 {
		return input.AssessmentContext.BudgetCap
	}
	return intake.DefaultBudgetCap
}

func TotalRecommendationCost(recs []RecommendedModification) float64 {
	total := 0.0
	for _, r := range recs {
		total += r.EstimatedCost.Total
	}
	return total
}

func countCritical(hazards []DetectedHazard) int {
	n := 0
	for _, h := range hazards {
		if h.Severity >= criticalSeverity {
			n++
		}
	}
	return n
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nonNil[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
