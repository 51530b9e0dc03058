package homeassess

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/homeassess/internal/intake"
)

func testInput(budget float64) intake.AssessmentInput {
	return intake.AssessmentInput{
		Images:            []intake.ImageRef{{ID: "img-1", URL: "data:image/png;base64,AAAA"}},
		AssessmentContext: intake.AssessmentContext{ProgramType: intake.ProgramOAHMP, BudgetCap: budget},
	}
}

func rec(id string, priority int, total float64) RecommendedModification {
	return RecommendedModification{
		ID:            id,
		Category:      "grab_bars",
		Description:   "Install grab bar",
		Priority:      priority,
		EstimatedCost: ModificationCost{Total: total},
	}
}

func countBudgetNotices(limitations []string) int {
	n := 0
	for _, l := range limitations {
		if strings.HasPrefix(l, budgetNoticePrefix) {
			n++
		}
	}
	return n
}

func TestEnrichEmptyResponse(t *testing.T) {
	raw, err := ParseRawOutput([]byte(`{}`))
	require.NoError(t, err)
	out := Enrich(raw, testInput(5000))

	assert.Equal(t, Confidence{50, 50, 50, 50}, out.Confidence)
	assert.Equal(t, 50.0, out.Summary.OverallSafetyScore)
	assert.Equal(t, 0, out.Summary.CriticalIssuesCount)
	assert.Equal(t, CostRange{}, out.Summary.EstimatedTotalCost)
	assert.NotNil(t, out.DetectedHazards)
	assert.NotNil(t, out.DetectedRooms)
	assert.NotNil(t, out.ExistingAccessibility)
	assert.NotNil(t, out.Recommendations)
	assert.NotNil(t, out.EquipmentSuggestions)
	assert.NotNil(t, out.AdditionalPhotosNeeded)
	assert.Empty(t, out.Limitations)
	assert.False(t, out.RequiresProfessionalAssessment)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"detectedHazards":[]`)
	assert.Contains(t, string(data), `"limitations":[]`)
}

func TestEnrichKeepsPartialConfidence(t *testing.T) {
	raw, err := ParseRawOutput([]byte(`{"confidence":{"overall":0,"imageQuality":85},"summary":{"overallSafetyScore":0}}`))
	require.NoError(t, err)
	out := Enrich(raw, testInput(5000))
	assert.Equal(t, Confidence{Overall: 0, ImageQuality: 85, HazardDetection: 50, Recommendations: 50}, out.Confidence)
	assert.Equal(t, 0.0, out.Summary.OverallSafetyScore)
}

func TestEnrichGeneratesMissingIDs(t *testing.T) {
	raw := RawOutput{
		DetectedHazards:      []DetectedHazard{{Severity: 2}, {ID: "h-model", Severity: 4}, {Severity: 4}},
		Recommendations:      []RecommendedModification{rec("", 3, 100), rec("r-model", 2, 50)},
		EquipmentSuggestions: []AdaptiveEquipment{{Name: "shower chair"}},
	}
	out := Enrich(raw, testInput(5000))

	assert.Equal(t, "hazard-1", out.DetectedHazards[0].ID)
	assert.Equal(t, "h-model", out.DetectedHazards[1].ID)
	assert.Equal(t, "hazard-3", out.DetectedHazards[2].ID)
	assert.Equal(t, "rec-1", out.Recommendations[0].ID)
	assert.Equal(t, "r-model", out.Recommendations[1].ID)
	assert.Equal(t, "equip-1", out.EquipmentSuggestions[0].ID)

	assert.Equal(t, "", raw.DetectedHazards[0].ID, "raw input must not be modified")
}

func TestEnrichDerivesSummaryOnlyWhenMissing(t *testing.T) {
	raw := RawOutput{
		DetectedHazards: []DetectedHazard{{Severity: 4}, {Severity: 5}, {Severity: 3}},
		Recommendations: []RecommendedModification{rec("a", 4, 1000), rec("b", 2, 501)},
	}
	out := Enrich(raw, testInput(5000))
	assert.Equal(t, 2, out.Summary.CriticalIssuesCount)
	assert.Equal(t, CostRange{Low: 1201, High: 1801}, out.Summary.EstimatedTotalCost)

	raw.Summary = &RawSummary{CriticalIssuesCount: 7, EstimatedTotalCost: &CostRange{Low: 900, High: 2000}}
	out = Enrich(raw, testInput(5000))
	assert.Equal(t, 7, out.Summary.CriticalIssuesCount)
	assert.Equal(t, CostRange{Low: 900, High: 2000}, out.Summary.EstimatedTotalCost)

	raw.Summary = &RawSummary{EstimatedTotalCost: &CostRange{Low: 0, High: 9999}}
	out = Enrich(raw, testInput(5000))
	assert.Equal(t, CostRange{Low: 1201, High: 1801}, out.Summary.EstimatedTotalCost)
}

func TestEnrichZeroHazardsAndRecommendations(t *testing.T) {
	out := Enrich(RawOutput{DetectedHazards: []DetectedHazard{}, Recommendations: []RecommendedModification{}}, testInput(5000))
	assert.Equal(t, 0, out.Summary.CriticalIssuesCount)
	assert.Equal(t, CostRange{Low: 0, High: 0}, out.Summary.EstimatedTotalCost)
	assert.Equal(t, 0, countBudgetNotices(out.Limitations))
}

func TestEnrichBudgetOverrun(t *testing.T) {
	raw := RawOutput{
		Recommendations: []RecommendedModification{rec("a", 4, 3200), rec("b", 3, 3000)},
		Limitations:     []string{"Could not see the basement"},
	}
	out := Enrich(raw, testInput(5000))

	require.Equal(t, 1, countBudgetNotices(out.Limitations))
	notice := out.Limitations[len(out.Limitations)-1]
	assert.Contains(t, notice, "$6200")
	assert.Contains(t, notice, "$5000")
	assert.Equal(t, "Could not see the basement", out.Limitations[0])
}

func TestEnrichWithinBudgetHasNoNotice(t *testing.T) {
	raw := RawOutput{Recommendations: []RecommendedModification{rec("a", 4, 5000)}}
	out := Enrich(raw, testInput(5000))
	assert.Equal(t, 0, countBudgetNotices(out.Limitations))
}

func TestEnrichReplacesStaleBudgetNotice(t *testing.T) {
	raw := RawOutput{
		Recommendations: []RecommendedModification{rec("a", 4, 7000)},
		Limitations:     []string{BudgetNotice(6200, 5000), "Lighting hard to judge"},
	}
	out := Enrich(raw, testInput(5000))
	require.Equal(t, 1, countBudgetNotices(out.Limitations))
	assert.Equal(t, []string{"Lighting hard to judge", BudgetNotice(7000, 5000)}, out.Limitations)

	raw.Recommendations = []RecommendedModification{rec("a", 4, 400)}
	out = Enrich(raw, testInput(5000))
	assert.Equal(t, []string{"Lighting hard to judge"}, out.Limitations)
}

func TestEnrichIsIdempotent(t *testing.T) {
	adl := &intake.ADLAssessment{}
	adl.Bathing.DifficultyLevel = 2
	adl.Recompute()
	in := testInput(5000)
	in.FullAssessment = &intake.FullAssessment{ADLAssessment: adl}

	raw, err := ParseRawOutput([]byte(`{
		"confidence": {"overall": 80, "imageQuality": 70, "hazardDetection": 75, "recommendations": 85},
		"detectedRooms": [{"roomType": "bathroom", "imageIds": ["img-1"], "confidence": 90}],
		"detectedHazards": [
			{"imageId": "img-1", "category": "grab_bars_missing", "description": "No grab bars at tub", "severity": 4,
			 "location": {"room": "bathroom"}, "affectsADLs": ["bathing"], "confidence": 88}
		],
		"recommendations": [
			{"category": "grab_bars", "description": "Install two grab bars", "room": "bathroom", "priority": 4,
			 "estimatedCost": {"materials": 200, "labor": 300, "total": 500}, "modificationType": "maintenance"},
			{"category": "bathroom", "description": "Walk-in shower conversion", "room": "bathroom", "priority": 3,
			 "estimatedCost": {"materials": 3000, "labor": 2700, "total": 5700}, "modificationType": "rehabilitation"}
		],
		"summary": {"overallSafetyScore": 55, "primaryRiskAreas": ["bathroom"], "topThreeRecommendations": ["grab bars"]},
		"limitations": ["Photos do not show the stairs"],
		"requiresProfessionalAssessment": true
	}`))
	require.NoError(t, err)

	first := Enrich(raw, in)
	require.Equal(t, 1, countBudgetNotices(first.Limitations))

	data, err := json.Marshal(first)
	require.NoError(t, err)
	again, err := ParseRawOutput(data)
	require.NoError(t, err)
	second := Enrich(again, in)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, countBudgetNotices(second.Limitations))
	assert.Same(t, adl, second.ADL)
}

func TestEnrichDefaultsBudgetCap(t *testing.T) {
	in := testInput(0)
	out := Enrich(RawOutput{Recommendations: []RecommendedModification{rec("a", 4, 5200)}}, in)
	require.Equal(t, 1, countBudgetNotices(out.Limitations))
	assert.Contains(t, out.Limitations[0], "($5000)")
}

func TestParseRawOutputRejectsMalformed(t *testing.T) {
	_, err := ParseRawOutput([]byte(`{"detectedHazards": [`))
	require.Error(t, err)
	raw, err := ParseRawOutput([]byte("```json\n{\"limitations\":[\"x\"]}\n```"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, raw.Limitations)
}

func TestParseRawOutputAcceptsFloatIntegers(t *testing.T) {
	raw, err := ParseRawOutput([]byte(`{
		"detectedHazards": [{"description": "loose rug", "severity": 4.0}, {"severity": 2.6}],
		"recommendations": [{"description": "grab bar", "priority": 3.0, "estimatedCost": {"total": 250}}],
		"equipmentSuggestions": [{"name": "shower chair", "priority": 2.0}],
		"summary": {"criticalIssuesCount": 1.0, "overallSafetyScore": 62.5}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 4, raw.DetectedHazards[0].Severity)
	assert.Equal(t, "loose rug", raw.DetectedHazards[0].Description)
	assert.Equal(t, 3, raw.DetectedHazards[1].Severity)
	assert.Equal(t, 3, raw.Recommendations[0].Priority)
	assert.Equal(t, 250.0, raw.Recommendations[0].EstimatedCost.Total)
	assert.Equal(t, 2, raw.EquipmentSuggestions[0].Priority)
	require.NotNil(t, raw.Summary)
	assert.Equal(t, 1, raw.Summary.CriticalIssuesCount)
	assert.Equal(t, 62.5, *raw.Summary.OverallSafetyScore)

	out := Enrich(raw, testInput(5000))
	assert.Equal(t, 1, out.Summary.CriticalIssuesCount)
}

func TestParseRawOutputRejectsNonNumericSeverity(t *testing.T) {
	_, err := ParseRawOutput([]byte(`{"detectedHazards": [{"severity": "high"}]}`))
	require.Error(t, err)
}
