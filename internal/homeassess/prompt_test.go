package homeassess

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/homeassess/internal/intake"
)

func TestBuildPromptMinimal(t *testing.T) {
	in := testInput(5000)
	in.Images = append(in.Images, intake.ImageRef{ID: "img-2", URL: "https://x/y.jpg", Room: "bathroom", UserNotes: "tub is slippery"})

	p := BuildPrompt(in)
	assert.Contains(t, p, "analyze the following 2 image(s)")
	assert.Contains(t, p, "- Image 1 (ID: img-1)\n")
	assert.Contains(t, p, `- Image 2 (ID: img-2) - bathroom - User note: "tub is slippery"`)
	assert.Contains(t, p, "- Program type: OAHMP\n- Budget cap: $5000\n")
	assert.Contains(t, p, "7. Estimate costs and stay within the $5000 budget cap when possible")
	assert.True(t, strings.HasSuffix(p, "Respond with valid JSON matching the required schema."))
	assert.NotContains(t, p, "### Client Information")
	assert.NotContains(t, p, "### ADL Assessment")
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	in := testInput(7500)
	in.AssessmentContext.PriorityAreas = []string{"bathroom", "stairs"}
	assert.Equal(t, BuildPrompt(in), BuildPrompt(in))
	assert.Contains(t, BuildPrompt(in), "- Priority areas to assess: bathroom, stairs")
}

func TestBuildPromptWithFullAssessment(t *testing.T) {
	age := 82
	alone := true
	fell := true
	in := testInput(5000)
	in.SelfReportedInfo = intake.SelfReportedInfo{
		Age:          &age,
		LivesAlone:   &alone,
		MobilityAids: []string{"walker", "cane"},
		RecentFalls:  &fell,
	}
	in.PropertyInfo = intake.PropertyInfo{Type: "single_family", YearBuilt: 1958, Stories: 2}

	adl := &intake.ADLAssessment{}
	adl.Bathing.DifficultyLevel = 3
	adl.Bathing.HazardsIdentified = []string{"high tub wall"}
	adl.Walking.DifficultyLevel = 2
	adl.Toileting.DifficultyLevel = 2
	adl.Recompute()
	mobility := &intake.MobilityAssessment{BalanceIssues: true}
	mobility.UsesWalker.Frequency = intake.FrequencyAlways
	falls := &intake.FallsRiskAssessment{
		HasFallenPastYear: true,
		FallDetails:       []intake.FallDetail{{Location: intake.FallBathroom}, {Location: intake.FallStairs}},
		FallsEfficacy: intake.FallsEfficacy{
			CleaningHouse: 5, GettingDressed: 5, PreparingMeals: 5, TakingBath: 5, GoingShopping: 5,
			GettingInOutChair: 5, GoingUpDownStairs: 5, WalkingInNeighborhood: 5, ReachingInCabinets: 5, AnsweringDoor: 5,
		},
	}
	falls.Recompute()
	in.FullAssessment = &intake.FullAssessment{
		ADLAssessment:       adl,
		MobilityAssessment:  mobility,
		FallsRiskAssessment: falls,
		Eligibility:         &intake.EligibilityVerification{IsEligible: false},
	}

	p := BuildPrompt(in)
	for _, want := range []string{
		"- Age: 82 years old",
		"- Lives alone: Yes",
		"- Uses mobility aids: walker, cane",
		"- Has fallen in past year: Yes (HIGH PRIORITY for fall prevention)",
		"- Property type: single_family\n- Year built: 1958\n- Stories: 2",
		"### ADL Assessment (Katz Index):\n- Total difficulty score: 7/24",
		"- Independence level: mostly_independent",
		"- Client-identified ADL hazards: high tub wall",
		"- Walker use: Frequently",
		"- ⚠️ Balance issues reported",
		"- Overall risk level: HIGH",
		"- ⚠️ HAS FALLEN IN PAST YEAR (2 times) - HIGH PRIORITY",
		"- Falls efficacy score: 50/100",
		"### Program Eligibility Note:",
	} {
		assert.Contains(t, p, want)
	}
	assert.NotContains(t, p, "IADL Assessment")
	assert.NotContains(t, p, "Wheelchair use")
}

func TestResponseSchemaEnums(t *testing.T) {
	s := ResponseSchema()
	assert.Same(t, s, ResponseSchema())

	hazard := s.Properties["detectedHazards"].Items
	assert.Len(t, hazard.Properties["category"].Enum, 15)
	recs := s.Properties["recommendations"].Items
	assert.Len(t, recs.Properties["category"].Enum, 17)
	assert.Equal(t, []string{"maintenance", "rehabilitation"}, recs.Properties["modificationType"].Enum)
	equipment := s.Properties["equipmentSuggestions"].Items
	assert.Len(t, equipment.Properties["category"].Enum, 10)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(SchemaJSON()), &doc))
	assert.Equal(t, "object", doc["type"])
}

func TestIsMaintenanceCategory(t *testing.T) {
	assert.True(t, IsMaintenanceCategory("grab_bars"))
	assert.False(t, IsMaintenanceCategory("ramps"))
	for c := range maintenanceCategories {
		assert.Contains(t, ModificationCategories, c)
	}
}
