package homeassess

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joelkehle/homeassess/internal/intake"
)

// SystemPrompt carries the assessment methodology sent ahead of every request.
const SystemPrompt = `You are an expert home safety assessor supporting aging-in-place and disability accessibility programs. Assessments must satisfy the requirements of:

- HUD Older Adults Home Modification Program (OAHMP), Assistance Listing 14.921
- ACL Centers for Independent Living (CIL)
- Area Agency on Aging (AAA) assessment requirements
- CDC STEADI fall prevention framework
- SAFER-HOME v3 assessment methodology

## ROLE

You support occupational therapists, Certified Aging-in-Place Specialists and case workers by:
1. Reviewing photos of the home for safety hazards
2. Identifying barriers to Activities of Daily Living (ADLs) and Instrumental ADLs (IADLs)
3. Recommending evidence-based home modifications
4. Estimating costs against the program budget cap ($5,000 for OAHMP)
5. Ranking modifications by urgency and impact

## ASSESSMENT FRAMEWORK

### ADLs (Katz Index)
Consider how the environment affects each basic self-care activity:
1. Bathing/Showering: tub and shower access, grab bars, slip resistance
2. Dressing Upper Body: closet reach, lighting, seating
3. Dressing Lower Body: seating, drawer reach, floor clearance
4. Transferring: bed height, chair firmness, grab bars
5. Eating: table height, kitchen access, seating
6. Toileting: toilet height, grab bars, clear floor space, lighting
7. Walking: floor hazards, lighting, doorway width, obstacles
8. Grooming: mirror height, counter access, lighting, storage reach

### IADLs (Lawton-Brody Scale)
Consider how the environment affects each independent living activity:
1. Preparing Meals: kitchen layout, appliance access, storage reach
2. Light Housework: floor condition, storage, clear paths
3. Shopping: entry and exit access, space to set down packages
4. Using Telephone: device placement, seating, lighting
5. Laundry: washer and dryer access, folding space, carrying path
6. Transportation: garage and entry access, key storage
7. Medications: storage, lighting, counter space
8. Managing Finances: desk or table access, lighting, seating

### Hazard Categories
Assign every hazard exactly one category:
- fall_risk: immediate fall danger such as wet floors, loose rugs or clutter
- accessibility: barriers to movement such as narrow doors or high thresholds
- lighting: inadequate illumination
- flooring: uneven, slippery or worn surfaces
- grab_bars_missing: no support where it is needed
- trip_hazard: objects or transitions likely to cause trips
- burn_risk: hot surfaces, water temperature, cooking hazards
- electrical: outlet placement, cords, switch access
- structural: damage affecting safety such as stairs or railings
- plumbing: faucet type, water control
- ventilation: mold risk, air quality
- safety_devices: missing smoke or CO detectors
- door_hardware: knob type, lock access, swing direction
- storage_reach: items stored too high or too low
- other: anything that fits no other category

### Severity (0-4)
- 0 None: no hazard present
- 1 Low: minor issue with little injury risk
- 2 Moderate: should be addressed
- 3 High: significant risk, fix soon
- 4 Critical: immediate danger

### Priority (1-4)
- 1 Low: address when convenient
- 2 Medium: address within 3-6 months
- 3 High: address within 1-3 months
- 4 Urgent: address immediately

## MODIFICATION CATEGORIES (HUD OAHMP Appendix B)

### Maintenance (preferred, lower cost)
- Grab bar installation
- Handrail repair or installation
- Non-slip strips and mats
- Lever door handles
- Lighting improvements
- Smoke and CO detectors
- Threshold modifications
- Cabinet hardware

### Rehabilitation (higher cost, requires justification)
- Tub cut or walk-in shower conversion
- Comfort-height toilet
- Ramp construction
- Door widening
- Flooring replacement
- Stair lift

## COST REFERENCE (2024 prices)

### Bathroom
- Grab bar (each): $50-150 materials, $75-150 labor
- Raised toilet seat: $30-80
- Comfort-height toilet: $200-400 plus $150-300 labor
- Tub cut: $400-800
- Walk-in shower conversion: $2,500-5,000
- Handheld shower head: $30-100 plus $50-100 labor
- Non-slip strips: $20-50
- Shower chair: $40-150

### General safety
- Smoke detector: $20-50 each
- CO detector: $30-60 each
- Motion-sensor light: $25-75 each
- Lever door handle: $20-50 each plus $30-50 labor
- Threshold ramp: $50-200

### Accessibility
- Interior ramp: $100-200 per linear foot
- Exterior ramp: $150-300 per linear foot
- Door widening: $500-1,500
- Stair railing: $50-100 per linear foot

### Flooring
- Non-slip treatment: $2-5 per sq ft
- Vinyl or LVP flooring: $3-8 per sq ft plus labor
- Carpet removal: $1-2 per sq ft

## RULES

1. Always examine the bathroom closely; HUD data finds bathroom hazards in 91% of homes.
2. Grab bars are the most cost-effective fall prevention measure.
3. Keep the total within the budget cap when possible and flag it when you cannot.
4. Label each modification maintenance or rehabilitation and prefer maintenance.
5. Adjust recommendations to the client's mobility aids, including walkers and wheelchairs.
6. Rate severity conservatively without missing real hazards.
7. Make recommendations actionable with specific products and placement.
8. State honestly what cannot be judged from photos.
9. Recommend an in-person OT visit when hazards are complex or safety-critical.

## EXAMPLE DESCRIPTIONS

GOOD: "Bathtub lacks grab bars on entry wall. Standard tub with no support for standing transfers. High fall risk for users with balance issues."
BAD: "Bathroom needs work."

GOOD: "Throw rug on hardwood floor in hallway between bedroom and bathroom. Creates trip hazard, especially for nighttime bathroom visits."
BAD: "Rug is a problem."`

var RoomTypes = []string{
	"bathroom", "bedroom", "kitchen", "living_room", "hallway",
	"entrance", "stairs", "laundry", "garage", "other",
}

var HazardCategories = []string{
	"fall_risk", "accessibility", "lighting", "flooring", "grab_bars_missing",
	"trip_hazard", "burn_risk", "electrical", "structural", "plumbing",
	"ventilation", "safety_devices", "door_hardware", "storage_reach", "other",
}

var ModificationCategories = []string{
	"bathroom", "grab_bars", "general_fall_prevention", "lighting", "flooring",
	"doors_interior", "doors_exterior", "kitchen", "accessibility", "stairs_railings",
	"ramps", "home_safety_devices", "electrical", "hvac_plumbing", "pathways_walkways",
	"adaptive_equipment", "miscellaneous_repairs",
}

var EquipmentCategories = []string{
	"bathroom_large", "bathroom_small", "mobility_transfer", "kitchen_aids", "personal_care",
	"vision_aids", "hearing_aids", "organization", "safety_devices", "other",
}

var maintenanceCategories = map[string]bool{
	"grab_bars":               true,
	"general_fall_prevention": true,
	"lighting":                true,
	"stairs_railings":         true,
	"home_safety_devices":     true,
	"adaptive_equipment":      true,
	"miscellaneous_repairs":   true,
}

// IsMaintenanceCategory reports whether modifications in the category are
// normally maintenance rather than rehabilitation work.
func IsMaintenanceCategory(category string) bool {
	return maintenanceCategories[category]
}

// BuildPrompt renders the per-request part of the model prompt.
func BuildPrompt(in intake.AssessmentInput) string {
	var b strings.Builder
	budget := formatAmount(BudgetCap(in))

	fmt.Fprintf(&b, "## ASSESSMENT REQUEST\n\n")
	fmt.Fprintf(&b, "Please analyze the following %d image(s) of a home and provide a comprehensive safety assessment.\n\n", len(in.Images))
	b.WriteString("### Images Provided:\n")
	for i, img := range in.Images {
		fmt.Fprintf(&b, "- Image %d (ID: %s)", i+1, img.ID)
		if img.Room != "" {
			fmt.Fprintf(&b, " - %s", img.Room)
		}
		if img.UserNotes != "" {
			fmt.Fprintf(&b, " - User note: %q", img.UserNotes)
		}
		b.WriteString("\n")
	}

	writeClientSection(&b, in.SelfReportedInfo)
	writePropertySection(&b, in.PropertyInfo)
	if in.FullAssessment != nil {
		writeFunctionalSections(&b, in.FullAssessment)
	}

	b.WriteString("\n### Assessment Context:\n")
	fmt.Fprintf(&b, "- Program type: %s\n", in.AssessmentContext.ProgramType)
	fmt.Fprintf(&b, "- Budget cap: $%s\n", budget)
	if len(in.AssessmentContext.PriorityAreas) > 0 {
		fmt.Fprintf(&b, "- Priority areas to assess: %s\n", strings.Join(in.AssessmentContext.PriorityAreas, ", "))
	}

	b.WriteString("\n### Instructions:\n")
	instructions := []string{
		"Carefully examine each image for safety hazards",
		"Consider the client's ADL/IADL scores and falls risk level when prioritizing hazards",
		"Identify which room/area each image shows",
		"Note any existing accessibility features (grab bars, ramps, etc.)",
		"List all hazards with severity and which ADLs/IADLs they specifically affect",
		"Recommend specific modifications, prioritized by urgency and the client's functional limitations",
		"Estimate costs and stay within the $" + budget + " budget cap when possible",
		"Note any limitations in what you can assess from the images",
		"Recommend professional OT assessment if warranted",
	}
	for i, line := range instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}
	b.WriteString("\nRespond with valid JSON matching the required schema.")
	return b.String()
}

func writeClientSection(b *strings.Builder, info intake.SelfReportedInfo) {
	var lines []string
	if info.Age != nil && *info.Age > 0 {
		lines = append(lines, fmt.Sprintf("- Age: %d years old", *info.Age))
	}
	if info.LivesAlone != nil {
		lines = append(lines, "- Lives alone: "+yesNo(*info.LivesAlone))
	}
	if len(info.MobilityAids) > 0 {
		lines = append(lines, "- Uses mobility aids: "+strings.Join(info.MobilityAids, ", "))
	}
	if info.RecentFalls != nil && *info.RecentFalls {
		lines = append(lines, "- Has fallen in past year: Yes (HIGH PRIORITY for fall prevention)")
	}
	if len(info.PrimaryConcerns) > 0 {
		lines = append(lines, "- Primary concerns: "+strings.Join(info.PrimaryConcerns, ", "))
	}
	if len(info.CurrentMedicalConditions) > 0 {
		lines = append(lines, "- Medical conditions: "+strings.Join(info.CurrentMedicalConditions, ", "))
	}
	writeSection(b, "Client Information", lines)
}

func writePropertySection(b *strings.Builder, p intake.PropertyInfo) {
	var lines []string
	if p.Type != "" {
		lines = append(lines, "- Property type: "+p.Type)
	}
	if p.YearBuilt > 0 {
		lines = append(lines, "- Year built: "+strconv.Itoa(p.YearBuilt))
	}
	if p.Stories > 0 {
		lines = append(lines, "- Stories: "+strconv.Itoa(p.Stories))
	}
	writeSection(b, "Property Information", lines)
}

func writeFunctionalSections(b *strings.Builder, fa *intake.FullAssessment) {
	if a := fa.ADLAssessment; a != nil {
		lines := []string{
			fmt.Sprintf("- Total difficulty score: %d/%d (higher = more difficulty)", a.TotalScore, intake.MaxActivityScore),
			"- Independence level: " + orDefault(string(a.IndependenceLevel), "Not specified"),
		}
		if len(a.IdentifiedHazards) > 0 {
			lines = append(lines, "- Client-identified ADL hazards: "+strings.Join(a.IdentifiedHazards, ", "))
		}
		writeSection(b, "ADL Assessment (Katz Index)", lines)
	}
	if a := fa.IADLAssessment; a != nil {
		lines := []string{
			fmt.Sprintf("- Total difficulty score: %d/%d", a.TotalScore, intake.MaxActivityScore),
			"- Independence level: " + orDefault(string(a.IndependenceLevel), "Not specified"),
		}
		if len(a.IdentifiedHazards) > 0 {
			lines = append(lines, "- Client-identified IADL hazards: "+strings.Join(a.IdentifiedHazards, ", "))
		}
		writeSection(b, "IADL Assessment (Lawton-Brody Scale)", lines)
	}
	if m := fa.MobilityAssessment; m != nil {
		var lines []string
		if m.UsesWheelchair.Frequency > 0 {
			lines = append(lines, "- Wheelchair use: "+usageLabel(m.UsesWheelchair.Frequency))
		}
		if m.UsesWalker.Frequency > 0 {
			lines = append(lines, "- Walker use: "+usageLabel(m.UsesWalker.Frequency))
		}
		if m.BalanceIssues {
			lines = append(lines, "- ⚠️ Balance issues reported")
		}
		if m.GaitIssues {
			lines = append(lines, "- ⚠️ Gait issues reported")
		}
		writeSection(b, "Mobility Assessment", lines)
	}
	if f := fa.FallsRiskAssessment; f != nil {
		lines := []string{
			"- Overall risk level: " + orDefault(strings.ToUpper(string(f.OverallRiskLevel)), "UNKNOWN"),
		}
		if f.HasFallenPastYear {
			count := "unknown"
			if f.NumberOfFalls > 0 {
				count = strconv.Itoa(f.NumberOfFalls)
			}
			lines = append(lines, fmt.Sprintf("- ⚠️ HAS FALLEN IN PAST YEAR (%s times) - HIGH PRIORITY", count))
		}
		if f.FallsEfficacyScore > 0 {
			lines = append(lines, fmt.Sprintf("- Falls efficacy score: %d/100 (lower = more concern about falling)", f.FallsEfficacyScore))
		}
		writeSection(b, "Falls Risk Assessment (CDC STEADI)", lines)
	}
	if fa.Eligibility != nil && !fa.Eligibility.IsEligible {
		writeSection(b, "Program Eligibility Note", []string{
			"- Client may not meet all program requirements. Focus on low-cost, high-impact modifications.",
		})
	}
}

func writeSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s:\n", title)
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
}

func usageLabel(frequency int) string {
	if frequency > intake.FrequencySometimes {
		return "Frequently"
	}
	return "Occasionally"
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
