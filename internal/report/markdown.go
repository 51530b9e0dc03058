package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/joelkehle/homeassess/internal/homeassess"
	"github.com/joelkehle/homeassess/internal/intake"
)

const (
	professionalDefaultReason = "A licensed Occupational Therapist should verify these findings before modifications begin."
	footerNote                = "Confidential Assessment Report"
)

// BuildMarkdown renders the full assessment report. Each second-level
// heading starts a new page when printed.
func BuildMarkdown(out homeassess.AssessmentOutput, meta Meta) string {
	var b strings.Builder
	writeCover(&b, out, meta)
	writeExecutiveSummary(&b, out)
	writeActivities(&b, "ADL Assessment (Katz Index)", "Activities of Daily Living", adlRows(out.ADL), scoreOf(out.ADL))
	writeActivities(&b, "IADL Assessment (Lawton-Brody Scale)", "Instrumental Activities of Daily Living", iadlRows(out.IADL), iadlScoreOf(out.IADL))
	writeFallsAndMobility(&b, out.FallsRisk, out.Mobility)
	if len(out.DetectedHazards) > 0 {
		writeHazards(&b, out.DetectedHazards)
	}
	var priority, additional []homeassess.RecommendedModification
	for _, r := range out.Recommendations {
		if r.Priority >= homeassess.PriorityHigh {
			priority = append(priority, r)
		} else {
			additional = append(additional, r)
		}
	}
	if len(priority) > 0 {
		writeRecommendations(&b, "Priority Recommendations", priority)
	}
	if len(additional) > 0 {
		writeRecommendations(&b, "Additional Recommendations", additional)
	}
	writeCostSummary(&b, out, meta)
	fmt.Fprintf(&b, "---\n\n*%s. Prepared by %s.*\n", footerNote, meta.OrganizationName)
	return b.String()
}

func writeCover(b *strings.Builder, out homeassess.AssessmentOutput, meta Meta) {
	fmt.Fprintf(b, "# Home Safety Assessment Report\n\n")
	fmt.Fprintf(b, "*%s Compliant Assessment*\n\n", programTitle(meta.ProgramType))
	fmt.Fprintf(b, "**Prepared For:** %s  \n%s\n\n", meta.ClientName, meta.ClientAddress)
	fmt.Fprintf(b, "- Assessment Date: %s\n", FormatDate(meta.AssessmentDate))
	fmt.Fprintf(b, "- Assessor: %s\n", meta.AssessorName)
	if meta.CaseNumber != "" {
		fmt.Fprintf(b, "- Case Number: %s\n", meta.CaseNumber)
	}
	fmt.Fprintf(b, "- Overall Safety Score: **%s** (%s)\n\n", formatScore(out.Summary.OverallSafetyScore), SafetyScoreLabel(out.Summary.OverallSafetyScore))
	fmt.Fprintf(b, "Prepared by %s\n\n", meta.OrganizationName)
}

func writeExecutiveSummary(b *strings.Builder, out homeassess.AssessmentOutput) {
	fmt.Fprintf(b, "## Executive Summary\n\n")
	fmt.Fprintf(b, "| Safety Score | Hazards Identified | Est. Total Cost |\n|---|---|---|\n")
	fmt.Fprintf(b, "| %s/100 (%s) | %d (%d critical) | %s - %s |\n\n",
		formatScore(out.Summary.OverallSafetyScore), SafetyScoreLabel(out.Summary.OverallSafetyScore),
		len(out.DetectedHazards), out.Summary.CriticalIssuesCount,
		FormatCurrency(out.Summary.EstimatedTotalCost.Low), FormatCurrency(out.Summary.EstimatedTotalCost.High))

	if len(out.Summary.PrimaryRiskAreas) > 0 {
		fmt.Fprintf(b, "### Primary Risk Areas\n\n")
		for _, area := range out.Summary.PrimaryRiskAreas {
			fmt.Fprintf(b, "- %s\n", area)
		}
		b.WriteString("\n")
	}
	if len(out.Summary.TopThreeRecommendations) > 0 {
		fmt.Fprintf(b, "### Top Recommendations\n\n")
		for i, rec := range out.Summary.TopThreeRecommendations {
			fmt.Fprintf(b, "%d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}
	if len(out.Limitations) > 0 {
		fmt.Fprintf(b, "### Assessment Limitations\n\n")
		for _, l := range out.Limitations {
			fmt.Fprintf(b, "- ⚠ %s\n", l)
		}
		b.WriteString("\n")
	}
	if out.RequiresProfessionalAssessment {
		reason := out.ProfessionalAssessmentReason
		if reason == "" {
			reason = professionalDefaultReason
		}
		fmt.Fprintf(b, "> **Professional Assessment Recommended**  \n> %s\n\n", reason)
	}
}

func adlRows(a *intake.ADLAssessment) []intake.NamedActivity {
	if a == nil {
		return nil
	}
	return a.Activities()
}

func iadlRows(a *intake.IADLAssessment) []intake.NamedActivity {
	if a == nil {
		return nil
	}
	return a.Activities()
}

func scoreOf(a *intake.ADLAssessment) intake.ActivityScore {
	if a == nil {
		return intake.ActivityScore{}
	}
	return a.ActivityScore
}

func iadlScoreOf(a *intake.IADLAssessment) intake.ActivityScore {
	if a == nil {
		return intake.ActivityScore{}
	}
	return a.ActivityScore
}

func writeActivities(b *strings.Builder, title, subtitle string, rows []intake.NamedActivity, score intake.ActivityScore) {
	fmt.Fprintf(b, "## %s\n\n*%s*\n\n", title, subtitle)
	if rows == nil {
		fmt.Fprintf(b, "Not assessed.\n\n")
		return
	}
	fmt.Fprintf(b, "- Total Score: **%d/%d** (lower score = more independent)\n", score.TotalScore, intake.MaxActivityScore)
	fmt.Fprintf(b, "- Activities with difficulty: %d of %d\n", score.TotalDifficulties, intake.ActivityCount)
	fmt.Fprintf(b, "- Independence Level: %s\n\n", humanize(string(score.IndependenceLevel)))
	fmt.Fprintf(b, "| Activity | Difficulty | Needs Help | Notes |\n|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", r.Label, DifficultyLabel(r.Activity.DifficultyLevel), yesNo(r.Activity.NeedsHelp), cell(r.Activity.Notes))
	}
	b.WriteString("\n")
}

func writeFallsAndMobility(b *strings.Builder, f *intake.FallsRiskAssessment, m *intake.MobilityAssessment) {
	fmt.Fprintf(b, "## Falls Risk & Mobility\n\n*CDC STEADI Framework*\n\n")
	if f == nil && m == nil {
		fmt.Fprintf(b, "Not assessed.\n\n")
		return
	}
	if f != nil {
		fmt.Fprintf(b, "### Falls Risk\n\n")
		fmt.Fprintf(b, "- Overall Risk Level: **%s**\n", strings.ToUpper(string(f.OverallRiskLevel)))
		fmt.Fprintf(b, "- Fallen in past year: %s", yesNo(f.HasFallenPastYear))
		if f.HasFallenPastYear {
			fmt.Fprintf(b, " (%d recorded)", len(f.FallDetails))
		}
		b.WriteString("\n")
		fmt.Fprintf(b, "- Falls Efficacy Score: %d/100 (lower score = less confident / higher fear)\n\n", f.FallsEfficacy.TotalScore)
		if len(f.FallDetails) > 0 {
			fmt.Fprintf(b, "| Location | Injury | Medical Attention | Hospitalized |\n|---|---|---|---|\n")
			for _, d := range f.FallDetails {
				injury := yesNo(d.CausedInjury)
				if d.InjuryType != "" {
					injury += ": " + d.InjuryType
				}
				hosp := yesNo(d.WasHospitalized)
				if d.WasHospitalized && d.NightsHospitalized > 0 {
					hosp = fmt.Sprintf("Yes (%d nights)", d.NightsHospitalized)
				}
				fmt.Fprintf(b, "| %s | %s | %s | %s |\n", humanize(string(d.Location)), cell(injury), yesNo(d.RequiredMedicalAttention), hosp)
			}
			b.WriteString("\n")
		}
		var present []string
		for _, rf := range f.RiskFactors.Named() {
			if rf.Present {
				present = append(present, rf.Label)
			}
		}
		if len(present) > 0 {
			fmt.Fprintf(b, "**Risk Factors (%d of 10):** %s\n\n", len(present), strings.Join(present, ", "))
		}
	}
	if m != nil {
		fmt.Fprintf(b, "### Mobility\n\n")
		fmt.Fprintf(b, "| Device | Frequency | Indoor | Outdoor |\n|---|---|---|---|\n")
		devices := []struct {
			name string
			d    intake.DeviceUsage
		}{
			{"Wheelchair", m.UsesWheelchair},
			{"Walker", m.UsesWalker},
			{"Cane", m.UsesCane},
			{orDefault(m.UsesOtherDevice.DeviceType, "Other"), m.UsesOtherDevice},
		}
		for _, dv := range devices {
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n", cell(dv.name), FrequencyLabel(dv.d.Frequency), yesNo(dv.d.IndoorUse), yesNo(dv.d.OutdoorUse))
		}
		b.WriteString("\n")
		if m.BalanceIssues {
			fmt.Fprintf(b, "- ⚠ Balance issues: %s\n", orDefault(m.BalanceNotes, "reported"))
		}
		if m.GaitIssues {
			fmt.Fprintf(b, "- ⚠ Gait issues: %s\n", orDefault(m.GaitNotes, "reported"))
		}
		fmt.Fprintf(b, "- Can walk one block: %s\n", yesNo(m.CanWalkOneBlock))
		fmt.Fprintf(b, "- Can climb a flight of stairs: %s\n", yesNo(m.CanClimbFlightOfStairs))
		if m.RestFrequency != "" {
			fmt.Fprintf(b, "- Needs rest: %s\n", humanize(string(m.RestFrequency)))
		}
		b.WriteString("\n")
	}
}

func writeHazards(b *strings.Builder, hazards []homeassess.DetectedHazard) {
	fmt.Fprintf(b, "## Identified Hazards\n\n")
	fmt.Fprintf(b, "| Severity | Category | Location | Description | Affects ADLs |\n|---|---|---|---|---|\n")
	for _, h := range hazards {
		loc := h.Location.Room
		if h.Location.SpecificArea != "" {
			loc += " - " + h.Location.SpecificArea
		}
		fmt.Fprintf(b, "| %d %s | %s | %s | %s | %s |\n",
			h.Severity, SeverityLabel(h.Severity), humanize(h.Category), cell(loc), cell(h.Description), cell(strings.Join(h.AffectsADLs, ", ")))
	}
	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, title string, recs []homeassess.RecommendedModification) {
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, r := range recs {
		fmt.Fprintf(b, "### [%s] %s\n\n", homeassess.PriorityLabel(r.Priority), r.Description)
		fmt.Fprintf(b, "- Category: %s", humanize(r.Category))
		if r.Subcategory != "" {
			fmt.Fprintf(b, " / %s", r.Subcategory)
		}
		b.WriteString("\n")
		loc := r.Room
		if r.SpecificLocation != "" {
			loc += " - " + r.SpecificLocation
		}
		fmt.Fprintf(b, "- Location: %s\n", loc)
		if r.PriorityJustification != "" {
			fmt.Fprintf(b, "- Justification: %s\n", r.PriorityJustification)
		}
		fmt.Fprintf(b, "- Fall Risk Reduction: %s\n", humanize(orDefault(r.FallsRiskReduction, "none")))
		fmt.Fprintf(b, "- Estimated Cost: **%s** (materials %s, labor %s)\n",
			FormatCurrency(r.EstimatedCost.Total), FormatCurrency(r.EstimatedCost.Materials), FormatCurrency(r.EstimatedCost.Labor))
		fmt.Fprintf(b, "- Type: %s\n", humanize(modificationType(r)))
		var flags []string
		if r.RequiresLicensedContractor {
			flags = append(flags, "Licensed Contractor")
		}
		if r.RequiresPermit {
			flags = append(flags, "Permit Required")
		}
		if r.RequiresEnvironmentalReview {
			flags = append(flags, "Environmental Review")
		}
		if len(flags) > 0 {
			fmt.Fprintf(b, "- Requirements: %s\n", strings.Join(flags, ", "))
		}
		if len(r.AffectedADLs) > 0 {
			fmt.Fprintf(b, "- Improves ADLs: %s\n", strings.Join(r.AffectedADLs, ", "))
		}
		if len(r.AffectedIADLs) > 0 {
			fmt.Fprintf(b, "- Improves IADLs: %s\n", strings.Join(r.AffectedIADLs, ", "))
		}
		if len(r.ProductRecommendations) > 0 {
			fmt.Fprintf(b, "- Products: %s\n", strings.Join(r.ProductRecommendations, "; "))
		}
		b.WriteString("\n")
	}
}

func writeCostSummary(b *strings.Builder, out homeassess.AssessmentOutput, meta Meta) {
	costs := homeassess.CostBreakdown(out, meta.BudgetCap)
	fmt.Fprintf(b, "## Cost Summary\n\n*Budget Analysis and Funding Recommendations*\n\n")
	fmt.Fprintf(b, "- Total Estimated Cost: **%s**\n", FormatCurrency(costs.Total))
	fmt.Fprintf(b, "- %s Budget Cap: %s\n", meta.ProgramType, FormatCurrency(costs.BudgetCap))
	if costs.WithinBudget {
		fmt.Fprintf(b, "- Status: ✓ Within Budget\n\n")
	} else {
		fmt.Fprintf(b, "- Status: ⚠ %s Over Budget\n\n", FormatCurrency(costs.OverBy))
	}

	fmt.Fprintf(b, "### Cost Breakdown by Priority\n\n")
	fmt.Fprintf(b, "| Priority Level | Items | Cost | %% of Total |\n|---|---|---|---|\n")
	for _, p := range costs.ByPriority {
		fmt.Fprintf(b, "| %s | %d | %s | %s |\n", p.Label, p.Count, FormatCurrency(p.Cost), percentOf(p.Cost, costs.Total))
	}
	fmt.Fprintf(b, "| **TOTAL** | **%d** | **%s** | **100%%** |\n\n", len(out.Recommendations), FormatCurrency(costs.Total))

	if !costs.WithinBudget {
		fmt.Fprintf(b, "### Funding Recommendations\n\n")
		fmt.Fprintf(b, "The total cost exceeds the %s budget cap. Consider the following options:\n\n", meta.ProgramType)
		fmt.Fprintf(b, "- Prioritize URGENT and HIGH priority items first\n")
		fmt.Fprintf(b, "- Apply for supplemental CDBG funding (%s needed)\n", FormatCurrency(costs.OverBy))
		fmt.Fprintf(b, "- Phase modifications over multiple grant cycles\n")
		fmt.Fprintf(b, "- Seek additional funding from state/local programs\n\n")

		funded, deferred := homeassess.PrioritizeWithinBudget(out.Recommendations, costs.BudgetCap)
		if len(funded) > 0 && len(deferred) > 0 {
			fmt.Fprintf(b, "Fundable within the cap: %s. Deferred: %s.\n\n", descriptions(funded), descriptions(deferred))
		}
	}

	if len(out.EquipmentSuggestions) > 0 {
		fmt.Fprintf(b, "### Recommended Adaptive Equipment\n\n")
		fmt.Fprintf(b, "*Equipment costs are separate from modification costs.*\n\n")
		fmt.Fprintf(b, "| Item | Category | Est. Cost |\n|---|---|---|\n")
		for _, e := range out.EquipmentSuggestions {
			fmt.Fprintf(b, "| %s | %s | %s |\n", cell(e.Name), humanize(e.Category), FormatCurrency(e.EstimatedCost))
		}
		fmt.Fprintf(b, "| **Equipment Total** | | **%s** |\n\n", FormatCurrency(costs.EquipmentTotal))
	}
}

func programTitle(p intake.ProgramType) string {
	if p == intake.ProgramOAHMP {
		return "HUD OAHMP"
	}
	return string(p)
}

func modificationType(r homeassess.RecommendedModification) string {
	if r.ModificationType != "" {
		return r.ModificationType
	}
	if homeassess.IsMaintenanceCategory(r.Category) {
		return "maintenance"
	}
	return "rehabilitation"
}

func percentOf(part, total float64) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(part/total*100)))
}

func formatScore(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*10)/10)
}

func descriptions(recs []homeassess.RecommendedModification) string {
	parts := make([]string, 0, len(recs))
	for _, r := range recs {
		parts = append(parts, r.Description)
	}
	return strings.Join(parts, "; ")
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
