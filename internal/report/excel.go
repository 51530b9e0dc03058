package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joelkehle/homeassess/internal/homeassess"
	"github.com/joelkehle/homeassess/internal/intake"
)

const XLSXMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheet struct {
	name    string
	headers []string
	widths  []float64
	rows    [][]any
}

// BuildWorkbook exports the assessment as an xlsx workbook. The functional
// assessment sheets are only included when that data is present.
func BuildWorkbook(out homeassess.AssessmentOutput, meta Meta) ([]byte, error) {
	sheets := []sheet{
		summarySheet(out, meta),
		hazardsSheet(out.DetectedHazards),
		recommendationsSheet(out.Recommendations),
		equipmentSheet(out.EquipmentSuggestions),
	}
	if out.ADL != nil {
		sheets = append(sheets, activitySheet("ADL Assessment", out.ADL.Activities(), out.ADL.ActivityScore))
	}
	if out.IADL != nil {
		sheets = append(sheets, activitySheet("IADL Assessment", out.IADL.Activities(), out.IADL.ActivityScore))
	}
	if out.FallsRisk != nil {
		sheets = append(sheets, fallsSheet(out.FallsRisk))
	}
	if out.Mobility != nil {
		sheets = append(sheets, mobilitySheet(out.Mobility))
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, &RenderError{Format: "xlsx", Err: fmt.Errorf("create header style: %w", err)}
	}

	// The default sheet becomes Summary so it stays first and active.
	if err := f.SetSheetName("Sheet1", sheets[0].name); err != nil {
		return nil, &RenderError{Format: "xlsx", Err: err}
	}
	for _, s := range sheets {
		if err := writeSheet(f, s, headerStyle); err != nil {
			return nil, &RenderError{Format: "xlsx", Err: fmt.Errorf("sheet %s: %w", s.name, err)}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, &RenderError{Format: "xlsx", Err: fmt.Errorf("write workbook: %w", err)}
	}
	return buf.Bytes(), nil
}

// writeSheet creates the sheet when missing, then writes a styled header row
// followed by the data rows.
func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	if _, err := f.NewSheet(s.name); err != nil {
		return err
	}
	for col, header := range s.headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(s.name, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(s.name, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	for i, w := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, col, col, w); err != nil {
			return err
		}
	}
	for r, row := range s.rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(s.name, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func summarySheet(out homeassess.AssessmentOutput, meta Meta) sheet {
	costs := homeassess.CostBreakdown(out, meta.BudgetCap)
	rows := [][]any{
		{"Client Name", meta.ClientName},
		{"Address", meta.ClientAddress},
		{"Assessment Date", FormatDate(meta.AssessmentDate)},
		{"Assessor", meta.AssessorName},
		{"Organization", meta.OrganizationName},
		{"Program", string(meta.ProgramType)},
	}
	if meta.CaseNumber != "" {
		rows = append(rows, []any{"Case Number", meta.CaseNumber})
	}
	rows = append(rows,
		[]any{"Overall Safety Score", out.Summary.OverallSafetyScore},
		[]any{"Safety Rating", SafetyScoreLabel(out.Summary.OverallSafetyScore)},
		[]any{"Hazards Identified", len(out.DetectedHazards)},
		[]any{"Critical Issues", out.Summary.CriticalIssuesCount},
		[]any{"Recommendations", len(out.Recommendations)},
		[]any{"Estimated Cost (Low)", out.Summary.EstimatedTotalCost.Low},
		[]any{"Estimated Cost (High)", out.Summary.EstimatedTotalCost.High},
		[]any{"Total Recommended Cost", costs.Total},
		[]any{"Budget Cap", costs.BudgetCap},
		[]any{"Within Budget", yesNo(costs.WithinBudget)},
		[]any{"Primary Risk Areas", strings.Join(out.Summary.PrimaryRiskAreas, ", ")},
		[]any{"Professional Assessment Required", yesNo(out.RequiresProfessionalAssessment)},
	)
	for i, l := range out.Limitations {
		rows = append(rows, []any{fmt.Sprintf("Limitation %d", i+1), l})
	}
	return sheet{name: "Summary", headers: []string{"Field", "Value"}, widths: []float64{32, 70}, rows: rows}
}

func hazardsSheet(hazards []homeassess.DetectedHazard) sheet {
	s := sheet{
		name:    "Hazards",
		headers: []string{"ID", "Image", "Category", "Severity", "Room", "Area", "Description", "Affects ADLs", "Confidence"},
		widths:  []float64{12, 12, 20, 12, 16, 20, 60, 30, 12},
	}
	for _, h := range hazards {
		s.rows = append(s.rows, []any{
			h.ID, h.ImageID, humanize(h.Category), fmt.Sprintf("%d - %s", h.Severity, SeverityLabel(h.Severity)),
			h.Location.Room, h.Location.SpecificArea, h.Description, strings.Join(h.AffectsADLs, ", "), h.Confidence,
		})
	}
	return s
}

func recommendationsSheet(recs []homeassess.RecommendedModification) sheet {
	s := sheet{
		name: "Recommendations",
		headers: []string{
			"ID", "Priority", "Category", "Description", "Room", "Type", "Materials", "Labor", "Total",
			"Falls Risk Reduction", "Licensed Contractor", "Permit", "Environmental Review", "Justification",
		},
		widths: []float64{10, 10, 22, 50, 16, 16, 12, 12, 12, 18, 18, 10, 20, 50},
	}
	for _, r := range homeassess.SortByPriority(recs) {
		s.rows = append(s.rows, []any{
			r.ID, homeassess.PriorityLabel(r.Priority), humanize(r.Category), r.Description, r.Room, humanize(modificationType(r)),
			r.EstimatedCost.Materials, r.EstimatedCost.Labor, r.EstimatedCost.Total,
			humanize(r.FallsRiskReduction), yesNo(r.RequiresLicensedContractor), yesNo(r.RequiresPermit),
			yesNo(r.RequiresEnvironmentalReview), r.PriorityJustification,
		})
	}
	return s
}

func equipmentSheet(items []homeassess.AdaptiveEquipment) sheet {
	s := sheet{
		name:    "Equipment",
		headers: []string{"ID", "Name", "Category", "Description", "Est. Cost", "Installation", "Training", "Priority"},
		widths:  []float64{10, 28, 20, 50, 12, 14, 12, 10},
	}
	for _, e := range items {
		s.rows = append(s.rows, []any{
			e.ID, e.Name, humanize(e.Category), e.Description, e.EstimatedCost,
			yesNo(e.RequiresInstallation), yesNo(e.RequiresTraining), homeassess.PriorityLabel(e.Priority),
		})
	}
	return s
}

func activitySheet(name string, activities []intake.NamedActivity, score intake.ActivityScore) sheet {
	s := sheet{
		name:    name,
		headers: []string{"Activity", "Difficulty", "Needs Help", "Notes", "Hazards"},
		widths:  []float64{24, 14, 12, 50, 40},
	}
	for _, a := range activities {
		s.rows = append(s.rows, []any{
			a.Label, DifficultyLabel(a.Activity.DifficultyLevel), yesNo(a.Activity.NeedsHelp),
			a.Activity.Notes, strings.Join(a.Activity.HazardsIdentified, ", "),
		})
	}
	s.rows = append(s.rows,
		[]any{},
		[]any{"Total Score", fmt.Sprintf("%d/%d", score.TotalScore, intake.MaxActivityScore)},
		[]any{"Activities With Difficulty", score.TotalDifficulties},
		[]any{"Independence Level", humanize(string(score.IndependenceLevel))},
	)
	return s
}

func fallsSheet(f *intake.FallsRiskAssessment) sheet {
	s := sheet{
		name:    "Falls Risk",
		headers: []string{"Item", "Value"},
		widths:  []float64{36, 40},
		rows: [][]any{
			{"Overall Risk Level", strings.ToUpper(string(f.OverallRiskLevel))},
			{"Fallen In Past Year", yesNo(f.HasFallenPastYear)},
			{"Number Of Falls", f.NumberOfFalls},
			{"Falls Efficacy Score", fmt.Sprintf("%d/100", f.FallsEfficacy.TotalScore)},
		},
	}
	for _, rf := range f.RiskFactors.Named() {
		s.rows = append(s.rows, []any{rf.Label, yesNo(rf.Present)})
	}
	for i, d := range f.FallDetails {
		s.rows = append(s.rows, []any{
			fmt.Sprintf("Fall %d", i+1),
			fmt.Sprintf("%s; injury: %s; medical attention: %s; hospitalized: %s",
				humanize(string(d.Location)), yesNo(d.CausedInjury), yesNo(d.RequiredMedicalAttention), yesNo(d.WasHospitalized)),
		})
	}
	return s
}

func mobilitySheet(m *intake.MobilityAssessment) sheet {
	s := sheet{
		name:    "Mobility",
		headers: []string{"Device", "Frequency", "Indoor", "Outdoor"},
		widths:  []float64{30, 14, 10, 10},
	}
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
		s.rows = append(s.rows, []any{dv.name, FrequencyLabel(dv.d.Frequency), yesNo(dv.d.IndoorUse), yesNo(dv.d.OutdoorUse)})
	}
	s.rows = append(s.rows,
		[]any{},
		[]any{"Balance Issues", yesNo(m.BalanceIssues), m.BalanceNotes},
		[]any{"Gait Issues", yesNo(m.GaitIssues), m.GaitNotes},
		[]any{"Can Walk One Block", yesNo(m.CanWalkOneBlock)},
		[]any{"Can Climb Stairs", yesNo(m.CanClimbFlightOfStairs)},
		[]any{"Rest Frequency", humanize(string(m.RestFrequency))},
	)
	return s
}
