package report

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joelkehle/homeassess/internal/intake"
)

const (
	DefaultClientName       = "Client Name"
	DefaultClientAddress    = "Address Not Provided"
	DefaultAssessorName     = "AI-Assisted Assessment"
	DefaultOrganizationName = "HOMEase AI"
)

// Meta is the cover information printed alongside an assessment.
type Meta struct {
	ClientName       string
	ClientAddress    string
	AssessmentDate   time.Time
	AssessorName     string
	OrganizationName string
	ProgramType      intake.ProgramType
	CaseNumber       string
	BudgetCap        float64
}

// WithDefaults fills every empty field. now is used when no date was given.
func (m Meta) WithDefaults(now time.Time) Meta {
	if strings.TrimSpace(m.ClientName) == "" {
		m.ClientName = DefaultClientName
	}
	if strings.TrimSpace(m.ClientAddress) == "" {
		m.ClientAddress = DefaultClientAddress
	}
	if m.AssessmentDate.IsZero() {
		m.AssessmentDate = now
	}
	if strings.TrimSpace(m.AssessorName) == "" {
		m.AssessorName = DefaultAssessorName
	}
	if strings.TrimSpace(m.OrganizationName) == "" {
		m.OrganizationName = DefaultOrganizationName
	}
	if m.ProgramType == "" {
		m.ProgramType = intake.ProgramOAHMP
	}
	if m.BudgetCap <= 0 {
		m.BudgetCap = intake.DefaultBudgetCap
	}
	return m
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename builds HomeAssessment_{name}_{YYYY-MM-DD}.{ext}. Non-alphanumeric
// characters in the name become underscores and the name is cut to 30.
func Filename(clientName string, date time.Time, ext string) string {
	name := "Assessment"
	if strings.TrimSpace(clientName) != "" {
		name = nonAlnum.ReplaceAllString(clientName, "_")
		if len(name) > 30 {
			name = name[:30]
		}
	}
	return fmt.Sprintf("HomeAssessment_%s_%s.%s", name, date.UTC().Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}

func SafetyScoreLabel(score float64) string {
	switch {
	case score >= 80:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 40:
		return "Needs Attention"
	default:
		return "Critical"
	}
}

func SeverityLabel(severity int) string {
	switch {
	case severity >= 4:
		return "Critical"
	case severity == 3:
		return "High"
	case severity == 2:
		return "Moderate"
	case severity == 1:
		return "Low"
	default:
		return "None"
	}
}

func DifficultyLabel(level int) string {
	switch level {
	case intake.DifficultyNone:
		return "None"
	case intake.DifficultySome:
		return "Some"
	case intake.DifficultyMuch:
		return "Much"
	case intake.DifficultyUnable:
		return "Unable"
	}
	return "Unknown"
}

func FrequencyLabel(freq int) string {
	switch freq {
	case intake.FrequencyNever:
		return "Never"
	case intake.FrequencyRarely:
		return "Rarely"
	case intake.FrequencySometimes:
		return "Sometimes"
	case intake.FrequencyFrequently:
		return "Frequently"
	case intake.FrequencyAlways:
		return "Always"
	}
	return "Unknown"
}

// FormatCurrency renders whole US dollars with thousands separators.
func FormatCurrency(amount float64) string {
	neg := amount < 0
	digits := strconv.FormatInt(int64(math.Round(math.Abs(amount))), 10)
	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("$")
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(",")
		}
		b.WriteRune(c)
	}
	return b.String()
}

func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

func humanize(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
