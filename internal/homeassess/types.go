package homeassess

import (
	"encoding/json"
	"math"

	"github.com/joelkehle/homeassess/internal/intake"
)

type Confidence struct {
	Overall         float64 `json:"overall"`
	ImageQuality    float64 `json:"imageQuality"`
	HazardDetection float64 `json:"hazardDetection"`
	Recommendations float64 `json:"recommendations"`
}

type DetectedRoom struct {
	RoomType   string   `json:"roomType"`
	ImageIDs   []string `json:"imageIds"`
	Confidence float64  `json:"confidence"`
}

type HazardLocation struct {
	Room         string `json:"room"`
	SpecificArea string `json:"specificArea,omitempty"`
}

type DetectedHazard struct {
	ID          string         `json:"id"`
	ImageID     string         `json:"imageId"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Severity    int            `json:"severity"`
	Location    HazardLocation `json:"location"`
	AffectsADLs []string       `json:"affectsADLs"`
	Confidence  float64        `json:"confidence"`
}

type AccessibilityFeature struct {
	Feature   string `json:"feature"`
	ImageID   string `json:"imageId"`
	Location  string `json:"location"`
	Condition string `json:"condition"`
}

type ModificationCost struct {
	Materials float64 `json:"materials"`
	Labor     float64 `json:"labor"`
	Total     float64 `json:"total"`
}

type RecommendedModification struct {
	ID               string `json:"id"`
	Category         string `json:"category"`
	Subcategory      string `json:"subcategory"`
	Description      string `json:"description"`
	Room             string `json:"room"`
	SpecificLocation string `json:"specificLocation,omitempty"`

	AddressesHazard    string   `json:"addressesHazard"`
	AffectedADLs       []string `json:"affectedADLs"`
	AffectedIADLs      []string `json:"affectedIADLs"`
	FallsRiskReduction string   `json:"fallsRiskReduction"`

	Priority              int    `json:"priority"`
	PriorityJustification string `json:"priorityJustification"`

	EstimatedCost ModificationCost `json:"estimatedCost"`

	ModificationType            string `json:"modificationType"`
	RequiresLicensedContractor  bool   `json:"requiresLicensedContractor"`
	RequiresPermit              bool   `json:"requiresPermit"`
	RequiresEnvironmentalReview bool   `json:"requiresEnvironmentalReview"`

	Specifications         string   `json:"specifications,omitempty"`
	ProductRecommendations []string `json:"productRecommendations,omitempty"`
}

type AdaptiveEquipment struct {
	ID                   string   `json:"id"`
	Category             string   `json:"category"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	AddressesADL         []string `json:"addressesADL"`
	AddressesIADL        []string `json:"addressesIADL"`
	ReducesRisk          string   `json:"reducesRisk"`
	EstimatedCost        float64  `json:"estimatedCost"`
	RequiresInstallation bool     `json:"requiresInstallation"`
	RequiresTraining     bool     `json:"requiresTraining"`
	Priority             int      `json:"priority"`
}

type CostRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type Summary struct {
	OverallSafetyScore      float64   `json:"overallSafetyScore"`
	CriticalIssuesCount     int       `json:"criticalIssuesCount"`
	PrimaryRiskAreas        []string  `json:"primaryRiskAreas"`
	EstimatedTotalCost      CostRange `json:"estimatedTotalCost"`
	TopThreeRecommendations []string  `json:"topThreeRecommendations"`
}

// AssessmentOutput is the enriched assessment returned to callers. The
// functional sections are copied from the request, never from the model.
type AssessmentOutput struct {
	Confidence Confidence `json:"confidence"`

	ADL       *intake.ADLAssessment       `json:"adl,omitempty"`
	IADL      *intake.IADLAssessment      `json:"iadl,omitempty"`
	Mobility  *intake.MobilityAssessment  `json:"mobility,omitempty"`
	FallsRisk *intake.FallsRiskAssessment `json:"fallsRisk,omitempty"`

	DetectedRooms         []DetectedRoom            `json:"detectedRooms"`
	DetectedHazards       []DetectedHazard          `json:"detectedHazards"`
	ExistingAccessibility []AccessibilityFeature    `json:"existingAccessibility"`
	Recommendations       []RecommendedModification `json:"recommendations"`
	EquipmentSuggestions  []AdaptiveEquipment       `json:"equipmentSuggestions"`

	Summary Summary `json:"summary"`

	Limitations                    []string `json:"limitations"`
	AdditionalPhotosNeeded         []string `json:"additionalPhotosNeeded"`
	RequiresProfessionalAssessment bool     `json:"requiresProfessionalAssessment"`
	ProfessionalAssessmentReason   string   `json:"professionalAssessmentReason,omitempty"`
}

// RawOutput is the model response as decoded, before defaults are applied.
// Pointer fields distinguish an absent value from a zero one.
type RawOutput struct {
	Confidence *RawConfidence `json:"confidence"`

	DetectedRooms         []DetectedRoom            `json:"detectedRooms"`
	DetectedHazards       []DetectedHazard          `json:"detectedHazards"`
	ExistingAccessibility []AccessibilityFeature    `json:"existingAccessibility"`
	Recommendations       []RecommendedModification `json:"recommendations"`
	EquipmentSuggestions  []AdaptiveEquipment       `json:"equipmentSuggestions"`

	Summary *RawSummary `json:"summary"`

	Limitations                    []string `json:"limitations"`
	AdditionalPhotosNeeded         []string `json:"additionalPhotosNeeded"`
	RequiresProfessionalAssessment *bool    `json:"requiresProfessionalAssessment"`
	ProfessionalAssessmentReason   string   `json:"professionalAssessmentReason"`
}

type RawConfidence struct {
	Overall         *float64 `json:"overall"`
	ImageQuality    *float64 `json:"imageQuality"`
	HazardDetection *float64 `json:"hazardDetection"`
	Recommendations *float64 `json:"recommendations"`
}

type RawSummary struct {
	OverallSafetyScore      *float64   `json:"overallSafetyScore"`
	CriticalIssuesCount     int        `json:"criticalIssuesCount"`
	PrimaryRiskAreas        []string   `json:"primaryRiskAreas"`
	EstimatedTotalCost      *CostRange `json:"estimatedTotalCost"`
	TopThreeRecommendations []string   `json:"topThreeRecommendations"`
}

// flexInt decodes any JSON number into an int, rounding to the nearest whole
// value. Models often write integer fields as 4.0.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = flexInt(math.Round(f))
	return nil
}

func (h *DetectedHazard) UnmarshalJSON(data []byte) error {
	type alias DetectedHazard
	aux := struct {
		*alias
		Severity flexInt `json:"severity"`
	}{alias: (*alias)(h), Severity: flexInt(h.Severity)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	h.Severity = int(aux.Severity)
	return nil
}

func (r *RecommendedModification) UnmarshalJSON(data []byte) error {
	type alias RecommendedModification
	aux := struct {
		*alias
		Priority flexInt `json:"priority"`
	}{alias: (*alias)(r), Priority: flexInt(r.Priority)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Priority = int(aux.Priority)
	return nil
}

func (e *AdaptiveEquipment) UnmarshalJSON(data []byte) error {
	type alias AdaptiveEquipment
	aux := struct {
		*alias
		Priority flexInt `json:"priority"`
	}{alias: (*alias)(e), Priority: flexInt(e.Priority)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Priority = int(aux.Priority)
	return nil
}

func (s *RawSummary) UnmarshalJSON(data []byte) error {
	type alias RawSummary
	aux := struct {
		*alias
		CriticalIssuesCount flexInt `json:"criticalIssuesCount"`
	}{alias: (*alias)(s), CriticalIssuesCount: flexInt(s.CriticalIssuesCount)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.CriticalIssuesCount = int(aux.CriticalIssuesCount)
	return nil
}
