package intake

// Difficulty levels for ADL and IADL activities.
const (
	DifficultyNone   = 0
	DifficultySome   = 1
	DifficultyMuch   = 2
	DifficultyUnable = 3
)

// Device usage frequency levels.
const (
	FrequencyNever      = 0
	FrequencyRarely     = 1
	FrequencySometimes  = 2
	FrequencyFrequently = 3
	FrequencyAlways     = 4
)

const (
	ActivityCount     = 8
	MaxActivityScore  = ActivityCount * DifficultyUnable
	EfficacyItemCount = 10
	MinEfficacyRating = 1
	MaxEfficacyRating = 10
)

type ProgramType string

const (
	ProgramOAHMP ProgramType = "OAHMP"
	ProgramCIL   ProgramType = "CIL"
	ProgramAAA   ProgramType = "AAA"
	ProgramCDBG  ProgramType = "CDBG"
	ProgramOther ProgramType = "OTHER"
)

func (p ProgramType) Valid() bool {
	switch p {
	case ProgramOAHMP, ProgramCIL, ProgramAAA, ProgramCDBG, ProgramOther:
		return true
	}
	return false
}

type IndependenceLevel string

const (
	IndependenceFully       IndependenceLevel = "fully_independent"
	IndependenceMostly      IndependenceLevel = "mostly_independent"
	IndependenceModerate    IndependenceLevel = "moderately_impaired"
	IndependenceSignificant IndependenceLevel = "significant_assistance"
	IndependenceDependent   IndependenceLevel = "dependent"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

type RestFrequency string

const (
	RestNever        RestFrequency = "never"
	RestOccasionally RestFrequency = "occasionally"
	RestFrequently   RestFrequency = "frequently"
	RestAlways       RestFrequency = "always"
)

type FallLocation string

const (
	FallBathroom FallLocation = "bathroom"
	FallBedroom  FallLocation = "bedroom"
	FallKitchen  FallLocation = "kitchen"
	FallStairs   FallLocation = "stairs"
	FallEntrance FallLocation = "entrance"
	FallYard     FallLocation = "yard"
	FallOther    FallLocation = "other"
)

type OwnershipType string

const (
	OwnershipSole   OwnershipType = "sole_owner"
	OwnershipJoint  OwnershipType = "joint_owner"
	OwnershipSpouse OwnershipType = "spouse_of_owner"
	OwnershipTrust  OwnershipType = "trust"
	OwnershipOther  OwnershipType = "other"
)

type ActivityDifficulty struct {
	DifficultyLevel   int      `json:"difficultyLevel"`
	NeedsHelp         bool     `json:"needsHelp"`
	Notes             string   `json:"notes,omitempty"`
	HazardsIdentified []string `json:"hazardsIdentified,omitempty"`
}

// ActivityScore is the derived part of an ADL or IADL assessment.
type ActivityScore struct {
	TotalDifficulties int               `json:"totalDifficulties"`
	TotalScore        int               `json:"totalScore"`
	IndependenceLevel IndependenceLevel `json:"independenceLevel"`
}

// ADLAssessment follows the Katz Index of Independence.
type ADLAssessment struct {
	Bathing           ActivityDifficulty `json:"bathing"`
	DressingUpperBody ActivityDifficulty `json:"dressingUpperBody"`
	DressingLowerBody ActivityDifficulty `json:"dressingLowerBody"`
	Transferring      ActivityDifficulty `json:"transferring"`
	Eating            ActivityDifficulty `json:"eating"`
	Toileting         ActivityDifficulty `json:"toileting"`
	Walking           ActivityDifficulty `json:"walking"`
	Grooming          ActivityDifficulty `json:"grooming"`

	ActivityScore
	IdentifiedHazards []string `json:"identifiedHazards,omitempty"`
}

// IADLAssessment follows the Lawton-Brody scale.
type IADLAssessment struct {
	PreparingMeals   ActivityDifficulty `json:"preparingMeals"`
	LightHousework   ActivityDifficulty `json:"lightHousework"`
	Shopping         ActivityDifficulty `json:"shopping"`
	UsingTelephone   ActivityDifficulty `json:"usingTelephone"`
	Laundry          ActivityDifficulty `json:"laundry"`
	Transportation   ActivityDifficulty `json:"transportation"`
	Medications      ActivityDifficulty `json:"medications"`
	ManagingFinances ActivityDifficulty `json:"managingFinances"`

	ActivityScore
	IdentifiedHazards []string `json:"identifiedHazards,omitempty"`
}

// NamedActivity pairs an activity with its display label.
type NamedActivity struct {
	Label    string
	Activity ActivityDifficulty
}

func (a ADLAssessment) Activities() []NamedActivity {
	return []NamedActivity{
		{"Bathing", a.Bathing},
		{"Dressing Upper Body", a.DressingUpperBody},
		{"Dressing Lower Body", a.DressingLowerBody},
		{"Transferring", a.Transferring},
		{"Eating", a.Eating},
		{"Toileting", a.Toileting},
		{"Walking", a.Walking},
		{"Grooming", a.Grooming},
	}
}

func (a IADLAssessment) Activities() []NamedActivity {
	return []NamedActivity{
		{"Preparing Meals", a.PreparingMeals},
		{"Light Housework", a.LightHousework},
		{"Shopping", a.Shopping},
		{"Using Telephone", a.UsingTelephone},
		{"Laundry", a.Laundry},
		{"Transportation", a.Transportation},
		{"Medications", a.Medications},
		{"Managing Finances", a.ManagingFinances},
	}
}

type DeviceUsage struct {
	DeviceType string `json:"deviceType,omitempty"`
	Frequency  int    `json:"frequency"`
	IndoorUse  bool   `json:"indoorUse"`
	OutdoorUse bool   `json:"outdoorUse"`
}

type MobilityAssessment struct {
	UsesWheelchair  DeviceUsage `json:"usesWheelchair"`
	UsesWalker      DeviceUsage `json:"usesWalker"`
	UsesCane        DeviceUsage `json:"usesCane"`
	UsesOtherDevice DeviceUsage `json:"usesOtherDevice"`

	BalanceIssues bool   `json:"balanceIssues"`
	BalanceNotes  string `json:"balanceNotes,omitempty"`
	GaitIssues    bool   `json:"gaitIssues"`
	GaitNotes     string `json:"gaitNotes,omitempty"`

	CanWalkOneBlock        bool          `json:"canWalkOneBlock"`
	CanClimbFlightOfStairs bool          `json:"canClimbFlightOfStairs"`
	RestFrequency          RestFrequency `json:"restFrequency,omitempty"`
}

// Aids lists the mobility aids in use, in wheelchair, walker, cane, other order.
func (m MobilityAssessment) Aids() []string {
	var aids []string
	if m.UsesWheelchair.Frequency > 0 {
		aids = append(aids, "wheelchair")
	}
	if m.UsesWalker.Frequency > 0 {
		aids = append(aids, "walker")
	}
	if m.UsesCane.Frequency > 0 {
		aids = append(aids, "cane")
	}
	if m.UsesOtherDevice.DeviceType != "" {
		aids = append(aids, m.UsesOtherDevice.DeviceType)
	}
	return aids
}

type FallDetail struct {
	Location                 FallLocation `json:"location"`
	LocationSpecific         string       `json:"locationSpecific,omitempty"`
	CausedInjury             bool         `json:"causedInjury"`
	InjuryType               string       `json:"injuryType,omitempty"`
	RequiredMedicalAttention bool         `json:"requiredMedicalAttention"`
	WasHospitalized          bool         `json:"wasHospitalized"`
	NightsHospitalized       int          `json:"nightsHospitalized"`
}

// FallsEfficacy ratings run 1 (very concerned) to 10 (not concerned).
type FallsEfficacy struct {
	CleaningHouse         int `json:"cleaningHouse"`
	GettingDressed        int `json:"gettingDressed"`
	PreparingMeals        int `json:"preparingMeals"`
	TakingBath            int `json:"takingBath"`
	GoingShopping         int `json:"goingShopping"`
	GettingInOutChair     int `json:"gettingInOutChair"`
	GoingUpDownStairs     int `json:"goingUpDownStairs"`
	WalkingInNeighborhood int `json:"walkingInNeighborhood"`
	ReachingInCabinets    int `json:"reachingInCabinets"`
	AnsweringDoor         int `json:"answeringDoor"`
	TotalScore            int `json:"totalScore"`
}

func (f FallsEfficacy) Ratings() []int {
	return []int{
		f.CleaningHouse,
		f.GettingDressed,
		f.PreparingMeals,
		f.TakingBath,
		f.GoingShopping,
		f.GettingInOutChair,
		f.GoingUpDownStairs,
		f.WalkingInNeighborhood,
		f.ReachingInCabinets,
		f.AnsweringDoor,
	}
}

// RiskFactors is the CDC STEADI risk factor checklist.
type RiskFactors struct {
	HistoryOfFalls       bool `json:"historyOfFalls"`
	FearOfFalling        bool `json:"fearOfFalling"`
	MobilityProblems     bool `json:"mobilityProblems"`
	BalanceProblems      bool `json:"balanceProblems"`
	VisionProblems       bool `json:"visionProblems"`
	CognitiveImpairment  bool `json:"cognitiveImpairment"`
	MedicationRisks      bool `json:"medicationRisks"`
	Incontinence         bool `json:"incontinence"`
	FootProblems         bool `json:"footProblems"`
	EnvironmentalHazards bool `json:"environmentalHazards"`
}

// NamedFactor pairs a risk factor with its display label.
type NamedFactor struct {
	Label   string
	Present bool
}

func (r RiskFactors) Named() []NamedFactor {
	return []NamedFactor{
		{"History of Falls", r.HistoryOfFalls},
		{"Fear of Falling", r.FearOfFalling},
		{"Mobility Problems", r.MobilityProblems},
		{"Balance Problems", r.BalanceProblems},
		{"Vision Problems", r.VisionProblems},
		{"Cognitive Impairment", r.CognitiveImpairment},
		{"Medication Risks", r.MedicationRisks},
		{"Incontinence", r.Incontinence},
		{"Foot Problems", r.FootProblems},
		{"Environmental Hazards", r.EnvironmentalHazards},
	}
}

func (r RiskFactors) Count() int {
	n := 0
	for _, f := range r.Named() {
		if f.Present {
			n++
		}
	}
	return n
}

type FallsRiskAssessment struct {
	HasFallenPastYear bool         `json:"hasFallenPastYear"`
	NumberOfFalls     int          `json:"numberOfFalls"`
	FallDetails       []FallDetail `json:"fallDetails,omitempty"`

	FallsEfficacy FallsEfficacy `json:"fallsEfficacy"`
	RiskFactors   RiskFactors   `json:"riskFactors"`

	OverallRiskLevel   RiskLevel `json:"overallRiskLevel"`
	FallsEfficacyScore int       `json:"fallsEfficacyScore,omitempty"`
	Notes              string    `json:"notes,omitempty"`
}

type EligibilityVerification struct {
	MeetsAgeRequirement bool `json:"meetsAgeRequirement"`

	IsHomeowner            bool          `json:"isHomeowner"`
	OwnershipType          OwnershipType `json:"ownershipType,omitempty"`
	OwnershipDocumentation string        `json:"ownershipDocumentation,omitempty"`

	HouseholdIncome        *float64 `json:"householdIncome,omitempty"`
	AreaMedianIncome       float64  `json:"areaMedianIncome,omitempty"`
	IncomePercentOfAMI     *int     `json:"incomePercentOfAMI,omitempty"`
	MeetsIncomeRequirement bool     `json:"meetsIncomeRequirement"`
	IncomeDocumentation    []string `json:"incomeDocumentation,omitempty"`

	IsPrimaryResidence bool `json:"isPrimaryResidence"`
	YearsAtResidence   int  `json:"yearsAtResidence,omitempty"`

	IsEligible       bool   `json:"isEligible"`
	EligibilityNotes string `json:"eligibilityNotes,omitempty"`
	VerifiedBy       string `json:"verifiedBy,omitempty"`
	VerifiedDate     string `json:"verifiedDate,omitempty"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	County  string `json:"county,omitempty"`
}

func (a *Address) String() string {
	if a == nil || a.Street == "" {
		return ""
	}
	return a.Street + ", " + a.City + ", " + a.State + " " + a.ZipCode
}

type ClientDemographics struct {
	ClientID    string   `json:"clientId,omitempty"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
	Address     *Address `json:"address,omitempty"`
	Race        []string `json:"race,omitempty"`
	Ethnicity   string   `json:"ethnicity,omitempty"`

	LivesAlone            *bool  `json:"livesAlone,omitempty"`
	HouseholdSize         int    `json:"householdSize,omitempty"`
	AdultsOver62          int    `json:"adultsOver62,omitempty"`
	HasCaregiver          bool   `json:"hasCaregiver,omitempty"`
	CaregiverRelationship string `json:"caregiverRelationship,omitempty"`
}

func (d ClientDemographics) FullName() string {
	switch {
	case d.FirstName == "":
		return d.LastName
	case d.LastName == "":
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

type PropertyCharacteristics struct {
	PropertyType    string `json:"propertyType,omitempty"`
	HomeType        string `json:"homeType,omitempty"`
	YearBuilt       int    `json:"yearBuilt,omitempty"`
	SquareFootage   int    `json:"squareFootage,omitempty"`
	Stories         int    `json:"stories,omitempty"`
	NumberOfStories int    `json:"numberOfStories,omitempty"`
	HasBasement     bool   `json:"hasBasement,omitempty"`
	HasGarage       bool   `json:"hasGarage,omitempty"`

	PrimaryEntryType     string `json:"primaryEntryType,omitempty"`
	NumberOfStepsToEntry int    `json:"numberOfStepsToEntry,omitempty"`

	Bedrooms  int `json:"bedrooms,omitempty"`
	Bathrooms int `json:"bathrooms,omitempty"`
	HalfBaths int `json:"halfBaths,omitempty"`

	ExistingAccessibilityFeatures []string `json:"existingAccessibilityFeatures,omitempty"`
}

type ImageRef struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Room      string `json:"room,omitempty"`
	UserNotes string `json:"userNotes,omitempty"`
}

type SelfReportedInfo struct {
	Name                     string   `json:"name,omitempty"`
	Address                  string   `json:"address,omitempty"`
	Age                      *int     `json:"age,omitempty"`
	LivesAlone               *bool    `json:"livesAlone,omitempty"`
	MobilityAids             []string `json:"mobilityAids,omitempty"`
	RecentFalls              *bool    `json:"recentFalls,omitempty"`
	PrimaryConcerns          []string `json:"primaryConcerns,omitempty"`
	CurrentMedicalConditions []string `json:"currentMedicalConditions,omitempty"`
}

type PropertyInfo struct {
	Type      string `json:"type,omitempty"`
	YearBuilt int    `json:"yearBuilt,omitempty"`
	Stories   int    `json:"stories,omitempty"`
}

type AssessmentContext struct {
	ProgramType   ProgramType `json:"programType"`
	BudgetCap     float64     `json:"budgetCap,omitempty"`
	PriorityAreas []string    `json:"priorityAreas,omitempty"`
}

type FullAssessment struct {
	ClientDemographics      *ClientDemographics      `json:"clientDemographics,omitempty"`
	Eligibility             *EligibilityVerification `json:"eligibility,omitempty"`
	PropertyCharacteristics *PropertyCharacteristics `json:"propertyCharacteristics,omitempty"`
	ADLAssessment           *ADLAssessment           `json:"adlAssessment,omitempty"`
	IADLAssessment          *IADLAssessment          `json:"iadlAssessment,omitempty"`
	MobilityAssessment      *MobilityAssessment      `json:"mobilityAssessment,omitempty"`
	FallsRiskAssessment     *FallsRiskAssessment     `json:"fallsRiskAssessment,omitempty"`
}

// AssessmentInput is the normalized request handed to the analyzer.
type AssessmentInput struct {
	Images            []ImageRef        `json:"images"`
	SelfReportedInfo  SelfReportedInfo  `json:"selfReportedInfo"`
	PropertyInfo      PropertyInfo      `json:"propertyInfo"`
	AssessmentContext AssessmentContext `json:"assessmentContext"`
	FullAssessment    *FullAssessment   `json:"fullAssessment,omitempty"`
}

// WizardState is the submission body produced by the intake wizard. Both the
// legacy flat fields and the nested full assessment may be present.
type WizardState struct {
	Images            []ImageRef        `json:"images"`
	SelfReportedInfo  *SelfReportedInfo `json:"selfReportedInfo,omitempty"`
	ClientInfo        *SelfReportedInfo `json:"clientInfo,omitempty"`
	PropertyInfo      *PropertyInfo     `json:"propertyInfo,omitempty"`
	AssessmentContext AssessmentContext `json:"assessmentContext"`
	FullAssessment    *FullAssessment   `json:"fullAssessment,omitempty"`
}
