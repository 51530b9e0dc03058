package intake

import (
	"errors"
	"fmt"
	"strings"
)

const DefaultBudgetCap = 5000

var (
	ErrNoImages           = errors.New("at least one image is required")
	ErrInvalidProgramType = errors.New("invalid program type")
	ErrInvalidAssessment  = errors.New("invalid assessment")
)

// BuildAssessmentInput turns a wizard submission into the request handed to
// the analyzer. Values from the nested full assessment take precedence over
// the legacy flat fields; derived scores are recomputed from their inputs.
func BuildAssessmentInput(ws WizardState) (AssessmentInput, error) {
	if len(ws.Images) == 0 {
		return AssessmentInput{}, ErrNoImages
	}

	ctx := ws.AssessmentContext
	ctx.ProgramType = ProgramType(strings.ToUpper(strings.TrimSpace(string(ctx.ProgramType))))
	if ctx.ProgramType == "" {
		ctx.ProgramType = ProgramOAHMP
	}
	if !ctx.ProgramType.Valid() {
		return AssessmentInput{}, fmt.Errorf("%w: %q", ErrInvalidProgramType, ws.AssessmentContext.ProgramType)
	}
	if ctx.BudgetCap <= 0 {
		ctx.BudgetCap = DefaultBudgetCap
	}
	ctx.PriorityAreas = append([]string(nil), ctx.PriorityAreas...)

	images := make([]ImageRef, len(ws.Images))
	for i, img := range ws.Images {
		if strings.TrimSpace(img.ID) == "" {
			img.ID = fmt.Sprintf("img-%d", i+1)
		}
		images[i] = img
	}

	full := cloneFullAssessment(ws.FullAssessment)
	if full != nil {
		if err := full.validate(); err != nil {
			return AssessmentInput{}, fmt.Errorf("%w: %v", ErrInvalidAssessment, err)
		}
		full.recompute()
	}

	return AssessmentInput{
		Images:            images,
		SelfReportedInfo:  mergeSelfReported(legacyClient(ws), full),
		PropertyInfo:      mergeProperty(ws.PropertyInfo, full),
		AssessmentContext: ctx,
		FullAssessment:    full,
	}, nil
}

func legacyClient(ws WizardState) SelfReportedInfo {
	switch {
	case ws.SelfReportedInfo != nil:
		return *ws.SelfReportedInfo
	case ws.ClientInfo != nil:
		return *ws.ClientInfo
	}
	return SelfReportedInfo{}
}

func mergeSelfReported(legacy SelfReportedInfo, full *FullAssessment) SelfReportedInfo {
	out := legacy
	out.MobilityAids = append([]string(nil), legacy.MobilityAids...)
	out.PrimaryConcerns = append([]string(nil), legacy.PrimaryConcerns...)
	out.CurrentMedicalConditions = append([]string(nil), legacy.CurrentMedicalConditions...)
	if full == nil {
		return out
	}
	if d := full.ClientDemographics; d != nil {
		if name := strings.TrimSpace(d.FullName()); name != "" {
			out.Name = name
		}
		if addr := d.Address.String(); addr != "" {
			out.Address = addr
		}
		if d.Age != nil {
			out.Age = d.Age
		}
		if d.LivesAlone != nil {
			out.LivesAlone = d.LivesAlone
		}
	}
	if m := full.MobilityAssessment; m != nil {
		if aids := m.Aids(); len(aids) > 0 {
			out.MobilityAids = aids
		}
	}
	if f := full.FallsRiskAssessment; f != nil {
		fallen := f.HasFallenPastYear
		out.RecentFalls = &fallen
	}
	return out
}

func mergeProperty(legacy *PropertyInfo, full *FullAssessment) PropertyInfo {
	var out PropertyInfo
	if legacy != nil {
		out = *legacy
	}
	if full == nil || full.PropertyCharacteristics == nil {
		return out
	}
	p := full.PropertyCharacteristics
	switch {
	case p.PropertyType != "":
		out.Type = p.PropertyType
	case p.HomeType != "":
		out.Type = p.HomeType
	}
	if p.YearBuilt > 0 {
		out.YearBuilt = p.YearBuilt
	}
	switch {
	case p.Stories > 0:
		out.Stories = p.Stories
	case p.NumberOfStories > 0:
		out.Stories = p.NumberOfStories
	}
	return out
}

// validate rejects the first section holding an out-of-range rating.
func (f *FullAssessment) validate() error {
	if f.ADLAssessment != nil {
		if err := f.ADLAssessment.Validate(); err != nil {
			return err
		}
	}
	if f.IADLAssessment != nil {
		if err := f.IADLAssessment.Validate(); err != nil {
			return err
		}
	}
	if f.MobilityAssessment != nil {
		if err := f.MobilityAssessment.Validate(); err != nil {
			return err
		}
	}
	if f.FallsRiskAssessment != nil {
		return f.FallsRiskAssessment.Validate()
	}
	return nil
}

func (f *FullAssessment) recompute() {
	if f.ADLAssessment != nil {
		f.ADLAssessment.Recompute()
	}
	if f.IADLAssessment != nil {
		f.IADLAssessment.Recompute()
	}
	if f.FallsRiskAssessment != nil {
		f.FallsRiskAssessment.Recompute()
	}
	if f.Eligibility != nil {
		var age *int
		if f.ClientDemographics != nil {
			age = f.ClientDemographics.Age
		}
		f.Eligibility.Recompute(age)
	}
}

// cloneFullAssessment copies every section so recomputation never writes
// through to the caller's wizard state.
func cloneFullAssessment(f *FullAssessment) *FullAssessment {
	if f == nil {
		return nil
	}
	out := &FullAssessment{}
	if f.ClientDemographics != nil {
		d := *f.ClientDemographics
		if d.Address != nil {
			a := *d.Address
			d.Address = &a
		}
		d.Race = append([]string(nil), d.Race...)
		out.ClientDemographics = &d
	}
	if f.Eligibility != nil {
		e := *f.Eligibility
		e.IncomeDocumentation = append([]string(nil), e.IncomeDocumentation...)
		out.Eligibility = &e
	}
	if f.PropertyCharacteristics != nil {
		p := *f.PropertyCharacteristics
		p.ExistingAccessibilityFeatures = append([]string(nil), p.ExistingAccessibilityFeatures...)
		out.PropertyCharacteristics = &p
	}
	if f.ADLAssessment != nil {
		a := *f.ADLAssessment
		out.ADLAssessment = &a
	}
	if f.IADLAssessment != nil {
		a := *f.IADLAssessment
		out.IADLAssessment = &a
	}
	if f.MobilityAssessment != nil {
		m := *f.MobilityAssessment
		out.MobilityAssessment = &m
	}
	if f.FallsRiskAssessment != nil {
		fr := *f.FallsRiskAssessment
		fr.FallDetails = append([]FallDetail(nil), fr.FallDetails...)
		out.FallsRiskAssessment = &fr
	}
	return out
}
