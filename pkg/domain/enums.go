package domain

import (
	"slices"
	"strings"
)

// enumeration is a closed set of lowercase names shared by the enumerated
// value objects below.
type enumeration struct {
	values []string
	err    *Error
}

func (e enumeration) parse(v string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(v))
	if slices.Contains(e.values, norm) {
		return norm, nil
	}
	return "", Errorf(e.err, "%q is not one of [%s]", v, strings.Join(e.values, ", "))
}

var (
	industries = enumeration{err: ErrInvalidIndustry, values: []string{
		"information technology", "finance", "healthcare", "manufacturing", "retail",
		"education", "construction", "logistics", "telecommunications", "other",
	}}
	companySizes = enumeration{err: ErrInvalidCompanySize, values: []string{
		"micro", "small", "medium", "large",
	}}
	legalForms = enumeration{err: ErrInvalidLegalForm, values: []string{
		"sole proprietorship", "partnership", "limited liability company", "joint-stock company", "other",
	}}
	acquisitionSources = enumeration{err: ErrInvalidAcquisitionSource, values: []string{
		"ads", "recommendation", "website", "cold call", "social media", "event", "other",
	}}
	opportunityStages = enumeration{err: ErrInvalidStage, values: []string{
		"prospecting", "qualification", "needs analysis", "proposal", "negotiation", "closed won", "closed lost",
	}}
	priorities = enumeration{err: ErrInvalidPriority, values: []string{
		"low", "medium", "high", "urgent",
	}}
)

// Industry is the business sector of a customer company.
type Industry struct{ name string }

// NewIndustry validates name against the supported industries.
func NewIndustry(name string) (Industry, error) {
	n, err := industries.parse(name)
	if err != nil {
		return Industry{}, err
	}
	return Industry{name: n}, nil
}

// Industries lists the accepted industry names.
func Industries() []string { return slices.Clone(industries.values) }

func (i Industry) Name() string   { return i.name }
func (i Industry) String() string { return i.name }

// CompanySize buckets a company by headcount.
type CompanySize struct{ name string }

// NewCompanySize validates name against the supported sizes.
func NewCompanySize(name string) (CompanySize, error) {
	n, err := companySizes.parse(name)
	if err != nil {
		return CompanySize{}, err
	}
	return CompanySize{name: n}, nil
}

func (s CompanySize) Name() string   { return s.name }
func (s CompanySize) String() string { return s.name }

// LegalForm is the registered legal form of a company.
type LegalForm struct{ name string }

// NewLegalForm validates name against the supported legal forms.
func NewLegalForm(name string) (LegalForm, error) {
	n, err := legalForms.parse(name)
	if err != nil {
		return LegalForm{}, err
	}
	return LegalForm{name: n}, nil
}

func (f LegalForm) Name() string   { return f.name }
func (f LegalForm) String() string { return f.name }

// AcquisitionSource records how a lead or opportunity reached the company.
type AcquisitionSource struct{ name string }

// NewAcquisitionSource validates name against the supported sources.
func NewAcquisitionSource(name string) (AcquisitionSource, error) {
	n, err := acquisitionSources.parse(name)
	if err != nil {
		return AcquisitionSource{}, err
	}
	return AcquisitionSource{name: n}, nil
}

// AcquisitionSources lists the accepted source names.
func AcquisitionSources() []string { return slices.Clone(acquisitionSources.values) }

func (s AcquisitionSource) Name() string   { return s.name }
func (s AcquisitionSource) String() string { return s.name }

// OpportunityStage is the sales pipeline stage of an opportunity.
type OpportunityStage struct{ name string }

// NewOpportunityStage validates name against the pipeline stages.
func NewOpportunityStage(name string) (OpportunityStage, error) {
	n, err := opportunityStages.parse(name)
	if err != nil {
		return OpportunityStage{}, err
	}
	return OpportunityStage{name: n}, nil
}

// OpportunityStages lists the pipeline stages in order.
func OpportunityStages() []string { return slices.Clone(opportunityStages.values) }

func (s OpportunityStage) Name() string   { return s.name }
func (s OpportunityStage) String() string { return s.name }

// Priority ranks an opportunity.
type Priority struct{ name string }

// NewPriority validates name against the supported priorities.
func NewPriority(name string) (Priority, error) {
	n, err := priorities.parse(name)
	if err != nil {
		return Priority{}, err
	}
	return Priority{name: n}, nil
}

func (p Priority) Name() string   { return p.name }
func (p Priority) String() string { return p.name }
