package models

// SectionType identifies one step of the funding application.
type SectionType string

const (
	SectionCompanyInfo        SectionType = "company-info"
	SectionBusinessAssessment SectionType = "business-assessment"
	SectionSWOTAnalysis       SectionType = "swot-analysis"
	SectionManagement         SectionType = "management"
	SectionBusinessStrategy   SectionType = "business-strategy"
	SectionFinancialProfile   SectionType = "financial-profile"
	SectionDocuments          SectionType = "documents"
)

// AllSectionTypes lists every section in application order.
var AllSectionTypes = []SectionType{
	SectionCompanyInfo,
	SectionBusinessAssessment,
	SectionSWOTAnalysis,
	SectionManagement,
	SectionBusinessStrategy,
	SectionFinancialProfile,
	SectionDocuments,
}

// RequiredSectionTypes must all be completed before submission.
var RequiredSectionTypes = []SectionType{
	SectionCompanyInfo,
	SectionBusinessAssessment,
	SectionSWOTAnalysis,
	SectionManagement,
	SectionBusinessStrategy,
	SectionFinancialProfile,
}

// OptionalSectionTypes may be left out of a submission.
var OptionalSectionTypes = []SectionType{SectionDocuments}

// TotalSectionCount is the number of sections a full application has.
const TotalSectionCount = 7

// ParseSectionType returns the section type for raw, or false if raw is not one.
func ParseSectionType(raw string) (SectionType, bool) {
	for _, t := range AllSectionTypes {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}

// IsRequired reports whether t takes part in the submission gate.
func (t SectionType) IsRequired() bool {
	for _, r := range RequiredSectionTypes {
		if r == t {
			return true
		}
	}
	return false
}

// HasSchema is false for sections accepted as free-form records.
func (t SectionType) HasSchema() bool {
	return t != SectionDocuments
}
