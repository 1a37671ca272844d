// internal/models/validation.go
package models

const (
	IssueSeverityMajor = "major"
	IssueSeverityMinor = "minor"
)

// ValidationIssue describes one problem found while validating content
// against a brand profile.
type ValidationIssue struct {
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// ValidationResult is the single-item validation verdict.
// Invariant: OverallScore = round(0.6*BrandConsistencyScore + 0.4*QualityScore).
type ValidationResult struct {
	BrandConsistencyScore int               `json:"brandConsistencyScore"`
	QualityScore          int               `json:"qualityScore"`
	OverallScore          int               `json:"overallScore"`
	PassesValidation      bool              `json:"passesValidation"`
	Strengths             []string          `json:"strengths"`
	Issues                []ValidationIssue `json:"issues"`
	Recommendations       []string          `json:"recommendations"`
	Summary               string            `json:"summary"`
}

// RankedContentEntry is one row of a ranking result. Entries that failed to
// score carry zeroed scores and a fixed recommendation instead of being
// dropped from the batch.
type RankedContentEntry struct {
	ContentID             string `json:"contentId"`
	MediaType             string `json:"mediaType"`
	TextContent           string `json:"textContent"`
	BrandConsistencyScore int    `json:"brandConsistencyScore"`
	QualityScore          int    `json:"qualityScore"`
	OverallScore          int    `json:"overallScore"`
	Recommendation        string `json:"recommendation"`
}
