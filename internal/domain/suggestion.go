package domain

// Severity is the urgency of a suggestion.
type Severity string

// Severity levels, lowest first.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from most to least urgent.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank returns critical=4, high=3, medium=2, low=1 and 0 for unknown values.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Category classifies what a suggestion is about.
type Category string

const (
	CategoryComplexity    Category = "complexity"
	CategoryNaming        Category = "naming"
	CategorySecurity      Category = "security"
	CategoryDuplication   Category = "duplication"
	CategoryTesting       Category = "testing"
	CategoryDocumentation Category = "documentation"
	CategoryTechnicalDebt Category = "technical-debt"
	CategoryDependencies  Category = "dependencies"
)

// Suggestion is a single improvement proposal. Values are never mutated once
// created; ranking produces a reordered copy.
type Suggestion struct {
	File        string   `json:"file_path"`
	Line        int      `json:"line_number"`
	Category    Category `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Current     string   `json:"current_code"`
	Suggested   string   `json:"suggested_code"`
	Rationale   string   `json:"rationale"`
}

// SeverityHistogram counts suggestions per severity.
type SeverityHistogram struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// NewSeverityHistogram counts the severities of the given suggestions.
func NewSeverityHistogram(suggestions []Suggestion) SeverityHistogram {
	var h SeverityHistogram
	for _, s := range suggestions {
		switch s.Severity {
		case SeverityCritical:
			h.Critical++
		case SeverityHigh:
			h.High++
		case SeverityMedium:
			h.Medium++
		case SeverityLow:
			h.Low++
		}
	}
	return h
}

// Total returns the sum of all buckets.
func (h SeverityHistogram) Total() int {
	return h.Critical + h.High + h.Medium + h.Low
}
