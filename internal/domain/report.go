package domain

import "time"

// AnalysisReport is the document written by the analyze pass and required as
// input by the refactor and scaffold passes.
type AnalysisReport struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Root        string    `json:"root"`

	TotalFiles int                    `json:"total_files"`
	TotalLines int                    `json:"total_lines"`
	Modules    map[string]ModuleStats `json:"modules"`

	Dependencies []string    `json:"dependencies"`
	Imports      []string    `json:"imports"`
	Exports      []string    `json:"exports"`
	Functions    []string    `json:"functions"`
	Classes      []string    `json:"classes"`
	Todos        []TodoEntry `json:"todos"`

	Coverage     CoverageEstimate `json:"coverage_estimate"`
	Improvements []Suggestion     `json:"suggested_improvements"`

	SkippedFiles []SkippedFile `json:"skipped_files,omitempty"`
	Diagnostics  []Diagnostic  `json:"diagnostics,omitempty"`

	Summary ReportSummary `json:"summary"`
}

// ReportSummary is the condensed view printed on the console and embedded in
// the analysis report.
type ReportSummary struct {
	TotalFiles           int     `json:"total_files"`
	TotalLines           int     `json:"total_lines"`
	TotalFunctions       int     `json:"total_functions"`
	TotalClasses         int     `json:"total_classes"`
	TotalModules         int     `json:"total_modules"`
	TotalTodos           int     `json:"total_todos"`
	AvgComplexity        float64 `json:"avg_complexity"`
	TestCoverageEstimate float64 `json:"test_coverage_estimate"`
	ImprovementCount     int     `json:"improvement_count"`
}

// SuggestionsReport is the refactor-suggestions document.
type SuggestionsReport struct {
	RunID            string            `json:"run_id"`
	GeneratedAt      time.Time         `json:"generated_at"`
	TotalSuggestions int               `json:"total_suggestions"`
	Suggestions      []Suggestion      `json:"suggestions"`
	Duplicates       []DuplicateMatch  `json:"duplicates,omitempty"`
	Summary          SeverityHistogram `json:"summary"`
	Diagnostics      []Diagnostic      `json:"diagnostics,omitempty"`
}

// NewSuggestionsReport wraps an already ranked suggestion list.
func NewSuggestionsReport(runID string, generatedAt time.Time, ranked []Suggestion, dups []DuplicateMatch) *SuggestionsReport {
	return &SuggestionsReport{
		RunID:            runID,
		GeneratedAt:      generatedAt,
		TotalSuggestions: len(ranked),
		Suggestions:      ranked,
		Duplicates:       dups,
		Summary:          NewSeverityHistogram(ranked),
	}
}
