// Package domain holds the data model shared by the analysis passes, the
// report writers and the search index.
package domain

import "strings"

// FileRecord is a cataloged source file. It is read once and never mutated.
type FileRecord struct {
	// Path is relative to the analysis root and always slash-separated.
	Path string `json:"path"`

	// Lines is the number of lines in Text (a trailing newline starts an empty last line).
	Lines int `json:"lines"`

	// Text is the raw file content.
	Text string `json:"-"`
}

// NewFileRecord builds a FileRecord for the given relative path and content.
func NewFileRecord(path, text string) FileRecord {
	return FileRecord{
		Path:  path,
		Lines: strings.Count(text, "\n") + 1,
		Text:  text,
	}
}

// TODO marker kinds recognised by the extractor.
const (
	TodoKindTodo  = "TODO"
	TodoKindFixme = "FIXME"
	TodoKindHack  = "HACK"
	TodoKindBug   = "BUG"
	TodoKindXXX   = "XXX"
)

// TodoEntry is a single technical-debt marker found in a file.
type TodoEntry struct {
	File     string `json:"file,omitempty"`
	Line     int    `json:"line"`
	Kind     string `json:"type"`
	Text     string `json:"text"`
	FullLine string `json:"full_line"`
}

// ExtractionResult holds the facts extracted from one file. Families keep
// every raw match in pattern order; nothing is de-duplicated.
type ExtractionResult struct {
	Imports    []string    `json:"imports"`
	Exports    []string    `json:"exports"`
	Functions  []string    `json:"functions"`
	Classes    []string    `json:"classes"`
	Todos      []TodoEntry `json:"todos"`
	Complexity int         `json:"complexity"`
}

// ModuleStats accumulates the totals of every file that maps to one module.
type ModuleStats struct {
	Files      int `json:"files"`
	Lines      int `json:"lines"`
	Functions  int `json:"functions"`
	Classes    int `json:"classes"`
	Complexity int `json:"complexity"`
}

// AverageComplexity returns Complexity / Files, or 0 for an empty module.
func (m ModuleStats) AverageComplexity() float64 {
	if m.Files == 0 {
		return 0
	}
	return float64(m.Complexity) / float64(m.Files)
}

// CoverageMethod describes how CoverageEstimate ratios are derived.
const CoverageMethod = "heuristic: file-count ratio per module, not line or branch coverage"

// CoverageEstimate is a file-count proxy for test and documentation coverage.
// Both ratios lie in [0, 100].
type CoverageEstimate struct {
	TestCoverage          float64 `json:"test_coverage"`
	DocumentationCoverage float64 `json:"documentation_coverage"`
	TestFiles             int     `json:"test_files"`
	DocFiles              int     `json:"doc_files"`
	Method                string  `json:"method"`
}

// DuplicateMatch reports a significant line that already appeared in another file.
type DuplicateMatch struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	OriginalFile string `json:"original_file"`
	OriginalLine int    `json:"original_line"`
	Normalized   string `json:"normalized"`
	Text         string `json:"text"`
}

// Diagnostic is a recoverable problem with a single extraction pattern.
type Diagnostic struct {
	Family  string `json:"family"`
	Pattern string `json:"pattern"`
	Error   string `json:"error"`
}

// SkippedFile records a file that was excluded from every aggregate.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}
