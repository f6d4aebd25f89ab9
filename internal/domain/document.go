package domain

import "fmt"

// SuggestionDocument is the representation of a Suggestion stored in the
// Bleve search index.
type SuggestionDocument struct {
	// ID is unique within one index: "<rank>:<file>:<line>".
	ID          string `json:"id"`
	Rank        int    `json:"rank"`
	FilePath    string `json:"file_path"`
	Line        int    `json:"line"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Rationale   string `json:"rationale"`
}

// Bleve field name constants for consistent field references in queries and mappings.
const (
	SuggestionFieldID          = "id"
	SuggestionFieldRank        = "rank"
	SuggestionFieldFilePath    = "file_path"
	SuggestionFieldLine        = "line"
	SuggestionFieldCategory    = "category"
	SuggestionFieldSeverity    = "severity"
	SuggestionFieldDescription = "description"
	SuggestionFieldCode        = "code"
	SuggestionFieldRationale   = "rationale"
)

// NewSuggestionDocument converts the suggestion at position rank (0-based) of
// a ranked list into an index document.
func NewSuggestionDocument(rank int, s Suggestion) SuggestionDocument {
	return SuggestionDocument{
		ID:          fmt.Sprintf("%06d:%s:%d", rank, s.File, s.Line),
		Rank:        rank,
		FilePath:    s.File,
		Line:        s.Line,
		Category:    string(s.Category),
		Severity:    string(s.Severity),
		Description: s.Description,
		Code:        s.Current,
		Rationale:   s.Rationale,
	}
}
