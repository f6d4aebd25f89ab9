// Package report persists analysis and suggestion reports and renders
// console summaries.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sha1n/codescope/internal/domain"
)

const (
	// AnalysisFilename is the default analysis report filename
	AnalysisFilename = "codescope-analysis.json"

	// SuggestionsFilename is the default refactor suggestions filename
	SuggestionsFilename = "refactor-suggestions.json"
)

// ErrAnalysisMissing is returned when a command needs an analysis report that
// does not exist or cannot be read.
var ErrAnalysisMissing = errors.New("analysis report not found, run analyze first")

// Save writes v to path as indented JSON.
// Uses write-to-temp + rename so readers never see a partial report.
func Save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write report temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename report file: %w", err)
	}

	return nil
}

// LoadAnalysis reads an analysis report. Any failure, including a missing or
// malformed file, is reported as ErrAnalysisMissing.
func LoadAnalysis(path string) (*domain.AnalysisReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAnalysisMissing, path, err)
	}

	var r domain.AnalysisReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAnalysisMissing, path, err)
	}
	if r.Modules == nil {
		r.Modules = map[string]domain.ModuleStats{}
	}

	return &r, nil
}

// LoadSuggestions reads a refactor suggestions report.
func LoadSuggestions(path string) (*domain.SuggestionsReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestions: %w", err)
	}

	var r domain.SuggestionsReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions %s: %w", path, err)
	}
	return &r, nil
}
