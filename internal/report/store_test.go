package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sha1n/codescope/internal/domain"
)

func TestSaveAndLoadAnalysis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", AnalysisFilename)
	in := &domain.AnalysisReport{
		RunID:        "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		GeneratedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Root:         "/src",
		TotalFiles:   2,
		Modules:      map[string]domain.ModuleStats{"core": {Files: 2, Lines: 10, Complexity: 3}},
		Dependencies: []string{"react"},
		Improvements: []domain.Suggestion{{File: ".", Line: 1, Category: domain.CategoryTesting, Severity: domain.SeverityHigh}},
	}

	if err := Save(path, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not remain after Save")
	}

	out, err := LoadAnalysis(path)
	if err != nil {
		t.Fatalf("LoadAnalysis failed: %v", err)
	}
	if out.RunID != in.RunID || out.Root != in.Root || out.TotalFiles != 2 {
		t.Errorf("loaded = %+v", out)
	}
	if !out.GeneratedAt.Equal(in.GeneratedAt) {
		t.Errorf("GeneratedAt = %v", out.GeneratedAt)
	}
	if out.Modules["core"].Complexity != 3 {
		t.Errorf("Modules = %+v", out.Modules)
	}
	if len(out.Improvements) != 1 || out.Improvements[0].Category != domain.CategoryTesting {
		t.Errorf("Improvements = %+v", out.Improvements)
	}
}

func TestLoadAnalysis_Missing(t *testing.T) {
	_, err := LoadAnalysis(filepath.Join(t.TempDir(), AnalysisFilename))
	if !errors.Is(err, ErrAnalysisMissing) {
		t.Errorf("err = %v, want ErrAnalysisMissing", err)
	}
}

func TestLoadAnalysis_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), AnalysisFilename)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAnalysis(path)
	if !errors.Is(err, ErrAnalysisMissing) {
		t.Errorf("err = %v, want ErrAnalysisMissing", err)
	}
}

func TestLoadAnalysis_NilModules(t *testing.T) {
	path := filepath.Join(t.TempDir(), AnalysisFilename)
	if err := os.WriteFile(path, []byte(`{"run_id":"x"}`), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadAnalysis(path)
	if err != nil {
		t.Fatalf("LoadAnalysis failed: %v", err)
	}
	if r.Modules == nil {
		t.Error("Modules should be initialized")
	}
}

func TestSaveAndLoadSuggestions(t *testing.T) {
	path := filepath.Join(t.TempDir(), SuggestionsFilename)
	ranked := []domain.Suggestion{
		{File: "a.js", Line: 1, Severity: domain.SeverityHigh},
		{File: "b.js", Line: 2, Severity: domain.SeverityLow},
	}
	in := domain.NewSuggestionsReport("run", time.Now().UTC(), ranked, nil)

	if err := Save(path, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	out, err := LoadSuggestions(path)
	if err != nil {
		t.Fatalf("LoadSuggestions failed: %v", err)
	}
	if out.TotalSuggestions != 2 || out.Summary.High != 1 || out.Summary.Low != 1 {
		t.Errorf("loaded = %+v", out)
	}
}

func TestLoadSuggestions_Missing(t *testing.T) {
	if _, err := LoadSuggestions(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error")
	}
}
