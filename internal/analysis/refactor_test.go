package analysis

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/sha1n/codescope/internal/domain"
	"github.com/sha1n/codescope/internal/risk"
)

func analyzeFixture(t *testing.T) (*Analyzer, *domain.AnalysisReport) {
	t.Helper()
	a := New(testSettings(t, fixtureTree(t)), nil)
	a.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	prior, err := a.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return a, prior
}

func TestAnalyzer_Refactor(t *testing.T) {
	a, prior := analyzeFixture(t)

	r, err := a.Refactor(context.Background(), prior)
	if err != nil {
		t.Fatalf("Refactor failed: %v", err)
	}

	if len(r.Duplicates) != 1 {
		t.Fatalf("Duplicates = %+v, want one match", r.Duplicates)
	}
	dup := r.Duplicates[0]
	if dup.File != "src/report.js" || dup.Line != 2 || dup.OriginalFile != "cli/main.js" || dup.OriginalLine != 2 {
		t.Errorf("Duplicate = %+v", dup)
	}

	var got []string
	for _, s := range r.Suggestions {
		got = append(got, fmt.Sprintf("%s %s %s:%d", s.Severity, s.Category, s.File, s.Line))
	}
	want := []string{
		"critical security cli/main.js:3",
		"high testing .:1",
		"medium duplication src/report.js:2",
		"medium technical-debt .:1",
		"medium documentation .:1",
		"medium testing cli/main.js:1",
		"medium testing modules/auth/login.js:1",
		"low documentation modules/auth/login.js:1",
		"low documentation src/report.js:1",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Suggestions =\n%v\nwant\n%v", got, want)
	}

	if r.TotalSuggestions != len(want) {
		t.Errorf("TotalSuggestions = %d", r.TotalSuggestions)
	}
	wantHist := domain.SeverityHistogram{Critical: 1, High: 1, Medium: 5, Low: 2}
	if r.Summary != wantHist {
		t.Errorf("Summary = %+v, want %+v", r.Summary, wantHist)
	}
	if len(r.RunID) != 26 || r.RunID == prior.RunID {
		t.Errorf("RunID = %q", r.RunID)
	}
}

func TestAnalyzer_Refactor_WithoutPerFileChecks(t *testing.T) {
	a, prior := analyzeFixture(t)
	a.settings.Checks.PerFile = false

	r, err := a.Refactor(context.Background(), prior)
	if err != nil {
		t.Fatalf("Refactor failed: %v", err)
	}

	for _, s := range r.Suggestions {
		if s.Severity == domain.SeverityLow {
			t.Errorf("unexpected per-file suggestion %+v", s)
		}
	}
	if r.TotalSuggestions != 5 {
		t.Errorf("TotalSuggestions = %d, want 5", r.TotalSuggestions)
	}
}

func TestAnalyzer_Refactor_DerivesFromPriorReport(t *testing.T) {
	a, prior := analyzeFixture(t)
	prior.Todos = nil
	prior.Coverage.TestCoverage = 100
	prior.Coverage.DocumentationCoverage = 100

	r, err := a.Refactor(context.Background(), prior)
	if err != nil {
		t.Fatalf("Refactor failed: %v", err)
	}

	for _, s := range r.Suggestions {
		if s.File == "." {
			t.Errorf("unexpected project suggestion %+v", s)
		}
	}
}

func TestAnalyzer_Refactor_Empty(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# docs\n")
	writeFile(t, root, "src/a.js", "export const ok = 1;\n")
	a := New(testSettings(t, root), nil)
	a.settings.Checks.PerFile = false

	r, err := a.Refactor(context.Background(), &domain.AnalysisReport{
		Coverage: domain.CoverageEstimate{TestCoverage: 100, DocumentationCoverage: 100},
	})
	if err != nil {
		t.Fatalf("Refactor failed: %v", err)
	}
	if r.Suggestions == nil || len(r.Suggestions) != 0 {
		t.Errorf("Suggestions = %#v, want an empty non-nil slice", r.Suggestions)
	}
}

func TestAnalyzer_Refactor_RuleDiagnostics(t *testing.T) {
	a, prior := analyzeFixture(t)
	a.rules = append([]risk.Rule{{Name: "broken", Pattern: `eval(`, Severity: domain.SeverityHigh}}, risk.DefaultRules...)

	r, err := a.Refactor(context.Background(), prior)
	if err != nil {
		t.Fatalf("Refactor failed: %v", err)
	}

	if len(r.Diagnostics) != 1 || r.Diagnostics[0].Family != "risk:broken" || r.Diagnostics[0].Error == "" {
		t.Fatalf("Diagnostics = %+v, want the broken rule", r.Diagnostics)
	}
	if r.Suggestions[0].File != "cli/main.js" || r.Suggestions[0].Severity != domain.SeverityCritical {
		t.Errorf("remaining rules should still apply, first = %+v", r.Suggestions[0])
	}
}
