// Package suggest derives project-level suggestions, runs the per-file
// hygiene checks and ranks the merged suggestion list.
package suggest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sha1n/codescope/internal/domain"
)

// ProjectScope is the file path of suggestions that concern the whole tree.
const ProjectScope = "."

// Thresholds parametrize the derived checks.
type Thresholds struct {
	// ComplexityAverage is the per-module average complexity above which a
	// module is reported.
	ComplexityAverage float64
	TestCoverage      float64
	DocCoverage       float64
	MaxDependencies   int
}

// DefaultThresholds returns the built-in thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ComplexityAverage: 50,
		TestCoverage:      80,
		DocCoverage:       90,
		MaxDependencies:   100,
	}
}

// ProjectFacts are the aggregate inputs of the derived checks.
type ProjectFacts struct {
	TodoCount    int
	Modules      map[string]domain.ModuleStats
	Coverage     domain.CoverageEstimate
	Dependencies int
}

// Derive returns, in order, at most one suggestion each for technical debt,
// module complexity, test coverage, documentation coverage and dependencies.
func Derive(facts ProjectFacts, th Thresholds) []domain.Suggestion {
	var out []domain.Suggestion

	if facts.TodoCount > 0 {
		out = append(out, projectSuggestion(
			domain.CategoryTechnicalDebt, domain.SeverityMedium,
			fmt.Sprintf("Resolve %d pending TODO/FIXME markers", facts.TodoCount),
			fmt.Sprintf("// %d open markers", facts.TodoCount),
			"// Resolve each marker or move it to the issue tracker",
			"Unresolved markers accumulate technical debt",
		))
	}

	if offenders := ComplexModules(facts.Modules, th.ComplexityAverage); len(offenders) > 0 {
		averages := make([]string, 0, len(offenders))
		for _, name := range offenders {
			averages = append(averages, fmt.Sprintf("%s=%.1f", name, facts.Modules[name].AverageComplexity()))
		}
		out = append(out, projectSuggestion(
			domain.CategoryComplexity, domain.SeverityHigh,
			"Refactor high-complexity modules: "+strings.Join(offenders, ", "),
			"// average complexity per file: "+strings.Join(averages, ", "),
			"// Split large modules into smaller units",
			"Highly complex modules are hard to maintain and test",
		))
	}

	if facts.Coverage.TestCoverage < th.TestCoverage {
		out = append(out, projectSuggestion(
			domain.CategoryTesting, domain.SeverityHigh,
			fmt.Sprintf("Increase test coverage (current: %.1f%%)", facts.Coverage.TestCoverage),
			fmt.Sprintf("// %d test files", facts.Coverage.TestFiles),
			"// Add tests for untested modules",
			"Tests catch regressions early ("+domain.CoverageMethod+")",
		))
	}

	if facts.Coverage.DocumentationCoverage < th.DocCoverage {
		out = append(out, projectSuggestion(
			domain.CategoryDocumentation, domain.SeverityMedium,
			fmt.Sprintf("Improve documentation (current: %.1f%%)", facts.Coverage.DocumentationCoverage),
			fmt.Sprintf("// %d documentation files", facts.Coverage.DocFiles),
			"// Add a README per module",
			"Documentation improves the developer experience ("+domain.CoverageMethod+")",
		))
	}

	if facts.Dependencies > th.MaxDependencies {
		out = append(out, projectSuggestion(
			domain.CategoryDependencies, domain.SeverityMedium,
			fmt.Sprintf("Review %d dependencies for optimization", facts.Dependencies),
			fmt.Sprintf("// %d declared dependencies", facts.Dependencies),
			"// Remove unused or overlapping dependencies",
			"Fewer dependencies reduce bundle size and supply-chain exposure",
		))
	}

	return out
}

// ComplexModules returns, sorted, the modules whose average complexity
// exceeds limit.
func ComplexModules(modules map[string]domain.ModuleStats, limit float64) []string {
	var names []string
	for name, mod := range modules {
		if mod.Files > 0 && mod.AverageComplexity() > limit {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func projectSuggestion(category domain.Category, severity domain.Severity, description, current, suggested, rationale string) domain.Suggestion {
	return domain.Suggestion{
		File:        ProjectScope,
		Line:        1,
		Category:    category,
		Severity:    severity,
		Description: description,
		Current:     current,
		Suggested:   suggested,
		Rationale:   rationale,
	}
}
