package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/sha1n/codescope/internal/domain"
	"github.com/sha1n/codescope/internal/scaffold"
)

// TopSuggestions is the number of suggestions listed in console summaries.
const TopSuggestions = 5

// PrintAnalysis renders the analysis summary: modules by size, coverage,
// debt and the top suggestions.
func PrintAnalysis(w io.Writer, r *domain.AnalysisReport) error {
	fmt.Fprintf(w, "Analyzed %d files (%d lines) in %s\n\n", r.Summary.TotalFiles, r.Summary.TotalLines, r.Root)

	names := make([]string, 0, len(r.Modules))
	for name := range r.Modules {
		names = append(names, name)
	}
	// Most lines first, ties by name
	slices.SortFunc(names, func(a, b string) int {
		if d := r.Modules[b].Lines - r.Modules[a].Lines; d != 0 {
			return d
		}
		return cmp.Compare(a, b)
	})

	modules := tablewriter.NewWriter(w)
	modules.Header("Module", "Files", "Lines", "Functions", "Classes", "Avg Complexity")
	for _, name := range names {
		m := r.Modules[name]
		if err := modules.Append([]string{
			name,
			strconv.Itoa(m.Files),
			strconv.Itoa(m.Lines),
			strconv.Itoa(m.Functions),
			strconv.Itoa(m.Classes),
			strconv.FormatFloat(m.AverageComplexity(), 'f', 1, 64),
		}); err != nil {
			return err
		}
	}
	if err := modules.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTest coverage (estimate): %.1f%%  Documentation coverage (estimate): %.1f%%\n",
		r.Coverage.TestCoverage, r.Coverage.DocumentationCoverage)
	fmt.Fprintf(w, "Technical debt markers: %d  Declared dependencies: %d\n\n", r.Summary.TotalTodos, len(r.Dependencies))

	return printSuggestions(w, r.Improvements)
}

// PrintSuggestions renders the severity histogram and the top suggestions.
func PrintSuggestions(w io.Writer, r *domain.SuggestionsReport) error {
	fmt.Fprintf(w, "%d suggestions\n\n", r.TotalSuggestions)

	histogram := tablewriter.NewWriter(w)
	histogram.Header("Critical", "High", "Medium", "Low")
	if err := histogram.Append([]string{
		strconv.Itoa(r.Summary.Critical),
		strconv.Itoa(r.Summary.High),
		strconv.Itoa(r.Summary.Medium),
		strconv.Itoa(r.Summary.Low),
	}); err != nil {
		return err
	}
	if err := histogram.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	return printSuggestions(w, r.Suggestions)
}

func printSuggestions(w io.Writer, suggestions []domain.Suggestion) error {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No suggestions")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Severity", "Type", "Location", "Description")
	for _, s := range suggestions[:min(TopSuggestions, len(suggestions))] {
		if err := table.Append([]string{
			string(s.Severity),
			string(s.Category),
			fmt.Sprintf("%s:%d", s.File, s.Line),
			s.Description,
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if rest := len(suggestions) - TopSuggestions; rest > 0 {
		fmt.Fprintf(w, "... and %d more\n", rest)
	}
	return nil
}

// PrintScaffold renders one row per scaffold target and the outcome counts.
func PrintScaffold(w io.Writer, results []scaffold.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No source files to scaffold")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Source", "Scaffold", "Outcome", "Signals")
	for _, r := range results {
		outcome := string(r.Outcome)
		if r.Error != "" {
			outcome += ": " + r.Error
		}
		source := r.Source
		if source == "" {
			source = "(runner)"
		}
		if err := table.Append([]string{source, r.Target, outcome, strings.Join(r.Signals, ",")}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d created, %d existing, %d failed\n",
		scaffold.Count(results, scaffold.OutcomeCreated),
		scaffold.Count(results, scaffold.OutcomeExists),
		scaffold.Count(results, scaffold.OutcomeFailed))
	return nil
}
