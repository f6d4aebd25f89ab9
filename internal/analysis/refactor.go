package analysis

import (
	"context"

	"github.com/sha1n/codescope/internal/domain"
	"github.com/sha1n/codescope/internal/duplication"
	"github.com/sha1n/codescope/internal/risk"
	"github.com/sha1n/codescope/internal/suggest"
)

// Refactor runs the duplication and risk passes over the tree, derives the
// project-level suggestions from the prior analysis report and ranks
// everything. Suggestions are merged duplication first, then risk, derived
// and per-file hygiene.
func (a *Analyzer) Refactor(ctx context.Context, prior *domain.AnalysisReport) (*domain.SuggestionsReport, error) {
	cat, err := a.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if prior.Root != "" && prior.Root != cat.Root {
		a.logger.Warn("Analysis report was generated for a different root", "report_root", prior.Root, "root", cat.Root)
	}

	dups := duplication.Detect(cat.Files, a.settings.Thresholds.MinDuplicateLength)

	scanner := risk.NewScanner(a.rules, a.logger)
	risks := scanner.ScanAll(cat.Files)

	derived := suggest.Derive(Facts(prior), a.thresholds())

	var hygiene []domain.Suggestion
	if a.settings.Checks.PerFile {
		hygiene = suggest.Hygiene(cat.Files)
	}

	ranked := suggest.Rank(suggest.Merge(duplication.Suggestions(dups), risks, derived, hygiene))

	a.logger.Info("Refactor pass complete",
		"duplicates", len(dups),
		"risks", len(risks),
		"derived", len(derived),
		"hygiene", len(hygiene),
		"total", len(ranked),
	)
	r := domain.NewSuggestionsReport(newRunID(), a.now().UTC(), orEmpty(ranked), dups)
	r.Diagnostics = scanner.Diagnostics()
	return r, nil
}
