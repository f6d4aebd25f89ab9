package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/sha1n/codescope/internal/index"
	"github.com/sha1n/codescope/internal/report"
)

// ErrIndexMissing is returned by search when no suggestion index was written.
var ErrIndexMissing = errors.New("suggestion index not found, run refactor with --index first")

// RunAnalyze scans the tree, writes the analysis report and prints its summary.
func RunAnalyze(ctx context.Context, params RunParams, flags *pflag.FlagSet) error {
	settings, logger, err := setup(params, flags)
	if err != nil {
		return err
	}
	unlock, err := lockOutput(ctx, settings, logger)
	if err != nil {
		return err
	}
	defer unlock()

	r, err := params.analyzer(settings, logger).Analyze(ctx)
	if err != nil {
		return err
	}

	path := settings.Output.AnalysisPath()
	if err := report.Save(path, r); err != nil {
		return err
	}
	logger.Info("Analysis report written", "path", path, "run_id", r.RunID)

	return report.PrintAnalysis(params.stdout(), r)
}

// RunRefactor ranks refactoring suggestions against the analysis report,
// writes them and optionally indexes them for search.
func RunRefactor(ctx context.Context, params RunParams, flags *pflag.FlagSet) error {
	settings, logger, err := setup(params, flags)
	if err != nil {
		return err
	}
	unlock, err := lockOutput(ctx, settings, logger)
	if err != nil {
		return err
	}
	defer unlock()

	prior, err := report.LoadAnalysis(settings.Output.AnalysisPath())
	if err != nil {
		return err
	}

	r, err := params.analyzer(settings, logger).Refactor(ctx, prior)
	if err != nil {
		return err
	}

	path := settings.Output.SuggestionsPath()
	if err := report.Save(path, r); err != nil {
		return err
	}
	logger.Info("Refactor suggestions written", "path", path, "total", r.TotalSuggestions)

	if settings.Index.Enabled {
		indexPath := settings.Output.IndexPath()
		count, err := index.Rebuild(indexPath, r.Suggestions)
		if err != nil {
			return fmt.Errorf("failed to index suggestions: %w", err)
		}
		logger.Info("Suggestion index written", "path", indexPath, "documents", count)
	}

	return report.PrintSuggestions(params.stdout(), r)
}

// RunScaffold writes test scaffolds for the source files that lack one. A
// non-empty module restricts the pass to that module.
func RunScaffold(ctx context.Context, params RunParams, flags *pflag.FlagSet, module string) error {
	settings, logger, err := setup(params, flags)
	if err != nil {
		return err
	}
	unlock, err := lockOutput(ctx, settings, logger)
	if err != nil {
		return err
	}
	defer unlock()

	prior, err := report.LoadAnalysis(settings.Output.AnalysisPath())
	if err != nil {
		return err
	}

	results, err := params.analyzer(settings, logger).Scaffold(ctx, prior, module)
	if err != nil {
		return err
	}
	return report.PrintScaffold(params.stdout(), results)
}

// RunSearch queries the suggestion index written by refactor.
func RunSearch(params RunParams, flags *pflag.FlagSet, q index.Query) error {
	settings, _, err := setup(params, flags)
	if err != nil {
		return err
	}

	path := settings.Output.IndexPath()
	if !index.Exists(path) {
		return fmt.Errorf("%w: %s", ErrIndexMissing, path)
	}
	idx, err := index.OpenForRead(path)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	if q.Limit <= 0 {
		q.Limit = settings.Index.MaxResults
	}
	results, err := index.Search(idx, q)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(params.stdout(), results.Markdown(q.Label()))
	return err
}
