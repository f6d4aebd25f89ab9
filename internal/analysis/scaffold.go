package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sha1n/codescope/internal/aggregate"
	"github.com/sha1n/codescope/internal/domain"
	"github.com/sha1n/codescope/internal/scaffold"
)

var (
	// ErrFileNotAnalyzed is returned when a preview names a file outside the catalog.
	ErrFileNotAnalyzed = errors.New("file is not part of the analyzed tree")

	// ErrModuleNotFound is returned when a scaffold module filter matches no file.
	ErrModuleNotFound = errors.New("module has no source files")
)

func (a *Analyzer) generator(prior *domain.AnalysisReport) *scaffold.Generator {
	return scaffold.NewGenerator(
		a.extractor,
		scaffold.FrameworkFor(prior.Dependencies),
		a.settings.Thresholds.MaxScaffoldFunctions,
	)
}

// Scaffold writes a test scaffold next to every source file that lacks one,
// plus the runner config and setup files. A non-empty module restricts the
// source files to that module. The test framework flavour follows the
// dependencies of the prior report.
func (a *Analyzer) Scaffold(ctx context.Context, prior *domain.AnalysisReport, module string) ([]scaffold.Result, error) {
	cat, err := a.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	files := cat.Files
	if module != "" {
		files = inModule(files, module)
		if len(files) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
		}
	}

	gen := a.generator(prior)
	results := gen.WriteAll(cat.Root, files, a.logger)

	a.logger.Info("Scaffold pass complete",
		"module", module,
		"framework", gen.Framework(),
		"created", scaffold.Count(results, scaffold.OutcomeCreated),
		"existing", scaffold.Count(results, scaffold.OutcomeExists),
		"failed", scaffold.Count(results, scaffold.OutcomeFailed),
	)
	return results, nil
}

func inModule(files []domain.FileRecord, module string) []domain.FileRecord {
	var out []domain.FileRecord
	for _, f := range files {
		if aggregate.ModuleName(f.Path) == module {
			out = append(out, f)
		}
	}
	return out
}

// Preview renders the scaffold of one file, given relative to the root,
// without writing it.
func (a *Analyzer) Preview(ctx context.Context, prior *domain.AnalysisReport, relPath string) (scaffold.Result, error) {
	cat, err := a.Catalog(ctx)
	if err != nil {
		return scaffold.Result{}, err
	}

	relPath = filepath.ToSlash(filepath.Clean(relPath))
	for _, f := range cat.Files {
		if f.Path == relPath {
			return a.generator(prior).Preview(f), nil
		}
	}
	return scaffold.Result{}, fmt.Errorf("%w: %s", ErrFileNotAnalyzed, relPath)
}
