// Package analysis runs the analyze, refactor and scaffold passes over a
// source tree.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/sha1n/codescope/internal/aggregate"
	"github.com/sha1n/codescope/internal/catalog"
	"github.com/sha1n/codescope/internal/config"
	"github.com/sha1n/codescope/internal/domain"
	"github.com/sha1n/codescope/internal/extract"
	"github.com/sha1n/codescope/internal/manifest"
	"github.com/sha1n/codescope/internal/risk"
	"github.com/sha1n/codescope/internal/source"
	"github.com/sha1n/codescope/internal/suggest"
)

// Analyzer runs the passes configured by one set of settings.
type Analyzer struct {
	settings  *config.Settings
	extractor *extract.Extractor
	rules     []risk.Rule
	resolver  *source.Resolver
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an Analyzer.
func New(settings *config.Settings, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		settings:  settings,
		extractor: extract.New(logger),
		rules:     risk.DefaultRules,
		resolver:  source.NewResolver(source.NewGitClient(), settings.Repo.CacheDir, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// SetGitClient allows injecting a custom git client for testing.
func (a *Analyzer) SetGitClient(client *source.GitClient) {
	a.resolver = source.NewResolver(client, a.settings.Repo.CacheDir, a.logger)
}

// Settings returns the analyzer settings.
func (a *Analyzer) Settings() *config.Settings {
	return a.settings
}

// Scan is the result of cataloguing and extracting one tree.
type Scan struct {
	Root       string
	Catalog    *catalog.Catalog
	Results    []domain.ExtractionResult // parallel to Catalog.Files
	Aggregator *aggregate.Aggregator
}

// Root resolves the directory to analyze: a clone of the configured
// repository, or the configured root made absolute.
func (a *Analyzer) Root(ctx context.Context) (string, error) {
	if url := a.settings.Repo.URL; url != "" {
		return a.resolver.Resolve(ctx, url)
	}
	root, err := filepath.Abs(a.settings.Root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", a.settings.Root, err)
	}
	return root, nil
}

// Catalog resolves the root and builds its file catalog.
func (a *Analyzer) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	root, err := a.Root(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Build(root, a.filter(ctx, root), a.logger)
}

func (a *Analyzer) filter(ctx context.Context, root string) *catalog.FileFilter {
	s := a.settings

	if invalid := catalog.ValidatePatterns(s.ExcludePatterns); len(invalid) > 0 {
		a.logger.Warn("Ignoring invalid exclude patterns", "patterns", invalid)
	}
	opts := []catalog.FilterOption{catalog.WithPatterns(s.ExcludePatterns...)}

	if s.RespectGitignore {
		if tracked := a.resolver.TrackedFiles(ctx, root); tracked != nil {
			opts = append(opts, catalog.WithTrackedFiles(tracked))
		} else {
			opts = append(opts, catalog.WithGitignore(catalog.LoadGitignore(root)))
		}
	}

	return catalog.NewFileFilter(s.Extensions, s.ExcludeDirs, s.MaxFileSize, opts...)
}

// Scan catalogs the tree and extracts every file. Extraction fans out over a
// bounded worker pool; results are folded into the Aggregator in catalog
// order from a single goroutine.
func (a *Analyzer) Scan(ctx context.Context) (*Scan, error) {
	cat, err := a.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ExtractionResult, len(cat.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())
	for i, f := range cat.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.extractor.Extract(f.Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extraction interrupted: %w", err)
	}

	agg := aggregate.New()
	for i, f := range cat.Files {
		agg.Add(f, results[i])
	}

	a.logger.Info("Scan complete",
		"root", cat.Root,
		"files", cat.Len(),
		"skipped", len(cat.Skipped),
		"modules", agg.ModuleCount(),
	)
	return &Scan{Root: cat.Root, Catalog: cat, Results: results, Aggregator: agg}, nil
}

func (a *Analyzer) workers() int {
	if a.settings.Workers > 0 {
		return a.settings.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Analyze runs the analyze pass and returns the report. Improvements are the
// ranked project-level suggestions.
func (a *Analyzer) Analyze(ctx context.Context) (*domain.AnalysisReport, error) {
	scan, err := a.Scan(ctx)
	if err != nil {
		return nil, err
	}

	declared := manifest.Read(scan.Root, a.logger)
	totals := scan.Aggregator.Totals()
	modules := scan.Aggregator.Modules()
	coverage := aggregate.EstimateCoverage(
		aggregate.CountTestFiles(scan.Catalog.Files),
		scan.Catalog.DocFiles,
		scan.Aggregator.ModuleCount(),
	)

	r := &domain.AnalysisReport{
		RunID:        newRunID(),
		GeneratedAt:  a.now().UTC(),
		Root:         scan.Root,
		TotalFiles:   totals.Files,
		TotalLines:   totals.Lines,
		Modules:      modules,
		Dependencies: orEmpty(declared.Dependencies),
		Imports:      orEmpty(totals.Imports),
		Exports:      orEmpty(totals.Exports),
		Functions:    orEmpty(totals.Functions),
		Classes:      orEmpty(totals.Classes),
		Todos:        orEmpty(totals.Todos),
		Coverage:     coverage,
		SkippedFiles: scan.Catalog.Skipped,
		Diagnostics:  a.extractor.Diagnostics(),
	}
	r.Improvements = orEmpty(suggest.Rank(suggest.Derive(Facts(r), a.thresholds())))

	r.Summary = domain.ReportSummary{
		TotalFiles:           totals.Files,
		TotalLines:           totals.Lines,
		TotalFunctions:       len(totals.Functions),
		TotalClasses:         len(totals.Classes),
		TotalModules:         scan.Aggregator.ModuleCount(),
		TotalTodos:           len(totals.Todos),
		AvgComplexity:        aggregate.AverageComplexity(modules),
		TestCoverageEstimate: coverage.TestCoverage,
		ImprovementCount:     len(r.Improvements),
	}
	return r, nil
}

// Facts extracts the inputs of the derived checks from an analysis report.
func Facts(r *domain.AnalysisReport) suggest.ProjectFacts {
	return suggest.ProjectFacts{
		TodoCount:    len(r.Todos),
		Modules:      r.Modules,
		Coverage:     r.Coverage,
		Dependencies: len(r.Dependencies),
	}
}

func (a *Analyzer) thresholds() suggest.Thresholds {
	t := a.settings.Thresholds
	return suggest.Thresholds{
		ComplexityAverage: t.ComplexityAverage,
		TestCoverage:      t.TestCoverage,
		DocCoverage:       t.DocCoverage,
		MaxDependencies:   t.MaxDependencies,
	}
}

func newRunID() string {
	return ulid.Make().String()
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
