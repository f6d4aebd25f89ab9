package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/sha1n/codescope/internal/config"
	"github.com/sha1n/codescope/internal/domain"
	"github.com/sha1n/codescope/internal/index"
	"github.com/sha1n/codescope/internal/report"
	"github.com/sha1n/codescope/internal/scaffold"
)

// Service keeps the latest reports of a long-running process and an
// in-memory search index over the latest suggestions. It is safe for
// concurrent use; passes are serialized.
type Service struct {
	analyzer *Analyzer
	logger   *slog.Logger

	mu          sync.Mutex
	analysis    *domain.AnalysisReport
	suggestions *domain.SuggestionsReport
	index       bleve.Index
}

// NewService creates a Service over an Analyzer.
func NewService(analyzer *Analyzer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{analyzer: analyzer, logger: logger}
}

// Settings returns the service settings.
func (s *Service) Settings() *config.Settings {
	return s.analyzer.Settings()
}

// Analyze runs the analyze pass and replaces the cached report. Cached
// suggestions are dropped.
func (s *Service) Analyze(ctx context.Context) (*domain.AnalysisReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.analyzer.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	s.analysis = r
	s.suggestions = nil
	return r, s.closeIndex()
}

// Refactor runs the refactor pass against the cached analysis report, or
// the one on disk, and indexes the result.
func (s *Service) Refactor(ctx context.Context) (*domain.SuggestionsReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refactor(ctx)
}

// Suggestions returns the cached suggestions report, running the refactor
// pass when there is none.
func (s *Service) Suggestions(ctx context.Context) (*domain.SuggestionsReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.suggestions != nil {
		return s.suggestions, nil
	}
	return s.refactor(ctx)
}

func (s *Service) refactor(ctx context.Context) (*domain.SuggestionsReport, error) {
	prior, err := s.prior()
	if err != nil {
		return nil, err
	}

	r, err := s.analyzer.Refactor(ctx, prior)
	if err != nil {
		return nil, err
	}

	if err := s.closeIndex(); err != nil {
		return nil, err
	}
	idx, err := index.NewMemory()
	if err != nil {
		return nil, err
	}
	if _, err := index.Add(idx, r.Suggestions); err != nil {
		_ = idx.Close()
		return nil, err
	}

	s.suggestions = r
	s.index = idx
	return r, nil
}

// Search queries the latest suggestions, running the refactor pass first
// when none are cached.
func (s *Service) Search(ctx context.Context, q index.Query) (*index.Results, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		if _, err := s.refactor(ctx); err != nil {
			return nil, err
		}
	}
	if q.Limit <= 0 {
		q.Limit = s.Settings().Index.MaxResults
	}
	return index.Search(s.index, q)
}

// Preview renders the scaffold of one file without writing it.
func (s *Service) Preview(ctx context.Context, relPath string) (scaffold.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, err := s.prior()
	if err != nil {
		return scaffold.Result{}, err
	}
	return s.analyzer.Preview(ctx, prior, relPath)
}

// prior returns the cached analysis report or loads it from the output
// directory.
func (s *Service) prior() (*domain.AnalysisReport, error) {
	if s.analysis != nil {
		return s.analysis, nil
	}
	r, err := report.LoadAnalysis(s.Settings().Output.AnalysisPath())
	if err != nil {
		return nil, err
	}
	s.logger.Info("Loaded analysis report", "run_id", r.RunID, "root", r.Root)
	s.analysis = r
	return r, nil
}

// Close releases the search index.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeIndex()
}

func (s *Service) closeIndex() error {
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	if err != nil {
		return fmt.Errorf("failed to close index: %w", err)
	}
	return nil
}
