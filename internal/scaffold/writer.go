package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/sha1n/codescope/internal/aggregate"
	"github.com/sha1n/codescope/internal/domain"
)

// Outcome is what happened to one scaffold target.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeExists  Outcome = "exists"
	OutcomePreview Outcome = "preview"
	OutcomeFailed  Outcome = "failed"
)

// Result describes one scaffold target.
type Result struct {
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Outcome Outcome  `json:"outcome"`
	Signals []string `json:"signals,omitempty"`
	Content string   `json:"content,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// WriteIfAbsent creates path with content unless it already exists. It
// returns false, nil when the file was already there.
func WriteIfAbsent(path string, content string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, f.Close()
}

// Candidates returns the non-test files in order. Test-like base names and
// runner files are never scaffolded.
func Candidates(files []domain.FileRecord) []domain.FileRecord {
	var out []domain.FileRecord
	for _, f := range files {
		if aggregate.IsTestFile(path.Base(f.Path)) || IsRunnerFile(f.Path) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// WriteAll generates a scaffold for every candidate under root, followed by
// the framework's runner files at the root. Existing files are left untouched
// and per-file failures do not stop the run. Runner results have no Source.
func (g *Generator) WriteAll(root string, files []domain.FileRecord, logger *slog.Logger) []Result {
	if logger == nil {
		logger = slog.Default()
	}

	var results []Result
	for _, f := range Candidates(files) {
		target := TargetPath(f.Path)
		full := filepath.Join(root, filepath.FromSlash(target))
		res := Result{Source: f.Path, Target: target}

		if _, err := os.Stat(full); err == nil {
			res.Outcome = OutcomeExists
			logger.Debug("Scaffold already exists", "target", target)
			results = append(results, res)
			continue
		}

		text, spec, err := g.Generate(f)
		res.Signals = spec.Signals.Names()
		if err == nil {
			var created bool
			created, err = WriteIfAbsent(full, text)
			if err == nil && !created {
				res.Outcome = OutcomeExists
				results = append(results, res)
				continue
			}
		}
		if err != nil {
			logger.Warn("Failed to write scaffold", "source", f.Path, "target", target, "error", err)
			res.Outcome = OutcomeFailed
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		logger.Info("Scaffold created", "target", target, "signals", spec.Signals.String())
		res.Outcome = OutcomeCreated
		results = append(results, res)
	}
	return append(results, g.writeRunnerFiles(root, logger)...)
}

// Preview renders the scaffold of one file without touching the disk.
func (g *Generator) Preview(f domain.FileRecord) Result {
	text, spec, err := g.Generate(f)
	res := Result{
		Source:  f.Path,
		Target:  TargetPath(f.Path),
		Outcome: OutcomePreview,
		Signals: spec.Signals.Names(),
		Content: text,
	}
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Error = err.Error()
	}
	return res
}

// Count returns how many results have the given outcome.
func Count(results []Result, outcome Outcome) int {
	n := 0
	for _, r := range results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}
