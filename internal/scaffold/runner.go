package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
)

//go:embed templates/runner
var runnerFS embed.FS

// RunnerFile is a test runner configuration or setup file written at the root.
type RunnerFile struct {
	Name    string
	Content string
}

// runnerFileNames are the root files of every framework. They are never
// scaffold candidates themselves.
var runnerFileNames = map[string]struct{}{
	"jest.config.js":   {},
	"jest.setup.js":    {},
	"vitest.config.js": {},
	"vitest.setup.js":  {},
}

// IsRunnerFile reports whether a relative path is a runner file at the root.
func IsRunnerFile(relPath string) bool {
	_, ok := runnerFileNames[relPath]
	return ok
}

// RunnerFiles returns the config and setup files of the framework, sorted by name.
func (f Framework) RunnerFiles() ([]RunnerFile, error) {
	dir := path.Join("templates/runner", string(f))
	entries, err := fs.ReadDir(runnerFS, dir)
	if err != nil {
		return nil, fmt.Errorf("no runner files for %s: %w", f, err)
	}

	files := make([]RunnerFile, 0, len(entries))
	for _, e := range entries {
		content, err := fs.ReadFile(runnerFS, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, RunnerFile{Name: e.Name(), Content: string(content)})
	}
	return files, nil
}

// writeRunnerFiles writes the framework's runner files under root unless
// they already exist.
func (g *Generator) writeRunnerFiles(root string, logger *slog.Logger) []Result {
	files, err := g.framework.RunnerFiles()
	if err != nil {
		logger.Warn("Failed to load runner files", "framework", g.framework, "error", err)
		return []Result{{Target: string(g.framework), Outcome: OutcomeFailed, Error: err.Error()}}
	}

	results := make([]Result, 0, len(files))
	for _, f := range files {
		res := Result{Target: f.Name}
		created, err := WriteIfAbsent(filepath.Join(root, f.Name), f.Content)
		switch {
		case err != nil:
			logger.Warn("Failed to write runner file", "target", f.Name, "error", err)
			res.Outcome = OutcomeFailed
			res.Error = err.Error()
		case created:
			logger.Info("Runner file created", "target", f.Name)
			res.Outcome = OutcomeCreated
		default:
			res.Outcome = OutcomeExists
		}
		results = append(results, res)
	}
	return results
}
