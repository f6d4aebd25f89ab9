// Package catalog discovers and reads the source files of one analysis run.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/sha1n/codescope/internal/domain"
)

var (
	// ErrNoFiles is returned when discovery finds no source file under the root.
	ErrNoFiles = errors.New("no source files found")

	// ErrNotDirectory is returned when the root is not a directory.
	ErrNotDirectory = errors.New("root is not a directory")
)

// Skip reasons recorded in SkippedFile.Reason.
const (
	ReasonTooLarge   = "exceeds max file size"
	ReasonBinary     = "binary content"
	ReasonEncoding   = "invalid utf-8 encoding"
	ReasonUnreadable = "unreadable"
)

// Catalog is the immutable set of files one run analyzes.
type Catalog struct {
	Root string

	// Files are the readable source files in discovery order.
	Files []domain.FileRecord

	// Skipped are candidates that could not be analyzed.
	Skipped []domain.SkippedFile

	// DocFiles is the number of markdown files anywhere under Root,
	// regardless of the source filter.
	DocFiles int
}

// Len returns the number of analyzed files.
func (c *Catalog) Len() int {
	return len(c.Files)
}

// Build walks root, reads every file accepted by filter and counts the
// markdown files. Per-file failures are logged and recorded in Skipped.
func Build(root string, filter *FileFilter, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	paths, err := Discover(root, filter)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoFiles, root)
	}

	c := &Catalog{Root: root}
	for _, rel := range paths {
		record, reason, err := readFile(root, rel, filter.MaxFileSize())
		if reason != "" {
			attrs := []any{"path", rel, "reason", reason}
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			logger.Warn("Skipping file", attrs...)
			c.Skipped = append(c.Skipped, domain.SkippedFile{Path: rel, Reason: reason})
			continue
		}
		c.Files = append(c.Files, record)
	}

	c.DocFiles = CountDocFiles(root)

	logger.Debug("Catalog built",
		"root", root,
		"files", len(c.Files),
		"skipped", len(c.Skipped),
		"doc_files", c.DocFiles,
	)
	return c, nil
}

// Discover returns the relative, slash-separated paths of all files under root
// accepted by filter, in lexical walk order.
func Discover(root string, filter *FileFilter) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if path != root && filter.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if filter.ShouldExclude(rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return paths, nil
}

// CountDocFiles returns the number of *.md files anywhere under root.
func CountDocFiles(root string) int {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*.md", doublestar.WithFilesOnly())
	if err != nil {
		return 0
	}
	return len(matches)
}

// LoadGitignore compiles root/.gitignore. It returns nil when there is none.
func LoadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func readFile(root, rel string, maxSize int64) (domain.FileRecord, string, error) {
	full := filepath.Join(root, filepath.FromSlash(rel))

	if maxSize > 0 {
		info, err := os.Stat(full)
		if err != nil {
			return domain.FileRecord{}, ReasonUnreadable, err
		}
		if info.Size() > maxSize {
			return domain.FileRecord{}, ReasonTooLarge, nil
		}
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return domain.FileRecord{}, ReasonUnreadable, err
	}
	if IsBinary(content) {
		return domain.FileRecord{}, ReasonBinary, nil
	}
	if !utf8.Valid(content) {
		return domain.FileRecord{}, ReasonEncoding, nil
	}
	return domain.NewFileRecord(rel, string(content)), "", nil
}
