package catalog

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultExcludeDirs are directory names that are never scanned, at any depth.
var DefaultExcludeDirs = []string{"node_modules", ".git", "dist", "build", "coverage"}

// DefaultExtensions are the source extensions scanned when none are configured.
var DefaultExtensions = []string{".js", ".mjs", ".ts", ".jsx", ".tsx"}

// FileFilter decides which paths under the root are source files to analyze.
type FileFilter struct {
	extensions  map[string]struct{}
	excludeDirs map[string]struct{}
	patterns    []string
	gitignore   *ignore.GitIgnore
	tracked     map[string]struct{}
	maxFileSize int64
}

// FilterOption configures a FileFilter.
type FilterOption func(*FileFilter)

// WithPatterns adds doublestar glob exclusions matched against the relative path.
func WithPatterns(patterns ...string) FilterOption {
	return func(f *FileFilter) {
		f.patterns = append(f.patterns, patterns...)
	}
}

// WithGitignore excludes paths matched by the given compiled .gitignore.
func WithGitignore(gi *ignore.GitIgnore) FilterOption {
	return func(f *FileFilter) {
		f.gitignore = gi
	}
}

// WithTrackedFiles restricts the filter to the given relative paths, typically
// the output of git ls-files. A nil slice disables the restriction.
func WithTrackedFiles(paths []string) FilterOption {
	return func(f *FileFilter) {
		if paths == nil {
			return
		}
		f.tracked = make(map[string]struct{}, len(paths))
		for _, p := range paths {
			f.tracked[filepath.ToSlash(p)] = struct{}{}
		}
	}
}

// NewFileFilter creates a FileFilter. Empty extension or directory lists fall
// back to the defaults; the default directories are always excluded.
func NewFileFilter(extensions, excludeDirs []string, maxFileSize int64, opts ...FilterOption) *FileFilter {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	f := &FileFilter{
		extensions:  make(map[string]struct{}, len(extensions)),
		excludeDirs: make(map[string]struct{}),
		maxFileSize: maxFileSize,
	}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.extensions[ext] = struct{}{}
	}
	for _, d := range DefaultExcludeDirs {
		f.excludeDirs[d] = struct{}{}
	}
	for _, d := range excludeDirs {
		if d = strings.TrimSpace(d); d != "" {
			f.excludeDirs[d] = struct{}{}
		}
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SkipDir returns true if a directory with the given name must not be entered.
func (f *FileFilter) SkipDir(name string) bool {
	_, skip := f.excludeDirs[name]
	return skip
}

// ShouldExclude returns true if the given path must not be analyzed.
// The path should be relative to the root.
func (f *FileFilter) ShouldExclude(relPath string) bool {
	relPath = filepath.ToSlash(relPath)

	if !f.HasSourceExtension(relPath) {
		return true
	}

	parts := strings.Split(relPath, "/")
	for _, dir := range parts[:len(parts)-1] {
		if f.SkipDir(dir) {
			return true
		}
	}

	for _, pattern := range f.patterns {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}

	if f.tracked != nil {
		if _, ok := f.tracked[relPath]; !ok {
			return true
		}
	} else if f.gitignore != nil && f.gitignore.MatchesPath(relPath) {
		return true
	}

	return false
}

// HasSourceExtension reports whether the path has one of the configured extensions.
func (f *FileFilter) HasSourceExtension(relPath string) bool {
	_, ok := f.extensions[strings.ToLower(path.Ext(relPath))]
	return ok
}

// MaxFileSize returns the maximum file size to analyze. Zero means unlimited.
func (f *FileFilter) MaxFileSize() int64 {
	return f.maxFileSize
}

// IsBinary checks if the content appears to be binary by looking for null bytes
// in the first 512 bytes. This is a heuristic used by git and other tools.
func IsBinary(content []byte) bool {
	checkLen := min(len(content), 512)

	for i := range checkLen {
		if content[i] == 0 {
			return true
		}
	}
	return false
}

// ValidatePatterns returns the patterns that are not valid doublestar globs.
func ValidatePatterns(patterns []string) []string {
	var invalid []string
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			invalid = append(invalid, p)
		}
	}
	return invalid
}
