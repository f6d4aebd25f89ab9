// Package duplication finds lines that repeat across different files.
package duplication

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sha1n/codescope/internal/domain"
)

// DefaultMinLength is the minimum whitespace-free length of a significant line.
const DefaultMinLength = 10

// commentMarkers start lines that are never compared.
var commentMarkers = []string{"//", "/*", "*"}

type location struct {
	file string
	line int
}

// Detector remembers the first location of every significant line signature
// it has seen. Entries are never evicted, so memory grows with the number of
// distinct significant lines. A Detector is single-writer.
type Detector struct {
	minLength int
	seen      map[string]location
}

// NewDetector creates a Detector. A non-positive minLength uses DefaultMinLength.
func NewDetector(minLength int) *Detector {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Detector{minLength: minLength, seen: make(map[string]location)}
}

// Signature returns the whitespace-free form of a line and whether the line is
// significant: non-empty, not a comment and at least minLength characters
// long once whitespace is removed.
func Signature(line string, minLength int) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	for _, marker := range commentMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return "", false
		}
	}
	sig := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, trimmed)
	if utf8.RuneCountInString(sig) < minLength {
		return "", false
	}
	return sig, true
}

// Scan feeds one file through the detector and returns the matches against
// lines of previously scanned files. Repeats within the same file are ignored.
func (d *Detector) Scan(file domain.FileRecord) []domain.DuplicateMatch {
	var matches []domain.DuplicateMatch
	for i, line := range strings.Split(file.Text, "\n") {
		sig, ok := Signature(line, d.minLength)
		if !ok {
			continue
		}
		first, known := d.seen[sig]
		if !known {
			d.seen[sig] = location{file: file.Path, line: i + 1}
			continue
		}
		if first.file == file.Path {
			continue
		}
		matches = append(matches, domain.DuplicateMatch{
			File:         file.Path,
			Line:         i + 1,
			OriginalFile: first.file,
			OriginalLine: first.line,
			Normalized:   sig,
			Text:         strings.TrimSpace(line),
		})
	}
	return matches
}

// Detect runs a fresh Detector over files in order.
func Detect(files []domain.FileRecord, minLength int) []domain.DuplicateMatch {
	d := NewDetector(minLength)
	var matches []domain.DuplicateMatch
	for _, f := range files {
		matches = append(matches, d.Scan(f)...)
	}
	return matches
}

// Suggestions converts matches into duplication suggestions, one per match,
// attributed to the reporting location.
func Suggestions(matches []domain.DuplicateMatch) []domain.Suggestion {
	out := make([]domain.Suggestion, 0, len(matches))
	for _, m := range matches {
		out = append(out, domain.Suggestion{
			File:        m.File,
			Line:        m.Line,
			Category:    domain.CategoryDuplication,
			Severity:    domain.SeverityMedium,
			Description: fmt.Sprintf("Duplicate code found (also in %s:%d)", m.OriginalFile, m.OriginalLine),
			Current:     m.Text,
			Suggested:   "// Consider extracting this into a shared utility function",
			Rationale:   "Duplicated code increases maintenance effort",
		})
	}
	return out
}
