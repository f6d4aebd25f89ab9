package suggest

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/sha1n/codescope/internal/aggregate"
	"github.com/sha1n/codescope/internal/domain"
)

var (
	docFunctionPattern = regexp.MustCompile(`(?:export\s+)?(?:async\s+)?function\s+(\w+)`)
	docClassPattern    = regexp.MustCompile(`(?:export\s+)?class\s+(\w+)`)
	docBlockPattern    = regexp.MustCompile(`/\*\*[\s\S]*?\*/`)
)

// testSuffixes are stripped from a test file's stem to find the file it covers.
var testSuffixes = []string{".test", ".spec"}

// demoMarker exempts files from the missing-test check.
const demoMarker = "demo"

// Stem returns the base name of a slash-separated path without its extension.
func Stem(relPath string) string {
	base := path.Base(relPath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// CoveredStem returns the stem a test file covers, "app" for "app.test.js".
func CoveredStem(relPath string) string {
	stem := Stem(relPath)
	for _, suffix := range testSuffixes {
		stem = strings.TrimSuffix(stem, suffix)
	}
	return stem
}

// MissingTests returns a testing suggestion for each non-test file whose stem
// is not covered by any test file. Files named like demos are skipped.
func MissingTests(files []domain.FileRecord) []domain.Suggestion {
	covered := make(map[string]struct{})
	for _, f := range files {
		if aggregate.IsTestFile(f.Path) {
			covered[CoveredStem(f.Path)] = struct{}{}
		}
	}

	var out []domain.Suggestion
	for _, f := range files {
		if aggregate.IsTestFile(f.Path) {
			continue
		}
		name := path.Base(f.Path)
		if strings.Contains(name, demoMarker) {
			continue
		}
		stem := Stem(f.Path)
		if _, ok := covered[stem]; ok {
			continue
		}
		out = append(out, domain.Suggestion{
			File:        f.Path,
			Line:        1,
			Category:    domain.CategoryTesting,
			Severity:    domain.SeverityMedium,
			Description: "File has no tests: " + name,
			Current:     "// No test covers this file",
			Suggested:   fmt.Sprintf("// Create __tests__/%s.test.js", stem),
			Rationale:   "Tests increase reliability and detect regressions",
		})
	}
	return out
}

// MissingDocs returns a documentation suggestion for each file in which fewer
// than half of the declared functions and classes have a doc block.
func MissingDocs(files []domain.FileRecord) []domain.Suggestion {
	var out []domain.Suggestion
	for _, f := range files {
		items := len(docFunctionPattern.FindAllStringIndex(f.Text, -1)) +
			len(docClassPattern.FindAllStringIndex(f.Text, -1))
		if items == 0 {
			continue
		}
		docs := len(docBlockPattern.FindAllStringIndex(f.Text, -1))
		if float64(docs) >= float64(items)*0.5 {
			continue
		}
		out = append(out, domain.Suggestion{
			File:        f.Path,
			Line:        1,
			Category:    domain.CategoryDocumentation,
			Severity:    domain.SeverityLow,
			Description: "Insufficient JSDoc documentation",
			Current:     fmt.Sprintf("// %d items, %d documented", items, docs),
			Suggested:   "// Add JSDoc comments to functions and classes",
			Rationale:   "Documentation improves maintainability and API usability",
		})
	}
	return out
}

// Hygiene runs both per-file checks: missing tests first, then missing docs.
func Hygiene(files []domain.FileRecord) []domain.Suggestion {
	return append(MissingTests(files), MissingDocs(files)...)
}
