package aggregate

import (
	"math"
	"strings"

	"github.com/sha1n/codescope/internal/domain"
)

// IsTestFile reports whether a relative path looks like a test: it contains
// "test" or "spec" anywhere, case-sensitively.
func IsTestFile(relPath string) bool {
	return strings.Contains(relPath, "test") || strings.Contains(relPath, "spec")
}

// CountTestFiles returns how many of the files are tests.
func CountTestFiles(files []domain.FileRecord) int {
	n := 0
	for _, f := range files {
		if IsTestFile(f.Path) {
			n++
		}
	}
	return n
}

// EstimateCoverage computes the file-count coverage proxies. Each ratio is
// 100 * count / max(1, modules), capped at 100 and rounded to one decimal.
func EstimateCoverage(testFiles, docFiles, modules int) domain.CoverageEstimate {
	return domain.CoverageEstimate{
		TestCoverage:          ratio(testFiles, modules),
		DocumentationCoverage: ratio(docFiles, modules),
		TestFiles:             testFiles,
		DocFiles:              docFiles,
		Method:                domain.CoverageMethod,
	}
}

func ratio(count, modules int) float64 {
	if count <= 0 {
		return 0
	}
	r := math.Min(100, 100*float64(count)/float64(max(1, modules)))
	return math.Round(r*10) / 10
}
