package suggest

import (
	"slices"

	"github.com/sha1n/codescope/internal/domain"
)

// Merge concatenates suggestion groups in the given order.
func Merge(groups ...[]domain.Suggestion) []domain.Suggestion {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make([]domain.Suggestion, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Rank returns a ranked copy of suggestions: descending severity, then
// security findings, then complexity findings. Ties keep their input order.
func Rank(suggestions []domain.Suggestion) []domain.Suggestion {
	ranked := slices.Clone(suggestions)
	slices.SortStableFunc(ranked, func(a, b domain.Suggestion) int {
		return compareKeys(rankKey(b), rankKey(a))
	})
	return ranked
}

type key [3]int

func rankKey(s domain.Suggestion) key {
	return key{s.Severity.Rank(), boolInt(s.Category == domain.CategorySecurity), boolInt(s.Category == domain.CategoryComplexity)}
}

func compareKeys(a, b key) int {
	for i := range a {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
