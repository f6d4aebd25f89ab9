// Package risk flags risky constructs and non-descriptive names line by line.
package risk

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/sha1n/codescope/internal/domain"
)

const (
	securitySuggested = "// Consider a safer alternative"
	securityRationale = "Secure coding practices prevent vulnerabilities"
	namingDescription = "Non-descriptive variable name"
	namingSuggested   = "// Use descriptive names such as 'index', 'item' or 'result'"
	namingRationale   = "Descriptive names improve readability"
)

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// Scanner applies the rule table and the naming check to file text. It is
// stateless between files and safe for concurrent use.
type Scanner struct {
	rules       []compiledRule
	naming      *regexp.Regexp
	diagnostics []domain.Diagnostic
}

// NewScanner compiles rules. A rule whose pattern fails to compile is dropped
// and recorded as a Diagnostic.
func NewScanner(rules []Rule, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scanner{naming: regexp.MustCompile(namingPattern)}
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			logger.Warn("Risk rule failed to compile", "rule", r.Name, "pattern", r.Pattern, "error", err)
			s.diagnostics = append(s.diagnostics, domain.Diagnostic{
				Family:  "risk:" + r.Name,
				Pattern: r.Pattern,
				Error:   err.Error(),
			})
			continue
		}
		s.rules = append(s.rules, compiledRule{Rule: r, re: re})
	}
	return s
}

// Diagnostics returns the rule compilation failures.
func (s *Scanner) Diagnostics() []domain.Diagnostic {
	return s.diagnostics
}

// Scan returns one suggestion per rule match and per naming match, line by
// line, rules in table order before the naming check. Findings on the same
// line are not merged.
func (s *Scanner) Scan(file domain.FileRecord) []domain.Suggestion {
	var out []domain.Suggestion
	for i, line := range strings.Split(file.Text, "\n") {
		current := strings.TrimSpace(line)

		for _, r := range s.rules {
			if !r.re.MatchString(line) {
				continue
			}
			out = append(out, domain.Suggestion{
				File:        file.Path,
				Line:        i + 1,
				Category:    domain.CategorySecurity,
				Severity:    r.Severity,
				Description: r.Description,
				Current:     current,
				Suggested:   securitySuggested,
				Rationale:   securityRationale,
			})
		}

		if s.naming.MatchString(line) && !strings.Contains(line, loopMarker) {
			out = append(out, domain.Suggestion{
				File:        file.Path,
				Line:        i + 1,
				Category:    domain.CategoryNaming,
				Severity:    domain.SeverityMedium,
				Description: namingDescription,
				Current:     current,
				Suggested:   namingSuggested,
				Rationale:   namingRationale,
			})
		}
	}
	return out
}

// ScanAll scans files in order and concatenates the findings.
func (s *Scanner) ScanAll(files []domain.FileRecord) []domain.Suggestion {
	var out []domain.Suggestion
	for _, f := range files {
		out = append(out, s.Scan(f)...)
	}
	return out
}
