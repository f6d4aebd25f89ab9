// Package extract turns the text of one source file into structured facts
// using ordered tables of regular expressions.
package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/sha1n/codescope/internal/domain"
)

type compiledPattern struct {
	expr string
	re   *regexp.Regexp
}

// Extractor applies compiled pattern tables to file text. It holds no
// per-file state and is safe for concurrent use.
type Extractor struct {
	families    map[Family][]compiledPattern
	diagnostics []domain.Diagnostic
}

// New creates an Extractor with the built-in patterns.
func New(logger *slog.Logger) *Extractor {
	return NewWithPatterns(DefaultPatterns(), logger)
}

// NewWithPatterns compiles the given tables. A pattern that fails to compile
// is recorded as a Diagnostic and contributes no matches.
func NewWithPatterns(patterns PatternSet, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{families: make(map[Family][]compiledPattern, len(patterns))}

	for _, family := range []Family{
		FamilyImports, FamilyExports, FamilyFunctions,
		FamilyClasses, FamilyTodos, FamilyComplexity,
	} {
		for _, expr := range patterns[family] {
			re, err := regexp.Compile(expr)
			if err != nil {
				logger.Warn("Pattern failed to compile", "family", family, "pattern", expr, "error", err)
				e.diagnostics = append(e.diagnostics, domain.Diagnostic{
					Family:  string(family),
					Pattern: expr,
					Error:   err.Error(),
				})
				continue
			}
			e.families[family] = append(e.families[family], compiledPattern{expr: expr, re: re})
		}
	}
	return e
}

// Diagnostics returns the pattern compilation failures.
func (e *Extractor) Diagnostics() []domain.Diagnostic {
	return e.diagnostics
}

// Extract produces the facts of one file. Each family concatenates the
// matches of its patterns in table order without de-duplication.
func (e *Extractor) Extract(text string) domain.ExtractionResult {
	return domain.ExtractionResult{
		Imports:    e.captures(FamilyImports, text),
		Exports:    e.exports(text),
		Functions:  e.captures(FamilyFunctions, text),
		Classes:    e.captures(FamilyClasses, text),
		Todos:      e.Todos(text),
		Complexity: e.Complexity(text),
	}
}

// Functions returns the function names declared in text.
func (e *Extractor) Functions(text string) []string {
	return e.captures(FamilyFunctions, text)
}

// Classes returns the class names declared in text.
func (e *Extractor) Classes(text string) []string {
	return e.captures(FamilyClasses, text)
}

// Exports returns the identifiers exported by text.
func (e *Extractor) Exports(text string) []string {
	return e.exports(text)
}

// Complexity returns 1 plus the number of branch, loop and boolean-operator
// tokens anywhere in text.
func (e *Extractor) Complexity(text string) int {
	score := 1
	for _, p := range e.families[FamilyComplexity] {
		score += len(p.re.FindAllStringIndex(text, -1))
	}
	return score
}

// Todos scans text line by line and records at most one marker per line.
func (e *Extractor) Todos(text string) []domain.TodoEntry {
	patterns := e.families[FamilyTodos]
	if len(patterns) == 0 {
		return nil
	}

	var todos []domain.TodoEntry
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		for _, p := range patterns {
			m := p.re.FindStringSubmatch(line)
			if m == nil || len(m) < 2 {
				continue
			}
			entry := domain.TodoEntry{
				Line:     i + 1,
				Kind:     strings.ToUpper(m[1]),
				FullLine: strings.TrimSpace(line),
			}
			if len(m) > 2 {
				entry.Text = m[2]
			}
			todos = append(todos, entry)
			break
		}
	}
	return todos
}

func (e *Extractor) captures(family Family, text string) []string {
	var out []string
	for _, p := range e.families[family] {
		out = append(out, firstGroups(p.re, text)...)
	}
	return out
}

func (e *Extractor) exports(text string) []string {
	var out []string
	for _, p := range e.families[FamilyExports] {
		matches := firstGroups(p.re, text)
		if p.expr != exportListPattern {
			out = append(out, matches...)
			continue
		}
		for _, m := range matches {
			out = append(out, splitBindings(m)...)
		}
	}
	return out
}

// firstGroups returns capture group 1 of every match, or the whole match when
// the expression has no group. Empty captures are dropped.
func firstGroups(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		v := m[0]
		if len(m) > 1 {
			v = m[1]
		}
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// splitBindings turns "a, b as c" into ["a", "c"].
func splitBindings(list string) []string {
	var out []string
	for _, binding := range strings.Split(list, ",") {
		fields := strings.Fields(binding)
		if len(fields) == 0 {
			continue
		}
		if len(fields) >= 3 && fields[len(fields)-2] == "as" {
			out = append(out, fields[len(fields)-1])
			continue
		}
		out = append(out, fields[0])
	}
	return out
}
