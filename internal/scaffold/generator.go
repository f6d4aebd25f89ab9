// Package scaffold generates starter test files from the facts extracted from
// a source file and the framework signals detected in it.
package scaffold

import (
	"bytes"
	_ "embed"
	"path"
	"regexp"
	"slices"
	"strings"
	"text/template"

	"github.com/sha1n/codescope/internal/domain"
	"github.com/sha1n/codescope/internal/extract"
)

// DefaultMaxFunctions caps the number of exported functions given a test group.
const DefaultMaxFunctions = 5

// TestDir is the directory, next to the source file, that receives scaffolds.
const TestDir = "__tests__"

//go:embed templates/test.js.tmpl
var testTemplateText string

var testTemplate = template.Must(template.New("test").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(testTemplateText))

var methodPattern = regexp.MustCompile(`(?:async\s+)?(\w+)\s*\([^)]*\)\s*\{`)

// exportedFunctionPatterns name exported functions directly. The export table
// misses `export async function`.
var exportedFunctionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`export\s+(?:async\s+)?function\s+(\w+)\s*\(`),
	regexp.MustCompile(`export\s+const\s+(\w+)\s*=\s*(?:async\s+)?\([^)]*\)\s*=>`),
}

// controlKeywords look like method headers to methodPattern and are dropped.
var controlKeywords = map[string]struct{}{
	"if": {}, "for": {}, "while": {}, "switch": {}, "catch": {}, "function": {}, "with": {},
}

// Spec parametrizes the scaffold of one file. It is discarded after rendering.
type Spec struct {
	Source     string
	Name       string
	ImportPath string
	Classes    []string
	Functions  []string
	Methods    []string
	Signals    Signals
}

// Generator renders scaffolds. It is safe for concurrent use.
type Generator struct {
	extractor    *extract.Extractor
	framework    Framework
	maxFunctions int
}

// NewGenerator creates a Generator. A non-positive maxFunctions uses
// DefaultMaxFunctions.
func NewGenerator(extractor *extract.Extractor, framework Framework, maxFunctions int) *Generator {
	if maxFunctions <= 0 {
		maxFunctions = DefaultMaxFunctions
	}
	if framework == "" {
		framework = FrameworkJest
	}
	return &Generator{extractor: extractor, framework: framework, maxFunctions: maxFunctions}
}

// Framework returns the test runner flavour.
func (g *Generator) Framework() Framework {
	return g.framework
}

// Analyze builds the Spec of a file. Classes are the unique extracted class
// names; functions are the unique extracted functions that are also exported,
// capped at the generator's limit.
func (g *Generator) Analyze(file domain.FileRecord) Spec {
	stem := strings.TrimSuffix(path.Base(file.Path), path.Ext(file.Path))

	exported := make(map[string]struct{})
	for _, e := range g.extractor.Exports(file.Text) {
		exported[e] = struct{}{}
	}
	for _, re := range exportedFunctionPatterns {
		for _, m := range re.FindAllStringSubmatch(file.Text, -1) {
			exported[m[1]] = struct{}{}
		}
	}
	var functions []string
	for _, fn := range unique(g.extractor.Functions(file.Text)) {
		if _, ok := exported[fn]; ok {
			functions = append(functions, fn)
		}
	}
	if len(functions) > g.maxFunctions {
		functions = functions[:g.maxFunctions]
	}

	var methods []string
	for _, m := range methodPattern.FindAllStringSubmatch(file.Text, -1) {
		if _, skip := controlKeywords[m[1]]; !skip {
			methods = append(methods, m[1])
		}
	}

	return Spec{
		Source:     file.Path,
		Name:       stem,
		ImportPath: "../" + stem,
		Classes:    unique(g.extractor.Classes(file.Text)),
		Functions:  functions,
		Methods:    unique(methods),
		Signals:    DetectSignals(file.Path, file.Text),
	}
}

// Render produces the scaffold text of spec.
func (g *Generator) Render(spec Spec) (string, error) {
	data := struct {
		Spec
		FrameworkImport string
		Mock            string
		Server          bool
		UI              bool
		Module          bool
		Service         bool
		Middleware      bool
		Async           bool
		Persistence     bool
	}{
		Spec:            spec,
		FrameworkImport: g.framework.importLine(),
		Mock:            g.framework.mockNamespace(),
		Server:          spec.Signals.Has(SignalServer),
		UI:              spec.Signals.Has(SignalUI),
		Module:          spec.Signals.Has(SignalModule),
		Service:         spec.Signals.Has(SignalService),
		Middleware:      spec.Signals.Has(SignalMiddleware),
		Async:           spec.Signals.Has(SignalAsync),
		Persistence:     spec.Signals.Has(SignalPersistence),
	}

	var buf bytes.Buffer
	if err := testTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Generate analyzes and renders one file.
func (g *Generator) Generate(file domain.FileRecord) (string, Spec, error) {
	spec := g.Analyze(file)
	text, err := g.Render(spec)
	return text, spec, err
}

// TargetPath returns the slash-separated scaffold path of a source file:
// <dir>/__tests__/<stem>.test.js.
func TargetPath(relPath string) string {
	base := path.Base(relPath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return path.Join(path.Dir(relPath), TestDir, stem+".test.js")
}

func unique(values []string) []string {
	var out []string
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
