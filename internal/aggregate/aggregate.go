// Package aggregate folds per-file extraction results into per-module and
// project-wide totals.
package aggregate

import (
	"slices"
	"strings"

	"github.com/sha1n/codescope/internal/domain"
)

// Module names that are not taken from the path.
const (
	ModuleCore    = "core"
	ModuleCLI     = "cli"
	ModuleScripts = "scripts"
)

// ModuleName derives the module of a root-relative path:
// modules/<name>/... is <name>, cli/... is cli, scripts/... is scripts and
// anything else is core.
func ModuleName(relPath string) string {
	parts := strings.Split(strings.Trim(strings.ReplaceAll(relPath, "\\", "/"), "/"), "/")
	switch {
	case len(parts) > 1 && parts[0] == "modules":
		return parts[1]
	case len(parts) > 1 && parts[0] == ModuleCLI:
		return ModuleCLI
	case len(parts) > 1 && parts[0] == ModuleScripts:
		return ModuleScripts
	default:
		return ModuleCore
	}
}

// Totals are project-wide sums over every file passed to Add.
type Totals struct {
	Files     int
	Lines     int
	Imports   []string
	Exports   []string
	Functions []string
	Classes   []string
	Todos     []domain.TodoEntry
}

// Aggregator owns the module buckets of one run. It is not safe for
// concurrent use; callers feed it from a single goroutine.
type Aggregator struct {
	modules map[string]*domain.ModuleStats
	totals  Totals
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{modules: make(map[string]*domain.ModuleStats)}
}

// Add accumulates one file into exactly one module bucket and the global
// totals. It returns the module the file was assigned to.
func (a *Aggregator) Add(file domain.FileRecord, result domain.ExtractionResult) string {
	name := ModuleName(file.Path)

	mod, ok := a.modules[name]
	if !ok {
		mod = &domain.ModuleStats{}
		a.modules[name] = mod
	}
	mod.Files++
	mod.Lines += file.Lines
	mod.Functions += len(result.Functions)
	mod.Classes += len(result.Classes)
	mod.Complexity += result.Complexity

	a.totals.Files++
	a.totals.Lines += file.Lines
	a.totals.Imports = append(a.totals.Imports, result.Imports...)
	a.totals.Exports = append(a.totals.Exports, result.Exports...)
	a.totals.Functions = append(a.totals.Functions, result.Functions...)
	a.totals.Classes = append(a.totals.Classes, result.Classes...)
	for _, todo := range result.Todos {
		todo.File = file.Path
		a.totals.Todos = append(a.totals.Todos, todo)
	}
	return name
}

// Modules returns a copy of the module buckets.
func (a *Aggregator) Modules() map[string]domain.ModuleStats {
	out := make(map[string]domain.ModuleStats, len(a.modules))
	for name, mod := range a.modules {
		out[name] = *mod
	}
	return out
}

// ModuleNames returns the module names in sorted order.
func (a *Aggregator) ModuleNames() []string {
	names := make([]string, 0, len(a.modules))
	for name := range a.modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ModuleCount returns the number of non-empty modules.
func (a *Aggregator) ModuleCount() int {
	return len(a.modules)
}

// Totals returns the project-wide sums.
func (a *Aggregator) Totals() Totals {
	return a.totals
}

// AverageComplexity is the summed module complexity divided by the module
// count, floored at one module.
func (a *Aggregator) AverageComplexity() float64 {
	return AverageComplexity(a.Modules())
}

// AverageComplexity computes the project average over module buckets.
func AverageComplexity(modules map[string]domain.ModuleStats) float64 {
	total := 0
	for _, mod := range modules {
		total += mod.Complexity
	}
	return float64(total) / float64(max(1, len(modules)))
}
