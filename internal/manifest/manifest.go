// Package manifest lists the dependencies declared by the package manifests
// found at the root of an analyzed tree.
package manifest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// Manifest file names recognised at the root.
const (
	PackageJSON  = "package.json"
	GoMod        = "go.mod"
	CargoToml    = "Cargo.toml"
	PyProject    = "pyproject.toml"
	PubspecYaml  = "pubspec.yaml"
	Requirements = "requirements.txt"
)

type parser func(data []byte) ([]string, error)

var parsers = []struct {
	name  string
	parse parser
}{
	{PackageJSON, parsePackageJSON},
	{GoMod, parseGoMod},
	{CargoToml, parseCargoToml},
	{PyProject, parsePyProject},
	{PubspecYaml, parsePubspec},
	{Requirements, parseRequirements},
}

// Manifest is one parsed manifest file.
type Manifest struct {
	File         string   `json:"file"`
	Dependencies []string `json:"dependencies"`
}

// Declared is the union of every manifest found at a root.
type Declared struct {
	Manifests []Manifest

	// Dependencies are the sorted, unique names across all manifests.
	Dependencies []string
}

// Read parses every known manifest in root. Missing files are ignored; a file
// that fails to parse is logged and skipped.
func Read(root string, logger *slog.Logger) Declared {
	if logger == nil {
		logger = slog.Default()
	}

	var d Declared
	seen := make(map[string]struct{})

	for _, p := range parsers {
		data, err := os.ReadFile(filepath.Join(root, p.name))
		if err != nil {
			continue
		}
		deps, err := p.parse(data)
		if err != nil {
			logger.Warn("Failed to parse manifest", "file", p.name, "error", err)
			continue
		}
		deps = sortedUnique(deps)
		d.Manifests = append(d.Manifests, Manifest{File: p.name, Dependencies: deps})
		for _, dep := range deps {
			seen[dep] = struct{}{}
		}
		logger.Debug("Manifest read", "file", p.name, "dependencies", len(deps))
	}

	d.Dependencies = make([]string, 0, len(seen))
	for dep := range seen {
		d.Dependencies = append(d.Dependencies, dep)
	}
	slices.Sort(d.Dependencies)
	return d
}

func parsePackageJSON(data []byte) ([]string, error) {
	var pkg struct {
		Dependencies     map[string]string `json:"dependencies"`
		DevDependencies  map[string]string `json:"devDependencies"`
		PeerDependencies map[string]string `json:"peerDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", PackageJSON, err)
	}
	return keys(pkg.Dependencies, pkg.DevDependencies, pkg.PeerDependencies), nil
}

func parseGoMod(data []byte) ([]string, error) {
	f, err := modfile.ParseLax(GoMod, data, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", GoMod, err)
	}
	deps := make([]string, 0, len(f.Require))
	for _, r := range f.Require {
		deps = append(deps, r.Mod.Path)
	}
	return deps, nil
}

func parseCargoToml(data []byte) ([]string, error) {
	var cargo struct {
		Dependencies      map[string]any `toml:"dependencies"`
		DevDependencies   map[string]any `toml:"dev-dependencies"`
		BuildDependencies map[string]any `toml:"build-dependencies"`
	}
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", CargoToml, err)
	}
	return keys(cargo.Dependencies, cargo.DevDependencies, cargo.BuildDependencies), nil
}

func parsePyProject(data []byte) ([]string, error) {
	var py struct {
		Project struct {
			Dependencies         []string            `toml:"dependencies"`
			OptionalDependencies map[string][]string `toml:"optional-dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies    map[string]any `toml:"dependencies"`
				DevDependencies map[string]any `toml:"dev-dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &py); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", PyProject, err)
	}

	var deps []string
	for _, req := range py.Project.Dependencies {
		deps = appendRequirement(deps, req)
	}
	for _, group := range py.Project.OptionalDependencies {
		for _, req := range group {
			deps = appendRequirement(deps, req)
		}
	}
	for _, name := range keys(py.Tool.Poetry.Dependencies, py.Tool.Poetry.DevDependencies) {
		if name != "python" {
			deps = append(deps, name)
		}
	}
	return deps, nil
}

func parsePubspec(data []byte) ([]string, error) {
	var pub struct {
		Dependencies    map[string]any `yaml:"dependencies"`
		DevDependencies map[string]any `yaml:"dev_dependencies"`
	}
	if err := yaml.Unmarshal(data, &pub); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", PubspecYaml, err)
	}
	return keys(pub.Dependencies, pub.DevDependencies), nil
}

func parseRequirements(data []byte) ([]string, error) {
	var deps []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		deps = appendRequirement(deps, line)
	}
	return deps, nil
}

// appendRequirement appends the distribution name of a PEP 508 requirement.
func appendRequirement(deps []string, req string) []string {
	name := req
	if i := strings.IndexAny(req, "<>=!~;[ (@"); i >= 0 {
		name = req[:i]
	}
	if name = strings.TrimSpace(name); name != "" {
		deps = append(deps, name)
	}
	return deps
}

func keys[V any](maps ...map[string]V) []string {
	var out []string
	for _, m := range maps {
		for k := range m {
			out = append(out, k)
		}
	}
	return out
}

func sortedUnique(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
