package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sha1n/codescope/internal/catalog"
	"github.com/sha1n/codescope/internal/config"
)

const (
	loginJS = `import { hash } from './crypto';

// TODO: add rate limiting
export function login(user) {
  if (user && user.name) {
    return hash(user.name);
  }
  return null;
}
`
	mainJS = `const items = load();
const result = items.filter(isValidOne);
eval(process.argv[2]);
`
	reportJS = `export function render(items) {
  const result = items.filter(isValidOne);
  return result;
}
`
	reportTestJS = `import { render } from './report';
test('renders', () => { expect(render([])).toEqual([]); });
`
	packageJSON = `{"dependencies": {"react": "^18.0.0"}, "devDependencies": {"vitest": "^1.0.0"}}`
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// fixtureTree creates a small project with three modules, one test file, one
// README and a package.json.
func fixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "modules/auth/login.js", loginJS)
	writeFile(t, root, "cli/main.js", mainJS)
	writeFile(t, root, "src/report.js", reportJS)
	writeFile(t, root, "src/report.test.js", reportTestJS)
	writeFile(t, root, "node_modules/dep/index.js", mainJS)
	writeFile(t, root, "README.md", "# fixture\n")
	writeFile(t, root, "package.json", packageJSON)
	return root
}

func testSettings(t *testing.T, root string) *config.Settings {
	t.Helper()
	return &config.Settings{
		Root:        root,
		Extensions:  catalog.DefaultExtensions,
		MaxFileSize: 1024 * 1024,
		Workers:     2,
		Output: config.OutputSettings{
			Dir:             t.TempDir(),
			AnalysisFile:    "codescope-analysis.json",
			SuggestionsFile: "refactor-suggestions.json",
			IndexDir:        "suggestions.bleve",
		},
		Thresholds: config.ThresholdSettings{
			ComplexityAverage:    50,
			TestCoverage:         80,
			DocCoverage:          90,
			MaxDependencies:      100,
			MinDuplicateLength:   10,
			MaxScaffoldFunctions: 5,
		},
		Checks:    config.CheckSettings{PerFile: true},
		Index:     config.IndexSettings{MaxResults: 20},
		Log:       config.LogSettings{Level: "info", Format: config.LogFormatText},
		Transport: config.TransportStdio,
		Repo:      config.RepoSettings{CacheDir: t.TempDir()},
	}
}
