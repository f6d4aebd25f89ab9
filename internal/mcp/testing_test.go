package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sha1n/codescope/internal/analysis"
	"github.com/sha1n/codescope/internal/catalog"
	"github.com/sha1n/codescope/internal/config"
)

var fixtureFiles = map[string]string{
	"src/app.js": `import { load } from './store';

export function start(config) {
  const data = load(config);
  eval(data.script);
  return data;
}
`,
	"src/store.js": `export function load(config) {
  return { script: config.script };
}
`,
	"package.json": `{"devDependencies": {"jest": "^29.0.0"}}`,
}

func newTestService(t *testing.T) *analysis.Service {
	t.Helper()
	root := t.TempDir()
	for rel, content := range fixtureFiles {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	settings := &config.Settings{
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
		Index:     config.IndexSettings{MaxResults: 20},
		Log:       config.LogSettings{Level: "info", Format: config.LogFormatText},
		Transport: config.TransportStdio,
		Repo:      config.RepoSettings{CacheDir: t.TempDir()},
	}

	svc := analysis.NewService(analysis.New(settings, nil), nil)
	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Errorf("Failed to close service: %v", err)
		}
	})
	return svc
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("Expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}
