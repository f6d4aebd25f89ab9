package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func validSettings(t *testing.T) *Settings {
	t.Helper()
	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}
	return s
}

func TestLoadSettings_Defaults(t *testing.T) {
	s := validSettings(t)

	if s.Root != "." {
		t.Errorf("Root = %q, want '.'", s.Root)
	}
	if !slices.Equal(s.Extensions, []string{".js", ".mjs", ".ts", ".jsx", ".tsx"}) {
		t.Errorf("Extensions = %v", s.Extensions)
	}
	if s.Transport != TransportStdio {
		t.Errorf("Transport = %q, want stdio", s.Transport)
	}
	if s.Output.AnalysisFile != "codescope-analysis.json" || s.Output.SuggestionsFile != "refactor-suggestions.json" {
		t.Errorf("Output = %+v", s.Output)
	}
	if s.Thresholds.ComplexityAverage != 50 || s.Thresholds.TestCoverage != 80 || s.Thresholds.DocCoverage != 90 {
		t.Errorf("Thresholds = %+v", s.Thresholds)
	}
	if s.Thresholds.MaxDependencies != 100 || s.Thresholds.MinDuplicateLength != 10 || s.Thresholds.MaxScaffoldFunctions != 5 {
		t.Errorf("Thresholds = %+v", s.Thresholds)
	}
	if !s.Checks.PerFile {
		t.Error("per-file checks should be enabled by default")
	}
	if s.Index.Enabled {
		t.Error("index should be disabled by default")
	}
	if s.Log.Level != "info" || s.Log.Format != LogFormatText {
		t.Errorf("Log = %+v", s.Log)
	}
	if s.Repo.CacheDir == "" {
		t.Error("Repo.CacheDir should have a default")
	}
	if s.Output.LockTimeout != 0 {
		t.Errorf("LockTimeout = %v, want 0", s.Output.LockTimeout)
	}
	if err := ValidateSettings(s); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadSettings_EnvVars(t *testing.T) {
	t.Setenv("CODESCOPE_ROOT", "/src")
	t.Setenv("CODESCOPE_EXTENSIONS", ".go, .rs")
	t.Setenv("CODESCOPE_WORKERS", "3")
	t.Setenv("CODESCOPE_OUTPUT_DIR", "/tmp/out")
	t.Setenv("CODESCOPE_THRESHOLDS_COMPLEXITY_AVERAGE", "12.5")
	t.Setenv("CODESCOPE_CHECKS_PER_FILE", "false")
	t.Setenv("CODESCOPE_LOG_LEVEL", "DEBUG")
	t.Setenv("CODESCOPE_OUTPUT_LOCK_TIMEOUT", "2s")

	s := validSettings(t)

	if s.Root != "/src" {
		t.Errorf("Root = %q", s.Root)
	}
	if !slices.Equal(s.Extensions, []string{".go", ".rs"}) {
		t.Errorf("Extensions = %v", s.Extensions)
	}
	if s.Workers != 3 {
		t.Errorf("Workers = %d", s.Workers)
	}
	if s.Output.Dir != "/tmp/out" {
		t.Errorf("Output.Dir = %q", s.Output.Dir)
	}
	if s.Thresholds.ComplexityAverage != 12.5 {
		t.Errorf("ComplexityAverage = %v", s.Thresholds.ComplexityAverage)
	}
	if s.Checks.PerFile {
		t.Error("per-file checks should be disabled")
	}
	if s.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want lowercased", s.Log.Level)
	}
	if s.Output.LockTimeout != 2*time.Second {
		t.Errorf("Output.LockTimeout = %v", s.Output.LockTimeout)
	}
}

func TestLoadSettings_InvalidValue(t *testing.T) {
	t.Setenv("CODESCOPE_WORKERS", "many")

	if _, err := LoadSettings(); err == nil {
		t.Fatal("Expected error for non-numeric workers")
	}
}

func TestLoadSettings_EnvFile(t *testing.T) {
	content := []byte("root=/from/env/file\nworkers=2")
	tmpEnv := ".env"
	if err := os.WriteFile(tmpEnv, content, 0644); err != nil {
		t.Fatalf("Failed to create .env file: %v", err)
	}
	defer func() { _ = os.Remove(tmpEnv) }()

	s := validSettings(t)
	if s.Root != "/from/env/file" {
		t.Errorf("Root = %q", s.Root)
	}
	if s.Workers != 2 {
		t.Errorf("Workers = %d", s.Workers)
	}
}

func TestLoadSettings_ConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "codescope.yaml", "root: /from/config\nthresholds:\n  min_duplicate_length: 25\nexclude_patterns:\n  - \"**/*.gen.js\"\n"},
		{"toml", "codescope.toml", "root = \"/from/config\"\nexclude_patterns = [\"**/*.gen.js\"]\n[thresholds]\nmin_duplicate_length = 25\n"},
		{"json", "codescope.json", `{"root": "/from/config", "exclude_patterns": ["**/*.gen.js"], "thresholds": {"min_duplicate_length": 25}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			t.Setenv("CODESCOPE_CONFIG", path)

			s := validSettings(t)
			if s.Root != "/from/config" {
				t.Errorf("Root = %q", s.Root)
			}
			if s.Thresholds.MinDuplicateLength != 25 {
				t.Errorf("MinDuplicateLength = %d", s.Thresholds.MinDuplicateLength)
			}
			if !slices.Equal(s.ExcludePatterns, []string{"**/*.gen.js"}) {
				t.Errorf("ExcludePatterns = %v", s.ExcludePatterns)
			}
			// Untouched keys keep defaults
			if s.Thresholds.MaxScaffoldFunctions != 5 {
				t.Errorf("MaxScaffoldFunctions = %d", s.Thresholds.MaxScaffoldFunctions)
			}
		})
	}
}

func TestLoadSettings_ConfigFileMissing(t *testing.T) {
	t.Setenv("CODESCOPE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadSettings()
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadSettings_EnvOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codescope.yaml")
	if err := os.WriteFile(path, []byte("root: /from/config\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CODESCOPE_CONFIG", path)
	t.Setenv("CODESCOPE_ROOT", "/from/env")

	if s := validSettings(t); s.Root != "/from/env" {
		t.Errorf("Root = %q, want env to win", s.Root)
	}
}

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("root", "", "")
	flags.StringSlice("extensions", nil, "")
	flags.Bool("index", false, "")
	flags.Int("min-duplicate-length", 0, "")
	flags.Duration("lock-timeout", 0, "")
	flags.String("log-format", "", "")
	flags.String("repo", "", "")
	flags.String("config", "", "")
	return flags
}

func TestLoadSettingsWithFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("CODESCOPE_ROOT", "/from/env")

	flags := newFlags(t)
	if err := flags.Parse([]string{"--root", "/from/flag", "--extensions", ".ts,.tsx", "--index", "--min-duplicate-length", "40", "--lock-timeout", "1m"}); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettingsWithFlags(flags)
	if err != nil {
		t.Fatalf("LoadSettingsWithFlags failed: %v", err)
	}
	if s.Root != "/from/flag" {
		t.Errorf("Root = %q", s.Root)
	}
	if !slices.Equal(s.Extensions, []string{".ts", ".tsx"}) {
		t.Errorf("Extensions = %v", s.Extensions)
	}
	if !s.Index.Enabled {
		t.Error("index should be enabled by flag")
	}
	if s.Thresholds.MinDuplicateLength != 40 {
		t.Errorf("MinDuplicateLength = %d", s.Thresholds.MinDuplicateLength)
	}
	if s.Output.LockTimeout != time.Minute {
		t.Errorf("Output.LockTimeout = %v", s.Output.LockTimeout)
	}
}

func TestLoadSettingsWithFlags_UnsetFlagsKeepDefaults(t *testing.T) {
	s, err := LoadSettingsWithFlags(newFlags(t))
	if err != nil {
		t.Fatalf("LoadSettingsWithFlags failed: %v", err)
	}
	if s.Root != "." || s.Log.Format != LogFormatText || s.Thresholds.MinDuplicateLength != 10 {
		t.Errorf("settings = %+v", s)
	}
}

func TestLoadSettingsWithFlags_ConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codescope.yaml")
	if err := os.WriteFile(path, []byte("repo:\n  url: git@github.com:org/repo.git\n"), 0644); err != nil {
		t.Fatal(err)
	}

	flags := newFlags(t)
	if err := flags.Parse([]string{"--config", path}); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettingsWithFlags(flags)
	if err != nil {
		t.Fatalf("LoadSettingsWithFlags failed: %v", err)
	}
	if s.Repo.URL != "git@github.com:org/repo.git" {
		t.Errorf("Repo.URL = %q", s.Repo.URL)
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"json log format", func(s *Settings) { s.Log.Format = LogFormatJSON }, ""},
		{"unknown transport", func(s *Settings) { s.Transport = "sse" }, "transport"},
		{"unknown log level", func(s *Settings) { s.Log.Level = "verbose" }, "log level"},
		{"unknown log format", func(s *Settings) { s.Log.Format = "xml" }, "log format"},
		{"empty extensions", func(s *Settings) { s.Extensions = nil }, "extensions"},
		{"zero max file size", func(s *Settings) { s.MaxFileSize = 0 }, "max-file-size"},
		{"negative workers", func(s *Settings) { s.Workers = -1 }, "workers"},
		{"empty output dir", func(s *Settings) { s.Output.Dir = "" }, "output"},
		{"index without dir", func(s *Settings) { s.Index.Enabled = true; s.Output.IndexDir = "" }, "index-dir"},
		{"negative lock timeout", func(s *Settings) { s.Output.LockTimeout = -time.Second }, "lock-timeout"},
		{"zero max results", func(s *Settings) { s.Index.MaxResults = 0 }, "max-results"},
		{"repo without cache", func(s *Settings) { s.Repo.URL = "git@h:o/r.git"; s.Repo.CacheDir = "" }, "repo-cache-dir"},
		{"zero complexity", func(s *Settings) { s.Thresholds.ComplexityAverage = 0 }, "complexity-threshold"},
		{"negative test coverage", func(s *Settings) { s.Thresholds.TestCoverage = -1 }, "test-coverage-target"},
		{"zero doc coverage", func(s *Settings) { s.Thresholds.DocCoverage = 0 }, "doc-coverage-target"},
		{"zero dependencies", func(s *Settings) { s.Thresholds.MaxDependencies = 0 }, "max-dependencies"},
		{"zero duplicate length", func(s *Settings) { s.Thresholds.MinDuplicateLength = 0 }, "min-duplicate-length"},
		{"zero scaffold functions", func(s *Settings) { s.Thresholds.MaxScaffoldFunctions = 0 }, "max-scaffold-functions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings(t)
			tt.mutate(s)

			err := ValidateSettings(s)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	o := OutputSettings{Dir: "out", AnalysisFile: "a.json", SuggestionsFile: "s.json", IndexDir: "idx"}

	if got := o.AnalysisPath(); got != filepath.Join("out", "a.json") {
		t.Errorf("AnalysisPath() = %q", got)
	}
	if got := o.SuggestionsPath(); got != filepath.Join("out", "s.json") {
		t.Errorf("SuggestionsPath() = %q", got)
	}
	if got := o.IndexPath(); got != filepath.Join("out", "idx") {
		t.Errorf("IndexPath() = %q", got)
	}
}

func TestExpandHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/cache", filepath.Join(home, "cache")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}
	for _, tt := range tests {
		if got := expandHomeDir(tt.in); got != tt.want {
			t.Errorf("expandHomeDir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{" .js, .ts ", "", ".tsx"})
	if !slices.Equal(got, []string{".js", ".ts", ".tsx"}) {
		t.Errorf("splitList() = %v", got)
	}
	if got := splitList(nil); got == nil || len(got) != 0 {
		t.Errorf("splitList(nil) = %#v, want empty", got)
	}
}
