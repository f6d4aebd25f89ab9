package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by LoadSettings.
const EnvPrefix = "CODESCOPE"

// Transport, log level and log format values.
const (
	TransportStdio = "stdio"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// OutputSettings configuration for generated reports
type OutputSettings struct {
	Dir             string `mapstructure:"dir"`
	AnalysisFile    string `mapstructure:"analysis_file"`
	SuggestionsFile string `mapstructure:"suggestions_file"`
	IndexDir        string `mapstructure:"index_dir"`

	// LockTimeout is how long a run waits for the output directory lock.
	// Zero fails fast when another run holds it.
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

// AnalysisPath returns the full path of the analysis report.
func (o OutputSettings) AnalysisPath() string {
	return filepath.Join(o.Dir, o.AnalysisFile)
}

// SuggestionsPath returns the full path of the refactor suggestions report.
func (o OutputSettings) SuggestionsPath() string {
	return filepath.Join(o.Dir, o.SuggestionsFile)
}

// IndexPath returns the full path of the suggestion index.
func (o OutputSettings) IndexPath() string {
	return filepath.Join(o.Dir, o.IndexDir)
}

// ThresholdSettings configuration for the suggestion checks
type ThresholdSettings struct {
	ComplexityAverage    float64 `mapstructure:"complexity_average"`
	TestCoverage         float64 `mapstructure:"test_coverage"`
	DocCoverage          float64 `mapstructure:"doc_coverage"`
	MaxDependencies      int     `mapstructure:"max_dependencies"`
	MinDuplicateLength   int     `mapstructure:"min_duplicate_length"`
	MaxScaffoldFunctions int     `mapstructure:"max_scaffold_functions"`
}

// CheckSettings toggles optional checks
type CheckSettings struct {
	PerFile bool `mapstructure:"per_file"`
}

// IndexSettings configuration for the suggestion search index
type IndexSettings struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxResults int  `mapstructure:"max_results"`
}

// LogSettings configuration for logging
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RepoSettings configuration for analyzing a remote repository
type RepoSettings struct {
	URL      string `mapstructure:"url"`
	CacheDir string `mapstructure:"cache_dir"`
}

// Settings application settings
type Settings struct {
	Root             string            `mapstructure:"root"`
	Extensions       []string          `mapstructure:"extensions"`
	ExcludeDirs      []string          `mapstructure:"exclude_dirs"`
	ExcludePatterns  []string          `mapstructure:"exclude_patterns"`
	RespectGitignore bool              `mapstructure:"respect_gitignore"`
	MaxFileSize      int64             `mapstructure:"max_file_size"`
	Workers          int               `mapstructure:"workers"`
	Output           OutputSettings    `mapstructure:"output"`
	Thresholds       ThresholdSettings `mapstructure:"thresholds"`
	Checks           CheckSettings     `mapstructure:"checks"`
	Index            IndexSettings     `mapstructure:"index"`
	Log              LogSettings       `mapstructure:"log"`
	Transport        string            `mapstructure:"transport"`
	Repo             RepoSettings      `mapstructure:"repo"`
}

// flagKeys maps CLI flag names to setting keys.
var flagKeys = map[string]string{
	"root":                   "root",
	"extensions":             "extensions",
	"exclude-dirs":           "exclude_dirs",
	"exclude":                "exclude_patterns",
	"respect-gitignore":      "respect_gitignore",
	"max-file-size":          "max_file_size",
	"workers":                "workers",
	"output-dir":             "output.dir",
	"analysis-file":          "output.analysis_file",
	"suggestions-file":       "output.suggestions_file",
	"index-dir":              "output.index_dir",
	"lock-timeout":           "output.lock_timeout",
	"complexity-threshold":   "thresholds.complexity_average",
	"test-coverage-target":   "thresholds.test_coverage",
	"doc-coverage-target":    "thresholds.doc_coverage",
	"max-dependencies":       "thresholds.max_dependencies",
	"min-duplicate-length":   "thresholds.min_duplicate_length",
	"max-scaffold-functions": "thresholds.max_scaffold_functions",
	"per-file-checks":        "checks.per_file",
	"index":                  "index.enabled",
	"max-results":            "index.max_results",
	"log-level":              "log.level",
	"log-format":             "log.format",
	"transport":              "transport",
	"repo":                   "repo.url",
	"repo-cache-dir":         "repo.cache_dir",
}

// LoadSettings loads settings from environment variables, an optional .env
// file and defaults.
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > config file > .env file > defaults.
// The config file is named by the "config" flag or CODESCOPE_CONFIG.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("root", ".")
	v.SetDefault("extensions", []string{".js", ".mjs", ".ts", ".jsx", ".tsx"})
	v.SetDefault("exclude_dirs", []string{})
	v.SetDefault("exclude_patterns", []string{})
	v.SetDefault("respect_gitignore", false)
	v.SetDefault("max_file_size", int64(1024*1024)) // 1MB
	v.SetDefault("workers", 0)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.analysis_file", "codescope-analysis.json")
	v.SetDefault("output.suggestions_file", "refactor-suggestions.json")
	v.SetDefault("output.index_dir", ".codescope/suggestions.bleve")
	v.SetDefault("output.lock_timeout", time.Duration(0))

	v.SetDefault("thresholds.complexity_average", 50.0)
	v.SetDefault("thresholds.test_coverage", 80.0)
	v.SetDefault("thresholds.doc_coverage", 90.0)
	v.SetDefault("thresholds.max_dependencies", 100)
	v.SetDefault("thresholds.min_duplicate_length", 10)
	v.SetDefault("thresholds.max_scaffold_functions", 5)

	v.SetDefault("checks.per_file", true)
	v.SetDefault("index.enabled", false)
	v.SetDefault("index.max_results", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", LogFormatText)
	v.SetDefault("transport", TransportStdio)
	v.SetDefault("repo.url", "")
	v.SetDefault("repo.cache_dir", defaultCacheDir())

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind CLI flags if provided (highest priority)
	configFile := os.Getenv(EnvPrefix + "_CONFIG")
	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
		if f := flags.Lookup("config"); f != nil && f.Changed {
			configFile = f.Value.String()
		}
	}

	// .env in the working directory
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	// Explicit config file, merged over .env
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType(strings.TrimPrefix(filepath.Ext(configFile), "."))
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	settings.Extensions = splitList(settings.Extensions)
	settings.ExcludeDirs = splitList(settings.ExcludeDirs)
	settings.ExcludePatterns = splitList(settings.ExcludePatterns)
	settings.Log.Level = strings.ToLower(strings.TrimSpace(settings.Log.Level))
	settings.Log.Format = strings.ToLower(strings.TrimSpace(settings.Log.Format))
	settings.Repo.URL = strings.TrimSpace(settings.Repo.URL)
	settings.Repo.CacheDir = expandHomeDir(settings.Repo.CacheDir)

	return &settings, nil
}

// defaultCacheDir returns the default directory for cloned repositories
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codescope/repos"
	}
	return filepath.Join(home, ".codescope", "repos")
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// splitList flattens comma-separated entries, trims spaces and drops empty
// values. Environment variables and .env values arrive as a single string.
func splitList(values []string) []string {
	result := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

// ValidateSettings checks for invalid or incomplete configuration.
func ValidateSettings(s *Settings) error {
	if s.Transport != TransportStdio {
		return errors.New("transport must be 'stdio', got: " + s.Transport)
	}

	if !slices.Contains(logLevels, s.Log.Level) {
		return fmt.Errorf("log level must be one of %s, got: %s", strings.Join(logLevels, ", "), s.Log.Level)
	}

	switch s.Log.Format {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return errors.New("log format must be 'text' or 'json', got: " + s.Log.Format)
	}

	if len(s.Extensions) == 0 {
		return errors.New("extensions cannot be empty")
	}

	if s.MaxFileSize <= 0 {
		return errors.New("max-file-size must be positive")
	}

	if s.Workers < 0 {
		return errors.New("workers cannot be negative")
	}

	if s.Output.Dir == "" || s.Output.AnalysisFile == "" || s.Output.SuggestionsFile == "" {
		return errors.New("output dir and report file names cannot be empty")
	}

	if s.Output.LockTimeout < 0 {
		return errors.New("lock-timeout cannot be negative")
	}

	if s.Index.Enabled && s.Output.IndexDir == "" {
		return errors.New("index requires a non-empty index-dir")
	}

	if s.Index.MaxResults <= 0 {
		return errors.New("max-results must be positive")
	}

	if s.Repo.URL != "" && s.Repo.CacheDir == "" {
		return errors.New("repo requires a non-empty repo-cache-dir")
	}

	return validateThresholds(&s.Thresholds)
}

// validateThresholds rejects non-positive thresholds
func validateThresholds(t *ThresholdSettings) error {
	if t.ComplexityAverage <= 0 {
		return errors.New("complexity-threshold must be positive")
	}
	if t.TestCoverage <= 0 {
		return errors.New("test-coverage-target must be positive")
	}
	if t.DocCoverage <= 0 {
		return errors.New("doc-coverage-target must be positive")
	}
	if t.MaxDependencies <= 0 {
		return errors.New("max-dependencies must be positive")
	}
	if t.MinDuplicateLength <= 0 {
		return errors.New("min-duplicate-length must be positive")
	}
	if t.MaxScaffoldFunctions <= 0 {
		return errors.New("max-scaffold-functions must be positive")
	}
	return nil
}
