package app

import "github.com/spf13/pflag"

// RegisterFlags registers the flags shared by every command on the given FlagSet.
// Zero defaults defer to the configuration layer; only changed flags override it.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "Config file (YAML, TOML or JSON)")
	flags.StringP("root", "r", "", "Root directory to analyze")
	flags.StringSliceP("extensions", "e", nil, "Source file extensions (comma-separated)")
	flags.StringSlice("exclude-dirs", nil, "Additional directory names to skip (comma-separated)")
	flags.StringSliceP("exclude", "x", nil, "Glob patterns to exclude, relative to the root (comma-separated)")
	flags.Bool("respect-gitignore", false, "Skip files ignored by git")
	flags.Int64("max-file-size", 0, "Maximum file size in bytes")
	flags.IntP("workers", "w", 0, "Number of extraction workers (0 = GOMAXPROCS)")

	flags.StringP("output-dir", "o", "", "Directory for reports")
	flags.String("analysis-file", "", "Analysis report file name")
	flags.String("suggestions-file", "", "Refactor suggestions file name")
	flags.String("index-dir", "", "Suggestion index directory, relative to the output directory")
	flags.Duration("lock-timeout", 0, "How long to wait for another run on the same output directory (0 = fail fast)")

	flags.Float64("complexity-threshold", 0, "Average module complexity that triggers a suggestion")
	flags.Float64("test-coverage-target", 0, "Test coverage estimate target (percent)")
	flags.Float64("doc-coverage-target", 0, "Documentation coverage estimate target (percent)")
	flags.Int("max-dependencies", 0, "Declared dependency count that triggers a suggestion")
	flags.Int("min-duplicate-length", 0, "Minimum whitespace-free length of a duplicated line")
	flags.Int("max-scaffold-functions", 0, "Maximum number of functions per scaffold")
	flags.Bool("per-file-checks", true, "Emit per-file test and documentation suggestions")

	flags.Bool("index", false, "Write a suggestion search index on refactor")
	flags.Int("max-results", 0, "Maximum number of search results")

	flags.StringP("log-level", "l", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
	flags.StringP("transport", "t", "", "MCP transport: stdio")

	flags.String("repo", "", "SSH URL of a git repository to analyze instead of the root")
	flags.String("repo-cache-dir", "", "Directory for cloned repositories")
}

// RegisterSearchFlags registers the search filters on the given FlagSet.
func RegisterSearchFlags(flags *pflag.FlagSet) {
	flags.String("type", "", "Filter by suggestion type")
	flags.String("severity", "", "Filter by severity")
	flags.String("file", "", "Filter by file path")
	flags.IntP("limit", "n", 0, "Maximum number of results")
}

// RegisterScaffoldFlags registers the scaffold filters on the given FlagSet.
func RegisterScaffoldFlags(flags *pflag.FlagSet) {
	flags.StringP("module", "m", "", "Only scaffold files of this module (e.g. auth, cli, scripts, core)")
}
