package config

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// NewLogger creates the process logger from the log settings. Unknown levels
// fall back to info.
func NewLogger(s LogSettings, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if s.Format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings) {
	LogWithLogger(s, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	if s.Repo.URL != "" {
		logger.InfoContext(ctx, "Config: repo.url", "value", s.Repo.URL)
		logger.DebugContext(ctx, "Config: repo.cache_dir", "value", s.Repo.CacheDir)
	} else {
		logger.InfoContext(ctx, "Config: root", "value", s.Root)
	}
	logger.InfoContext(ctx, "Config: extensions", "value", strings.Join(s.Extensions, ","))
	if len(s.ExcludePatterns) > 0 {
		logger.InfoContext(ctx, "Config: exclude_patterns", "value", strings.Join(s.ExcludePatterns, ","))
	}
	logger.InfoContext(ctx, "Config: output.dir", "value", s.Output.Dir)
	if s.Index.Enabled {
		logger.InfoContext(ctx, "Config: output.index_dir", "value", s.Output.IndexDir)
	}
	logger.DebugContext(ctx, "Config: thresholds", "value", ThresholdsLogValue(s.Thresholds))
}

// ThresholdsLogValue returns a slog.Value for ThresholdSettings
func ThresholdsLogValue(t ThresholdSettings) slog.Value {
	return slog.GroupValue(
		slog.Float64("complexity_average", t.ComplexityAverage),
		slog.Float64("test_coverage", t.TestCoverage),
		slog.Float64("doc_coverage", t.DocCoverage),
		slog.Int("max_dependencies", t.MaxDependencies),
		slog.Int("min_duplicate_length", t.MinDuplicateLength),
		slog.Int("max_scaffold_functions", t.MaxScaffoldFunctions),
	)
}

// SettingsLogValue returns a slog.Value for Settings
func SettingsLogValue(s Settings) slog.Value {
	return slog.GroupValue(
		slog.String("root", s.Root),
		slog.Any("extensions", s.Extensions),
		slog.Bool("respect_gitignore", s.RespectGitignore),
		slog.Int("workers", s.Workers),
		slog.String("output_dir", s.Output.Dir),
		slog.Bool("index", s.Index.Enabled),
		slog.String("transport", s.Transport),
		slog.String("repo", s.Repo.URL),
		slog.Any("thresholds", ThresholdsLogValue(s.Thresholds)),
	)
}
