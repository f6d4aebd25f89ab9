package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"

	"github.com/sha1n/codescope/internal/analysis"
	"github.com/sha1n/codescope/internal/config"
	mcputil "github.com/sha1n/codescope/internal/mcp"
	"github.com/sha1n/codescope/internal/report"
)

// ServerName is the MCP implementation name.
const ServerName = "codescope"

// RunParams contains dependencies for the run functions
type RunParams struct {
	LoadSettings      func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings     func(*config.Settings) error
	CreateServer      func(*config.Settings, string) (*mcp.Server, func(), error)
	NewAnalyzer       func(*config.Settings, *slog.Logger) *analysis.Analyzer
	CustomIOTransport mcp.Transport // Optional: for testing with custom IO
	Stdout            io.Writer
	Stderr            io.Writer
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:  config.LoadSettingsWithFlags,
		ValidSettings: config.ValidateSettings,
		CreateServer:  CreateMCPServer,
		NewAnalyzer:   analysis.New,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
	}
}

func (p RunParams) stdout() io.Writer {
	if p.Stdout == nil {
		return os.Stdout
	}
	return p.Stdout
}

func (p RunParams) analyzer(settings *config.Settings, logger *slog.Logger) *analysis.Analyzer {
	if p.NewAnalyzer == nil {
		return analysis.New(settings, logger)
	}
	return p.NewAnalyzer(settings, logger)
}

// setup loads and validates settings and installs the default logger.
func setup(params RunParams, flags *pflag.FlagSet) (*config.Settings, *slog.Logger, error) {
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if err := params.ValidSettings(settings); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Always log to stderr, stdout carries reports and the stdio transport
	stderr := params.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := config.NewLogger(settings.Log, stderr)
	slog.SetDefault(logger)

	config.LogWithLogger(settings, logger)
	return settings, logger, nil
}

// lockOutput takes the output directory lock for the duration of a pass. With
// a positive lock timeout it waits for a concurrent run to finish.
func lockOutput(ctx context.Context, settings *config.Settings, logger *slog.Logger) (func(), error) {
	lock := report.ForDir(settings.Output.Dir)
	if timeout := settings.Output.LockTimeout; timeout > 0 {
		logger.Debug("Acquiring output lock", "path", lock.Path(), "timeout", timeout)
		if err := lock.LockWithContext(ctx, timeout); err != nil {
			return nil, fmt.Errorf("%w: %s", err, lock.Path())
		}
	} else if err := lock.TryLock(); err != nil {
		return nil, err
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("Failed to release output lock", "path", lock.Path(), "error", err)
		}
	}, nil
}

// RunWithDeps serves the MCP tools with the provided dependencies
func RunWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, logger, err := setup(params, flags)
	if err != nil {
		return err
	}

	logger.Info("Starting codescope MCP server", "version", version)

	mcpServer, cleanup, err := params.CreateServer(settings, version)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Use custom transport if provided (for testing), otherwise use stdio
	transport := params.CustomIOTransport
	if transport == nil {
		transport = &mcp.StdioTransport{}
	}
	return mcpServer.Run(ctx, transport)
}

// CreateMCPServer creates the MCP server with registered tools
func CreateMCPServer(settings *config.Settings, version string) (*mcp.Server, func(), error) {
	logger := slog.Default()
	svc := analysis.NewService(analysis.New(settings, logger), logger)

	server := mcputil.CreateServer(mcputil.ServerConfig{
		Name:    ServerName,
		Version: version,
		Service: svc,
	})

	cleanup := func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close analysis service", "error", err)
		}
	}
	return server, cleanup, nil
}
