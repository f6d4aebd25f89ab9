package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sha1n/codescope/internal/app"
	"github.com/sha1n/codescope/internal/index"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
	// ProgramName is injected at build time
	ProgramName = "codescope"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, Build, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, build, programName string, args []string) error {
	rootCmd := newRootCommand(version, build, programName, app.DefaultRunParams())
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func newRootCommand(version, build, programName string, params app.RunParams) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Heuristic source analyzer",
		Long:         "Scans a JavaScript/TypeScript tree, reports structure and coverage estimates, ranks refactoring suggestions and scaffolds unit tests",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate(`{{.Version}}
`)
	app.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "analyze",
			Short: "Scan the tree and write the analysis report",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.RunAnalyze(cmd.Context(), params, cmd.Flags())
			},
		},
		&cobra.Command{
			Use:   "refactor",
			Short: "Rank refactoring suggestions against the analysis report",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.RunRefactor(cmd.Context(), params, cmd.Flags())
			},
		},
		newScaffoldCommand(params),
		newSearchCommand(params),
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the analysis tools over MCP",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.RunWithDeps(cmd.Context(), params, cmd.Flags(), version)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", programName, version, build)
			},
		},
	)

	return rootCmd
}

func newScaffoldCommand(params app.RunParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Write unit test scaffolds and runner config for source files that lack one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, _ := cmd.Flags().GetString("module")
			return app.RunScaffold(cmd.Context(), params, cmd.Flags(), module)
		},
	}
	app.RegisterScaffoldFlags(cmd.Flags())
	return cmd
}

func newSearchCommand(params app.RunParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the suggestion index written by refactor --index",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			q := index.Query{Text: strings.Join(args, " ")}
			q.Category, _ = flags.GetString("type")
			q.Severity, _ = flags.GetString("severity")
			q.File, _ = flags.GetString("file")
			q.Limit, _ = flags.GetInt("limit")
			return app.RunSearch(params, flags, q)
		},
	}
	app.RegisterSearchFlags(cmd.Flags())
	return cmd
}
