package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "toolrun",
	Short: "Run external tools and collect their output",
	Long: `toolrun starts command-line tools, drains stdout and stderr concurrently,
and reports the complete output together with the exit code.

Tools whose path contains a single quote run through bash (cmd.exe on Windows)
automatically. Settings can be loaded from a YAML profile with --config.`,
	Example: `  toolrun run -- git status --short          # Run a tool directly
  toolrun run --shell -- ./build.sh release    # Run through the shell
  toolrun run --lines --respond 'y/N=y' -- ./setup
  toolrun mcp                                  # Serve run_tool over stdio`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	// Hide the auto-generated completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())

	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("toolrun %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}

	return fmt.Sprintf("toolrun %s\n", version)
}

// newLogger logs warnings by default and everything with --verbose.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// exitStatusError carries the exit code of a tool that did not succeed.
type exitStatusError struct {
	code int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), versionTemplate())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
