package main

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/wagiedev/toolrun-go/internal/config"
	toolmcp "github.com/wagiedev/toolrun-go/internal/mcp"
)

var mcpConfigPath string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the run_tool MCP tool over stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout exposing run_tool,
which runs an external tool and returns its output and exit code.

Logs go to stderr so they never interleave with protocol messages.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpConfigPath, "config", "", "YAML profile applied to every run")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	log := newLogger(cmd.ErrOrStderr())

	var base config.Options

	if mcpConfigPath != "" {
		profile, err := config.LoadFile(mcpConfigPath)
		if err != nil {
			return err
		}

		// The server is headless by definition.
		profile.Apply(&base, true)
	}

	server := toolmcp.NewServer(log, base, version)

	log.Info("Serving MCP over stdio")

	if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
