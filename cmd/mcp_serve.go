package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/chris-regnier/daycal/internal/mcptools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Run the day-note MCP server on stdio",
	Long: `Starts a Model Context Protocol (MCP) server that exposes the local
day-note store over stdio. Another daycal can use it as its day-note service
with service.mode = "mcp".

Available tools:
  - notes_for_month: ISO date to note ID for a YYYY-MM month
  - get_day_note: Find (and optionally create) the note for a date
  - get_note: Fetch a note by ID
  - update_note: Replace a note's content

Example client config:
  [service]
  mode = "mcp"
  command = "daycal mcp-serve"`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	if localService == nil {
		return fmt.Errorf("mcp-serve needs a local store")
	}

	server := mcptools.CreateMCPServer(localService, version)

	// stdout carries the protocol
	log.SetOutput(os.Stderr)
	log.Printf("Starting daycal MCP server (stdio transport)")
	log.Printf("Storage backend: %s", appConfig.Storage)
	log.Printf("Data directory: %s", appConfig.DataDir)

	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}
