package mcptools

import (
	"context"

	"github.com/chris-regnier/daycal/internal/daynote"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewDayNoteMCPServer creates an in-memory MCP server exposing day-note
// tools. Returns the server and a client transport for connecting to it.
func NewDayNoteMCPServer(svc *daynote.Service, version string) (*mcp.Server, mcp.Transport) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	server := CreateMCPServer(svc, version)

	go func() {
		_, _ = server.Connect(context.Background(), serverTransport, nil)
	}()

	return server, clientTransport
}

// CreateMCPServer creates an MCP server with registered day-note tools.
func CreateMCPServer(svc *daynote.Service, version string) *mcp.Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "daycal",
		Version: version,
	}, nil)

	// Read tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "notes_for_month",
		Description: "Map of ISO date to note ID for every day note in a YYYY-MM month",
	}, NotesForMonthHandler(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_note",
		Description: "Fetch a note by ID",
	}, GetNoteHandler(svc))

	// Write tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_day_note",
		Description: "Fetch the day note for an ISO date, optionally creating it",
	}, GetDayNoteHandler(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_note",
		Description: "Replace a note's content",
	}, UpdateNoteHandler(svc))

	return server
}
