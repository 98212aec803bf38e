package mcptools

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/chris-regnier/daycal/internal/daynote"
	"github.com/chris-regnier/daycal/internal/note"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Client implements daynote.Provider against a remote daycal MCP server.
type Client struct {
	session *mcp.ClientSession
	create  bool
}

// NewClient connects to the server behind transport. create is the
// creation policy GetOrCreateDayNote asks the server to apply.
func NewClient(ctx context.Context, transport mcp.Transport, create bool) (*Client, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "daycal-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to MCP server: %w", err)
	}
	return &Client{session: session, create: create}, nil
}

// NewCommandClient spawns name with args as an MCP server over stdio.
func NewCommandClient(ctx context.Context, create bool, name string, args ...string) (*Client, error) {
	return NewClient(ctx, &mcp.CommandTransport{Command: exec.Command(name, args...)}, create)
}

// Close ends the session.
func (c *Client) Close() error {
	return c.session.Close()
}

func (c *Client) call(ctx context.Context, name string, args any, out any) error {
	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return fmt.Errorf("call tool %s: %w", name, err)
	}
	if err := decodeResult(result, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// NotesForMonth calls the notes_for_month tool.
func (c *Client) NotesForMonth(ctx context.Context, month string) (map[string]string, error) {
	var out NotesForMonthOutput
	if err := c.call(ctx, "notes_for_month", NotesForMonthInput{Month: month}, &out); err != nil {
		return nil, err
	}
	if out.Notes == nil {
		out.Notes = map[string]string{}
	}
	return out.Notes, nil
}

// GetDayNote calls the get_day_note tool.
func (c *Client) GetDayNote(ctx context.Context, isoDate string, create bool) (*note.Note, bool, error) {
	var out GetDayNoteOutput
	if err := c.call(ctx, "get_day_note", GetDayNoteInput{Date: isoDate, Create: create}, &out); err != nil {
		return nil, false, err
	}
	if !out.Found || out.Note == nil {
		return nil, false, fmt.Errorf("%w: %s", daynote.ErrNoDayNote, isoDate)
	}
	n, err := fromNoteResult(*out.Note)
	if err != nil {
		return nil, false, err
	}
	return n, out.Created, nil
}

// GetOrCreateDayNote calls get_day_note with the client's creation policy.
func (c *Client) GetOrCreateDayNote(ctx context.Context, isoDate string) (*note.Note, error) {
	n, _, err := c.GetDayNote(ctx, isoDate, c.create)
	return n, err
}

// GetNote calls the get_note tool.
func (c *Client) GetNote(ctx context.Context, id string) (*note.Note, error) {
	var out NoteOutput
	if err := c.call(ctx, "get_note", GetNoteInput{ID: id}, &out); err != nil {
		return nil, err
	}
	return fromNoteResult(out.Note)
}

// UpdateNote calls the update_note tool.
func (c *Client) UpdateNote(ctx context.Context, id string, content string) (*note.Note, error) {
	var out NoteOutput
	if err := c.call(ctx, "update_note", UpdateNoteInput{ID: id, Content: content}, &out); err != nil {
		return nil, err
	}
	return fromNoteResult(out.Note)
}

var _ daynote.Provider = (*Client)(nil)
