package mcptools

import (
	"context"
	"errors"

	"github.com/chris-regnier/daycal/internal/daynote"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NotesForMonthHandler returns the handler function for the notes_for_month MCP tool.
func NotesForMonthHandler(svc *daynote.Service) func(ctx context.Context, req *mcp.CallToolRequest, input NotesForMonthInput) (*mcp.CallToolResult, NotesForMonthOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input NotesForMonthInput) (*mcp.CallToolResult, NotesForMonthOutput, error) {
		notes, err := svc.NotesForMonth(ctx, input.Month)
		if err != nil {
			return nil, NotesForMonthOutput{}, err
		}
		if notes == nil {
			notes = map[string]string{}
		}
		return nil, NotesForMonthOutput{Notes: notes}, nil
	}
}

// GetDayNoteHandler returns the handler function for the get_day_note MCP
// tool. A missing note without create is reported as found=false, not as an
// error.
func GetDayNoteHandler(svc *daynote.Service) func(ctx context.Context, req *mcp.CallToolRequest, input GetDayNoteInput) (*mcp.CallToolResult, GetDayNoteOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetDayNoteInput) (*mcp.CallToolResult, GetDayNoteOutput, error) {
		n, created, err := svc.GetDayNote(ctx, input.Date, input.Create)
		if errors.Is(err, daynote.ErrNoDayNote) {
			return nil, GetDayNoteOutput{}, nil
		}
		if err != nil {
			return nil, GetDayNoteOutput{}, err
		}
		r := toNoteResult(n)
		return nil, GetDayNoteOutput{Found: true, Created: created, Note: &r}, nil
	}
}

// GetNoteHandler returns the handler function for the get_note MCP tool.
func GetNoteHandler(svc *daynote.Service) func(ctx context.Context, req *mcp.CallToolRequest, input GetNoteInput) (*mcp.CallToolResult, NoteOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetNoteInput) (*mcp.CallToolResult, NoteOutput, error) {
		n, err := svc.GetNote(ctx, input.ID)
		if err != nil {
			return nil, NoteOutput{}, err
		}
		return nil, NoteOutput{Note: toNoteResult(n)}, nil
	}
}

// UpdateNoteHandler returns the handler function for the update_note MCP tool.
func UpdateNoteHandler(svc *daynote.Service) func(ctx context.Context, req *mcp.CallToolRequest, input UpdateNoteInput) (*mcp.CallToolResult, NoteOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input UpdateNoteInput) (*mcp.CallToolResult, NoteOutput, error) {
		n, err := svc.UpdateNote(ctx, input.ID, input.Content)
		if err != nil {
			return nil, NoteOutput{}, err
		}
		return nil, NoteOutput{Note: toNoteResult(n)}, nil
	}
}
