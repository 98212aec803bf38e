package mcptools

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chris-regnier/daycal/internal/note"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func toNoteResult(n *note.Note) NoteResult {
	return NoteResult{
		ID:        n.ID,
		Date:      n.Date,
		Title:     n.Title(),
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: n.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func fromNoteResult(r NoteResult) (*note.Note, error) {
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &note.Note{
		ID:        r.ID,
		Date:      r.Date,
		Content:   r.Content,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// decodeResult unpacks a tool result into out, preferring structured content
// and falling back to JSON in the first text block.
func decodeResult(result *mcp.CallToolResult, out any) error {
	if result.IsError {
		return fmt.Errorf("tool error: %s", resultText(result))
	}

	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		if err != nil {
			return fmt.Errorf("marshal structured content: %w", err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal structured content: %w", err)
		}
		return nil
	}

	text := resultText(result)
	if text == "" {
		return fmt.Errorf("empty tool result")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("unmarshal text: %w", err)
	}
	return nil
}

func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
