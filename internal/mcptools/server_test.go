package mcptools_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/chris-regnier/daycal/internal/daynote"
	"github.com/chris-regnier/daycal/internal/mcptools"
	"github.com/chris-regnier/daycal/internal/note"
	"github.com/chris-regnier/daycal/internal/storage"
	"github.com/chris-regnier/daycal/internal/storage/markdown"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestService(t *testing.T, create bool) (*daynote.Service, storage.Storage) {
	t.Helper()
	store, err := markdown.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return daynote.New(store, daynote.Options{Template: "# {{.Date}}", CreateMissing: create}), store
}

func seedDayNote(t *testing.T, store storage.Storage, date, content string) note.Note {
	t.Helper()
	n, err := note.NewDayNote(date, content)
	if err != nil {
		t.Fatalf("NewDayNote: %v", err)
	}
	if err := store.Create(n); err != nil {
		t.Fatalf("failed to create note: %v", err)
	}
	return n
}

func connect(t *testing.T, svc *daynote.Service) *mcp.ClientSession {
	t.Helper()
	_, clientTransport := mcptools.NewDayNoteMCPServer(svc, "test")
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	if err != nil {
		t.Fatalf("failed to connect client: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func decode(t *testing.T, result *mcp.CallToolResult, out any) {
	t.Helper()
	if result.StructuredContent != nil {
		outputJSON, _ := json.Marshal(result.StructuredContent)
		if err := json.Unmarshal(outputJSON, out); err != nil {
			t.Fatalf("failed to unmarshal structured content: %v", err)
		}
		return
	}
	if len(result.Content) > 0 {
		tc, ok := result.Content[0].(*mcp.TextContent)
		if !ok {
			t.Fatalf("unexpected content type %T", result.Content[0])
		}
		if err := json.Unmarshal([]byte(tc.Text), out); err != nil {
			t.Fatalf("failed to unmarshal output: %v", err)
		}
		return
	}
	t.Fatal("expected content in result")
}

func TestMCPServer_NotesForMonth(t *testing.T) {
	svc, store := newTestService(t, true)
	feb := seedDayNote(t, store, "2024-02-15", "# Thursday")
	seedDayNote(t, store, "2024-03-01", "# March")

	session := connect(t, svc)
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "notes_for_month",
		Arguments: mcptools.NotesForMonthInput{Month: "2024-02"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}

	var output mcptools.NotesForMonthOutput
	decode(t, result, &output)
	if len(output.Notes) != 1 || output.Notes["2024-02-15"] != feb.ID {
		t.Errorf("notes = %v, want only 2024-02-15 -> %s", output.Notes, feb.ID)
	}
}

func TestMCPServer_NotesForMonthInvalid(t *testing.T) {
	svc, _ := newTestService(t, true)
	session := connect(t, svc)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "notes_for_month",
		Arguments: mcptools.NotesForMonthInput{Month: "2024-13"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError for invalid month")
	}
}

func TestMCPServer_GetDayNote(t *testing.T) {
	svc, _ := newTestService(t, true)
	session := connect(t, svc)

	t.Run("missing without create", func(t *testing.T) {
		result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
			Name:      "get_day_note",
			Arguments: mcptools.GetDayNoteInput{Date: "2023-12-25", Create: false},
		})
		if err != nil {
			t.Fatalf("CallTool failed: %v", err)
		}
		var output mcptools.GetDayNoteOutput
		decode(t, result, &output)
		if output.Found || output.Note != nil {
			t.Errorf("expected not found, got %+v", output)
		}
	})

	t.Run("create", func(t *testing.T) {
		result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
			Name:      "get_day_note",
			Arguments: mcptools.GetDayNoteInput{Date: "2023-12-25", Create: true},
		})
		if err != nil {
			t.Fatalf("CallTool failed: %v", err)
		}
		var output mcptools.GetDayNoteOutput
		decode(t, result, &output)
		if !output.Found || !output.Created || output.Note == nil {
			t.Fatalf("expected created note, got %+v", output)
		}
		if output.Note.Date != "2023-12-25" || output.Note.Title != "2023-12-25" {
			t.Errorf("note = %+v", output.Note)
		}
	})
}

func TestClient_RoundTrip(t *testing.T) {
	svc, store := newTestService(t, false)
	existing := seedDayNote(t, store, "2024-02-29", "# Leap day")

	_, transport := mcptools.NewDayNoteMCPServer(svc, "test")
	client, err := mcptools.NewClient(context.Background(), transport, false)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()

	notes, err := client.NotesForMonth(ctx, "2024-02")
	if err != nil {
		t.Fatalf("NotesForMonth: %v", err)
	}
	if notes["2024-02-29"] != existing.ID {
		t.Errorf("NotesForMonth = %v", notes)
	}

	empty, err := client.NotesForMonth(ctx, "2024-04")
	if err != nil {
		t.Fatalf("NotesForMonth: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil map, got %v", empty)
	}

	n, err := client.GetOrCreateDayNote(ctx, "2024-02-29")
	if err != nil {
		t.Fatalf("GetOrCreateDayNote: %v", err)
	}
	if n.ID != existing.ID || n.Content != "# Leap day" {
		t.Errorf("note = %+v", n)
	}
	if !n.CreatedAt.Equal(existing.CreatedAt.Truncate(time.Second)) {
		t.Errorf("created_at = %v, want %v", n.CreatedAt, existing.CreatedAt)
	}

	if _, err := client.GetOrCreateDayNote(ctx, "2024-02-28"); !errors.Is(err, daynote.ErrNoDayNote) {
		t.Errorf("expected ErrNoDayNote with creation disabled, got %v", err)
	}

	updated, err := client.UpdateNote(ctx, existing.ID, "# Leap day\n\nedited")
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if updated.Content != "# Leap day\n\nedited" {
		t.Errorf("content = %q", updated.Content)
	}

	got, err := client.GetNote(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if got.Content != updated.Content {
		t.Errorf("GetNote content = %q", got.Content)
	}

	if _, err := client.GetNote(ctx, "missing1"); err == nil {
		t.Error("expected error for missing note")
	}
}
