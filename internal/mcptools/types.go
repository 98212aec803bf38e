package mcptools

// NotesForMonthInput is the input schema for the notes_for_month MCP tool.
type NotesForMonthInput struct {
	Month string `json:"month" jsonschema:"month key in YYYY-MM form"`
}

// NotesForMonthOutput is the output schema for the notes_for_month MCP tool.
type NotesForMonthOutput struct {
	Notes map[string]string `json:"notes" jsonschema:"ISO date to note ID for every day note in the month"`
}

// GetDayNoteInput is the input schema for the get_day_note MCP tool.
type GetDayNoteInput struct {
	Date   string `json:"date" jsonschema:"ISO date in YYYY-MM-DD form"`
	Create bool   `json:"create" jsonschema:"create the day note if it does not exist"`
}

// GetDayNoteOutput is the output schema for the get_day_note MCP tool.
type GetDayNoteOutput struct {
	Found   bool        `json:"found"`
	Created bool        `json:"created"`
	Note    *NoteResult `json:"note,omitempty"`
}

// GetNoteInput is the input schema for the get_note MCP tool.
type GetNoteInput struct {
	ID string `json:"id" jsonschema:"note ID"`
}

// UpdateNoteInput is the input schema for the update_note MCP tool.
type UpdateNoteInput struct {
	ID      string `json:"id" jsonschema:"note ID"`
	Content string `json:"content" jsonschema:"replacement markdown content"`
}

// NoteOutput is the output schema for tools returning a single note.
type NoteOutput struct {
	Note NoteResult `json:"note"`
}

// NoteResult is the wire form of a note. Timestamps are RFC 3339.
type NoteResult struct {
	ID        string `json:"id"`
	Date      string `json:"date,omitempty"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
