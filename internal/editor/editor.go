package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ResolveEditor determines which editor to use based on config, env vars, and fallback.
func ResolveEditor(configEditor string) string {
	if configEditor != "" {
		return configEditor
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	if ed := os.Getenv("VISUAL"); ed != "" {
		return ed
	}
	return "vi"
}

// Session is a pending edit: a temp file holding the note content and the
// editor command that will open it. The caller runs Cmd (directly or via
// tea.ExecProcess) and then calls Result.
type Session struct {
	Cmd      *exec.Cmd
	path     string
	original string
}

// Prepare writes initialContent to a temp file and builds the editor command.
func Prepare(editorCmd string, initialContent string) (*Session, error) {
	parts := strings.Fields(editorCmd)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty editor command")
	}

	tmp, err := os.CreateTemp("", "daycal-*.md")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(initialContent); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	cmdArgs := append(parts[1:], tmpName)
	return &Session{
		Cmd:      exec.Command(parts[0], cmdArgs...),
		path:     tmpName,
		original: initialContent,
	}, nil
}

// Path returns the temp file being edited.
func (s *Session) Path() string {
	return s.path
}

// Result reads the edited file and removes it. Empty or unchanged content
// reports changed=false; empty content is returned as "".
func (s *Session) Result() (content string, changed bool, err error) {
	defer os.Remove(s.path)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false, fmt.Errorf("reading edited file: %w", err)
	}

	result := string(data)
	if strings.TrimSpace(result) == "" {
		return "", false, nil
	}
	if strings.TrimSpace(result) == strings.TrimSpace(s.original) {
		return s.original, false, nil
	}
	return result, true, nil
}

// Cleanup removes the temp file without reading it.
func (s *Session) Cleanup() {
	os.Remove(s.path)
}

// Edit opens the given content in an editor attached to the terminal and
// returns the edited content.
func Edit(editorCmd string, initialContent string) (content string, changed bool, err error) {
	s, err := Prepare(editorCmd, initialContent)
	if err != nil {
		return "", false, err
	}

	s.Cmd.Stdin = os.Stdin
	s.Cmd.Stdout = os.Stdout
	s.Cmd.Stderr = os.Stderr

	if err := s.Cmd.Run(); err != nil {
		s.Cleanup()
		return "", false, fmt.Errorf("editor exited with error: %w", err)
	}
	return s.Result()
}
