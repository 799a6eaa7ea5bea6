package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

type externalEditorDoneMsg struct {
	err error
}

func externalEditorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// openExternalEditor hands the plain instructions text to $VISUAL/$EDITOR.
// Formatting survives on characters the edit leaves alone.
func (m *appModel) openExternalEditor() (tea.Cmd, error) {
	args := splitShellWords(externalEditorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}

	f, err := os.CreateTemp("", "recipekeeper-instructions-*.txt")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	before := m.instructions.Value()
	if _, err := f.WriteString(before); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	_ = f.Close()

	m.externalEditorPath = path
	m.externalEditorBefore = before

	cmd := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalEditorDoneMsg{err: err}
	}), nil
}

func (m *appModel) applyExternalEditorResult(msg externalEditorDoneMsg) {
	path := m.externalEditorPath
	before := m.externalEditorBefore
	m.externalEditorPath = ""
	m.externalEditorBefore = ""
	if strings.TrimSpace(path) == "" {
		return
	}
	defer func() { _ = os.Remove(path) }()

	if msg.err != nil {
		m.showError(fmt.Errorf("editor failed: %w", msg.err))
		return
	}
	b, err := os.ReadFile(path)
	if err != nil {
		m.showError(fmt.Errorf("editor read failed: %w", err))
		return
	}

	// Editors usually append a final newline the text never had.
	after := string(b)
	if !strings.HasSuffix(before, "\n") {
		after = strings.TrimSuffix(after, "\n")
	}
	if after == before {
		m.showMinibuffer(fmt.Sprintf("No changes from %s", externalEditorName()))
		return
	}
	m.instructions.SetValue(after)
	m.syncInstructions()
	m.showMinibuffer(fmt.Sprintf("Updated from %s (ctrl+s to save)", externalEditorName()))
}

// splitShellWords splits an $EDITOR value such as `code --wait` into argv,
// honoring quotes and backslash escapes.
func splitShellWords(s string) []string {
	var out []string
	var cur []rune
	inSingle, inDouble, escaped := false, false, false

	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}

	for _, r := range s {
		switch {
		case escaped:
			cur = append(cur, r)
			escaped = false
		case r == '\\' && !inSingle:
			escaped = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case unicode.IsSpace(r) && !inSingle && !inDouble:
			flush()
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}
