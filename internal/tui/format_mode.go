package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"recipe-keeper/internal/richtext"
)

func (m *appModel) setFormatMode(on bool) {
	m.syncInstructions()
	m.formatMode = on
	m.anchor = -1
	if on {
		m.instructions.Blur()
		if n := m.docLen(); m.cursor > n {
			m.cursor = n
		}
		m.showMinibuffer("Format mode: shift+arrows select, b/i/u, c color, h highlight, s size, enter menu, esc done")
		return
	}
	if m.focus == focusInstructions {
		m.instructions.Focus()
	}
	m.clearMinibuffer()
}

func (m *appModel) docLen() int {
	return m.ctrl.Editor().Instructions().Len()
}

// selection is the current format-mode range, empty when nothing is marked.
func (m *appModel) selection() richtext.Selection {
	if m.anchor < 0 {
		return richtext.Selection{Start: m.cursor, End: m.cursor}
	}
	return richtext.Selection{Start: m.anchor, End: m.cursor}.Normalize()
}

// moveCursor places the cursor at to, extending the selection when extend is
// set and dropping it otherwise.
func (m *appModel) moveCursor(to int, extend bool) {
	n := m.docLen()
	if to < 0 {
		to = 0
	}
	if to > n {
		to = n
	}
	if extend {
		if m.anchor < 0 {
			m.anchor = m.cursor
		}
	} else {
		m.anchor = -1
	}
	m.cursor = to
}

func (m appModel) updateFormatMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	text := []rune(m.ctrl.Editor().Instructions().PlainText())
	key := msg.String()
	switch key {
	case "esc":
		m.setFormatMode(false)
	case "left", "shift+left":
		m.moveCursor(m.cursor-1, key == "shift+left")
	case "right", "shift+right":
		m.moveCursor(m.cursor+1, key == "shift+right")
	case "up", "shift+up":
		m.moveCursor(verticalMove(text, m.cursor, -1), key == "shift+up")
	case "down", "shift+down":
		m.moveCursor(verticalMove(text, m.cursor, 1), key == "shift+down")
	case "home", "shift+home":
		m.moveCursor(lineStart(text, m.cursor), key == "shift+home")
	case "end", "shift+end":
		m.moveCursor(lineEnd(text, m.cursor), key == "shift+end")
	case "ctrl+a":
		m.anchor = 0
		m.cursor = len(text)
	case "b":
		m.applyFormat(m.selection(), richtext.Bold{})
	case "i":
		m.applyFormat(m.selection(), richtext.Italic{})
	case "u":
		m.applyFormat(m.selection(), richtext.Underline{})
	case "c":
		m.openColorPicker(m.selection(), pickTextColor)
		return m, nil
	case "h":
		m.openColorPicker(m.selection(), pickHighlight)
		return m, nil
	case "s":
		m.openFontSize(m.selection())
		return m, nil
	case "enter", "m":
		m.openFormatMenu(m.selection())
	}
	return m, nil
}

// applyFormat runs f over sel. An empty selection leaves the document alone.
func (m *appModel) applyFormat(sel richtext.Selection, f richtext.Format) {
	if !m.ctrl.Editor().Format(sel, f) {
		if sel.Normalize().Empty() {
			m.showMinibuffer("Select some text first.")
		}
		return
	}
	m.showMinibuffer(fmt.Sprintf("%s applied.", f.Name()))
}

func lineStart(text []rune, pos int) int {
	for pos > 0 && text[pos-1] != '\n' {
		pos--
	}
	return pos
}

func lineEnd(text []rune, pos int) int {
	for pos < len(text) && text[pos] != '\n' {
		pos++
	}
	return pos
}

// verticalMove returns the offset one line above (dir < 0) or below the
// cursor, keeping the column where the target line is long enough.
func verticalMove(text []rune, pos, dir int) int {
	start := lineStart(text, pos)
	col := pos - start
	var target int
	if dir < 0 {
		if start == 0 {
			return 0
		}
		target = lineStart(text, start-1)
	} else {
		end := lineEnd(text, pos)
		if end == len(text) {
			return len(text)
		}
		target = end + 1
	}
	if limit := lineEnd(text, target); target+col > limit {
		return limit
	}
	return target + col
}
