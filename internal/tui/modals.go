package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"recipe-keeper/internal/export"
	"recipe-keeper/internal/richtext"
)

type pickerKind int

const (
	pickTextColor pickerKind = iota
	pickHighlight
)

// picker is the state of the color modal: a swatch cursor plus free-form input.
type picker struct {
	kind   pickerKind
	swatch int
}

type formatMenuEntry struct {
	label string
	key   string
}

var formatMenuEntries = []formatMenuEntry{
	{label: "Bold", key: "b"},
	{label: "Italic", key: "i"},
	{label: "Underline", key: "u"},
	{label: "Text Color…", key: "c"},
	{label: "Highlight Color…", key: "h"},
	{label: "Font Size…", key: "s"},
}

func (m *appModel) openModalInput(placeholder, value string) {
	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.input.Blur()
}

func (m *appModel) openNewRecipe() {
	m.modal = modalNewRecipe
	m.openModalInput("Recipe title", "")
}

func (m *appModel) openExport() {
	m.modal = modalExport
	m.openModalInput("path/to/recipes", "")
}

func (m *appModel) openFormatMenu(sel richtext.Selection) {
	m.modal = modalFormatMenu
	m.pendingSel = sel
	m.menuIndex = 0
}

func (m *appModel) openColorPicker(sel richtext.Selection, kind pickerKind) {
	m.modal = modalColor
	m.pendingSel = sel
	m.picker = picker{kind: kind}
	cur := m.ctrl.Editor().Instructions().AttrAt(sel.Normalize().Start)
	want := cur.Foreground
	if kind == pickHighlight {
		want = cur.Background
	}
	for i, c := range richtext.Palette {
		if c.Hex == want {
			m.picker.swatch = i
		}
	}
	m.openModalInput("name or #hex (empty takes the swatch)", "")
}

func (m *appModel) openFontSize(sel richtext.Selection) {
	m.modal = modalFontSize
	m.pendingSel = sel
	value := ""
	if n := m.ctrl.Editor().Instructions().AttrAt(sel.Normalize().Start).PointSize; n > 0 {
		value = strconv.Itoa(n)
	}
	m.openModalInput("points", value)
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.saveUIState()
		return m, tea.Quit
	}
	switch m.modal {
	case modalFormatMenu:
		return m.updateFormatMenu(msg)
	case modalNewRecipe:
		return m.updateNewRecipe(msg)
	case modalColor:
		return m.updateColorPicker(msg)
	case modalFontSize:
		return m.updateFontSize(msg)
	case modalExport:
		return m.updateExport(msg)
	}
	return m, nil
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateNewRecipe(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		m.showMinibuffer("Recipe creation cancelled.")
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		m.closeModal()
		if title == "" {
			return m, nil
		}
		if _, err := m.ctrl.Create(m.ctx, title); err != nil {
			m.showError(err)
			return m, nil
		}
		m.rebuildList()
		m.showMinibuffer(fmt.Sprintf("Created %q.", title))
		return m, nil
	}
	return m.updateInput(msg)
}

func (m appModel) updateFormatMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pick := -1
	switch msg.String() {
	case "esc", "q":
		m.closeModal()
		return m, nil
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(formatMenuEntries)-1 {
			m.menuIndex++
		}
	case "enter":
		pick = m.menuIndex
	default:
		for i, e := range formatMenuEntries {
			if msg.String() == e.key {
				pick = i
			}
		}
	}
	if pick < 0 {
		return m, nil
	}

	sel := m.pendingSel
	m.closeModal()
	switch formatMenuEntries[pick].key {
	case "b":
		m.applyFormat(sel, richtext.Bold{})
	case "i":
		m.applyFormat(sel, richtext.Italic{})
	case "u":
		m.applyFormat(sel, richtext.Underline{})
	case "c":
		m.openColorPicker(sel, pickTextColor)
	case "h":
		m.openColorPicker(sel, pickHighlight)
	case "s":
		m.openFontSize(sel)
	}
	return m, nil
}

func (m appModel) updateColorPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil
	case "tab":
		m.picker.swatch = (m.picker.swatch + 1) % len(richtext.Palette)
		return m, nil
	case "shift+tab":
		m.picker.swatch = (m.picker.swatch + len(richtext.Palette) - 1) % len(richtext.Palette)
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			value = richtext.Palette[m.picker.swatch].Hex
		}
		sel := m.pendingSel
		m.closeModal()

		var (
			f   richtext.Format
			err error
		)
		if m.picker.kind == pickHighlight {
			f, err = richtext.NewHighlightColor(value)
		} else {
			f, err = richtext.NewTextColor(value)
		}
		if err != nil {
			m.showError(err)
			return m, nil
		}
		m.applyFormat(sel, f)
		return m, nil
	}
	return m.updateInput(msg)
}

func (m appModel) updateFontSize(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil
	case "enter":
		sel := m.pendingSel
		raw := strings.TrimSpace(m.input.Value())
		m.closeModal()
		n, err := strconv.Atoi(raw)
		if err != nil {
			m.showError(fmt.Errorf("%w: %q", richtext.ErrInvalidSize, raw))
			return m, nil
		}
		f, err := richtext.NewFontSize(n)
		if err != nil {
			m.showError(err)
			return m, nil
		}
		m.applyFormat(sel, f)
		return m, nil
	}
	return m.updateInput(msg)
}

func (m appModel) updateExport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		m.showMinibuffer("Export cancelled.")
		return m, nil
	case "tab":
		m.exportFormat = (m.exportFormat + 1) % len(export.Formats)
		return m, nil
	case "shift+tab":
		m.exportFormat = (m.exportFormat + len(export.Formats) - 1) % len(export.Formats)
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.input.Value())
		m.closeModal()
		if path == "" {
			m.showMinibuffer("Export cancelled.")
			return m, nil
		}
		path = export.Formats[m.exportFormat].WithExt(path)
		if err := m.ctrl.Export(m.ctx, path); err != nil {
			m.showError(err)
			return m, nil
		}
		m.showMinibuffer("Exported to " + path)
		return m, nil
	}
	return m.updateInput(msg)
}

// modalView renders the open modal's box, or "" when none is open.
func (m appModel) modalView() string {
	width := 48
	if m.width-4 < width {
		width = m.width - 4
	}
	if width < 20 {
		width = 20
	}
	inputW := width - 4
	hint := styleMuted()

	var title string
	var lines []string
	switch m.modal {
	case modalNewRecipe:
		title = "New Recipe"
		lines = append(lines, "Enter the recipe title:", renderInputLine(inputW, m.input.View()), "",
			hint.Render("enter create · esc cancel"))

	case modalFormatMenu:
		title = "Format"
		for i, e := range formatMenuEntries {
			ln := fmt.Sprintf("  %s  %s", e.key, e.label)
			if i == m.menuIndex {
				ln = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true).
					Render(fmt.Sprintf("> %s  %s", e.key, e.label))
			}
			lines = append(lines, ln)
		}
		lines = append(lines, "", hint.Render("↑/↓ move · enter apply · esc close"))

	case modalColor:
		title = "Text Color"
		if m.picker.kind == pickHighlight {
			title = "Highlight Color"
		}
		lines = append(lines, swatchRow(m.picker.swatch), richtext.Palette[m.picker.swatch].Name,
			renderInputLine(inputW, m.input.View()), "",
			hint.Render("tab swatch · enter apply · esc cancel"))

	case modalFontSize:
		title = "Font Size"
		lines = append(lines, fmt.Sprintf("Points (1-%d):", richtext.MaxPointSize),
			renderInputLine(inputW, m.input.View()), "",
			hint.Render("enter apply · esc cancel"))

	case modalExport:
		title = "Export Recipes"
		var formats []string
		for i, f := range export.Formats {
			label := fmt.Sprintf("%s (*%s)", f.Name, f.Ext)
			if i == m.exportFormat {
				label = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("[" + label + "]")
			}
			formats = append(formats, label)
		}
		lines = append(lines, "Save to:", renderInputLine(inputW, m.input.View()), "",
			strings.Join(formats, "  "), "",
			hint.Render("tab format · enter export · esc cancel"))

	default:
		return ""
	}

	body := styleHeading().Render(title) + "\n\n" + strings.Join(lines, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorFocusedBorder).
		Padding(0, 1).
		Width(width).
		Render(body)
}

func swatchRow(selected int) string {
	var b strings.Builder
	for i, c := range richtext.Palette {
		cell := "  "
		if i == selected {
			cell = "▏▕"
		}
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c.Hex)).Foreground(colorAccent).Render(cell))
	}
	return b.String()
}
