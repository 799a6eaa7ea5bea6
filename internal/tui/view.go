package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"recipe-keeper/internal/richtext"
)

const (
	tagsPaneHeight = 4
	chromeLines    = 2 // help + minibuffer
)

type rightPanes struct {
	instructions int
	preview      int
	ingredients  int
}

func (m appModel) rightPaneHeights() rightPanes {
	rest := m.height - chromeLines - tagsPaneHeight
	if rest < 9 {
		rest = 9
	}
	if m.showPreview {
		p := rightPanes{instructions: rest * 4 / 10, preview: rest * 3 / 10}
		p.ingredients = rest - p.instructions - p.preview
		return p
	}
	p := rightPanes{instructions: rest * 6 / 10}
	p.ingredients = rest - p.instructions
	return p
}

// innerSize is the body area of a titled pane of w x h outer cells.
func innerSize(w, h int) (int, int) {
	st := stylePane(false)
	return w - st.GetHorizontalFrameSize(), h - st.GetVerticalFrameSize() - 1
}

func (m *appModel) resize() {
	leftW, rightW := splitWidths(m.width)
	bodyH := m.height - chromeLines

	listW, listH := innerSize(leftW, bodyH)
	m.list.SetSize(max(listW, 1), max(listH-3, 1))
	m.search.Width = max(listW-len(m.search.Prompt)-3, 1)

	panes := m.rightPaneHeights()
	w, h := innerSize(rightW, panes.instructions)
	m.instructions.SetWidth(max(w, 1))
	m.instructions.SetHeight(max(h, 1))
	w, h = innerSize(rightW, panes.ingredients)
	m.ingredients.SetWidth(max(w, 1))
	m.ingredients.SetHeight(max(h, 1))
	w, _ = innerSize(rightW, tagsPaneHeight)
	m.tags.Width = max(w-3, 1)
}

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.modal != modalNone {
		return centerOverlay(m.modalView(), m.width, m.height)
	}

	leftW, rightW := splitWidths(m.width)
	bodyH := m.height - chromeLines
	listW, _ := innerSize(leftW, bodyH)

	sortLine := styleMuted().Render("Sort: " + m.ctrl.Projection().Sort.String() + " (ctrl+o)")
	left := boxed("Recipes", strings.Join([]string{
		renderInputLine(listW, m.search.View()),
		sortLine,
		"",
		m.list.View(),
	}, "\n"), leftW, bodyH, m.focus == focusSearch || m.focus == focusList)

	body := left
	if rightW > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, m.rightView(rightW))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		normalizePane(body, m.width, bodyH),
		normalizePane(m.helpLine(), m.width, 1),
		normalizePane(m.minibufferLine(), m.width, 1),
	)
}

func (m appModel) rightView(w int) string {
	panes := m.rightPaneHeights()
	doc := m.ctrl.Editor().Instructions()

	title := "Instructions"
	var body string
	if m.formatMode {
		title += " · format"
		iw, ih := innerSize(w, panes.instructions)
		body = renderDocument(doc, m.selection(), m.cursor, iw, ih)
		if status := attrSummary(doc.AttrAt(m.cursor)); status != "" {
			title += " · " + status
		}
	} else {
		body = m.instructions.View()
	}
	out := []string{boxed(title, body, w, panes.instructions, m.focus == focusInstructions)}

	if m.showPreview {
		pw, _ := innerSize(w, panes.preview)
		out = append(out, boxed("Preview", renderMarkdown(doc.Markdown(), pw), w, panes.preview, false))
	}

	tw, _ := innerSize(w, tagsPaneHeight)
	out = append(out,
		boxed("Ingredients", m.ingredients.View(), w, panes.ingredients, m.focus == focusIngredients),
		boxed("Tags", renderInputLine(tw, m.tags.View()), w, tagsPaneHeight, m.focus == focusTags),
	)
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (m appModel) helpLine() string {
	if m.formatMode {
		return styleMuted().Render("shift+←/→ select · ctrl+a all · b/i/u · c color · h highlight · s size · enter menu · esc done")
	}
	return styleMuted().Render("tab focus · ctrl+s save · ctrl+n new · ctrl+o sort · ctrl+f format · ctrl+e editor · ctrl+x export · ctrl+y copy · ctrl+r preview · ctrl+q quit")
}

func (m appModel) minibufferLine() string {
	if m.minibufferText == "" {
		return ""
	}
	if m.minibufferErr {
		return lipgloss.NewStyle().Foreground(colorErrorFg).Render(m.minibufferText)
	}
	return m.minibufferText
}

func attrSummary(a richtext.Attr) string {
	var parts []string
	if a.Bold {
		parts = append(parts, "B")
	}
	if a.Italic {
		parts = append(parts, "I")
	}
	if a.Underline {
		parts = append(parts, "U")
	}
	if a.Foreground != "" {
		parts = append(parts, a.Foreground)
	}
	if a.Background != "" {
		parts = append(parts, "on "+a.Background)
	}
	if a.PointSize > 0 {
		parts = append(parts, strconv.Itoa(a.PointSize)+"pt")
	}
	return strings.Join(parts, " ")
}

func runStyle(a richtext.Attr) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(a.Bold).Italic(a.Italic).Underline(a.Underline)
	if a.Foreground != "" {
		st = st.Foreground(lipgloss.Color(a.Foreground))
	}
	if a.Background != "" {
		st = st.Background(lipgloss.Color(a.Background))
	}
	return st
}

type styledCell struct {
	text  string
	style lipgloss.Style
}

// renderDocument draws the document with its character formats, the
// selection in reverse video and the cursor as an accent cell. Lines wrap
// at width and scroll to keep the cursor inside height.
func renderDocument(doc *richtext.Document, sel richtext.Selection, cursor, width, height int) string {
	if width < 1 {
		width = 1
	}
	sel = sel.Normalize()
	cursorStyle := lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg)

	var (
		lines      [][]styledCell
		line       []styledCell
		lineW      int
		cursorLine int
	)
	flush := func() {
		lines = append(lines, line)
		line = nil
		lineW = 0
	}
	put := func(text string, st lipgloss.Style, w int) {
		if lineW+w > width && lineW > 0 {
			flush()
		}
		line = append(line, styledCell{text: text, style: st})
		lineW += w
	}

	pos := 0
	for _, r := range doc.Runs() {
		base := runStyle(r.Attr)
		for _, ch := range r.Text {
			st := base
			switch {
			case pos == cursor:
				st = cursorStyle
			case pos >= sel.Start && pos < sel.End:
				st = base.Reverse(true)
			}
			if pos == cursor {
				cursorLine = len(lines)
			}
			if ch == '\n' {
				if pos == cursor {
					put(" ", st, 1)
				}
				flush()
			} else {
				s := string(ch)
				put(s, st, xansi.StringWidth(s))
			}
			pos++
		}
	}
	if cursor >= pos {
		put(" ", cursorStyle, 1)
		cursorLine = len(lines)
	}
	flush()

	start := 0
	if height > 0 && cursorLine >= height {
		start = cursorLine - height + 1
	}
	end := len(lines)
	if height > 0 && start+height < end {
		end = start + height
	}

	out := make([]string, 0, end-start)
	for _, cells := range lines[start:end] {
		out = append(out, renderCells(cells))
	}
	return strings.Join(out, "\n")
}

func renderCells(cells []styledCell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.style.Render(c.text))
	}
	return b.String()
}
