package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane clips or pads s to exactly width x height cells so panes can
// be joined side by side without ragged edges.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			switch {
			case width <= 0:
				ln = ""
			case width == 1:
				ln = xansi.Cut(ln, 0, 1)
			default:
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// splitWidths divides the screen between the list and the editor.
func splitWidths(total int) (left, right int) {
	if total < 20 {
		return total, 0
	}
	left = total / 3
	if left < 24 {
		left = 24
	}
	if left > 48 {
		left = 48
	}
	return left, total - left
}

// boxed renders body inside a pane border sized to w x h outer cells.
func boxed(title, body string, w, h int, focused bool) string {
	st := stylePane(focused)
	innerW := w - st.GetHorizontalFrameSize()
	innerH := h - st.GetVerticalFrameSize()
	if innerW < 1 || innerH < 1 {
		return ""
	}
	content := body
	if title != "" {
		content = styleHeading().Render(title) + "\n" + body
	}
	return st.Render(normalizePane(content, innerW, innerH))
}

func centerOverlay(box string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}
