package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"recipe-keeper/internal/listing"
)

// recipeItem is a list row. The recipe id rides along with the label.
type recipeItem struct {
	entry listing.Entry
}

func (i recipeItem) Title() string       { return i.entry.Label() }
func (i recipeItem) Description() string { return "" }
func (i recipeItem) FilterValue() string { return i.entry.Label() }

type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d compactItemDelegate) Height() int                             { return 1 }
func (d compactItemDelegate) Spacing() int                            { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}

	line := strings.ReplaceAll(txt, "\n", " ")
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW-1) + "…"
	}

	fmt.Fprint(w, style.Render(line))
}

func newRecipeList() list.Model {
	l := list.New([]list.Item{}, newCompactItemDelegate(), 0, 0)
	l.Title = "Recipes"
	// The search box above the list does the filtering, so list chrome stays minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("recipe", "recipes")
	l.DisableQuitKeybindings()
	// "<" and ">" as extra jump keys for keyboards without home/end.
	l.KeyMap.GoToStart.SetKeys(append(append([]string{}, l.KeyMap.GoToStart.Keys()...), "<")...)
	l.KeyMap.GoToEnd.SetKeys(append(append([]string{}, l.KeyMap.GoToEnd.Keys()...), ">")...)
	return l
}

func entryItems(entries []listing.Entry) []list.Item {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, recipeItem{entry: e})
	}
	return items
}

func selectedRecipeID(l list.Model) (int64, bool) {
	it, ok := l.SelectedItem().(recipeItem)
	if !ok {
		return 0, false
	}
	return it.entry.ID, true
}
