package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"recipe-keeper/internal/config"
	"recipe-keeper/internal/editor"
	"recipe-keeper/internal/listing"
	"recipe-keeper/internal/richtext"
	"recipe-keeper/internal/session"
)

type focusArea int

const (
	focusSearch focusArea = iota
	focusList
	focusInstructions
	focusIngredients
	focusTags
	focusCount
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNewRecipe
	modalFormatMenu
	modalColor
	modalFontSize
	modalExport
)

type appModel struct {
	ctx      context.Context
	ctrl     *session.Controller
	stateDir string

	dbChanges <-chan struct{}

	width  int
	height int

	focus focusArea

	search       textinput.Model
	list         list.Model
	instructions textarea.Model
	ingredients  textarea.Model
	tags         textinput.Model

	// instructionsSynced is the textarea text last pushed into the document.
	instructionsSynced string

	// Format mode swaps the instructions textarea for a rune cursor with a
	// selection; anchor is -1 when nothing is selected.
	formatMode bool
	cursor     int
	anchor     int

	showPreview bool

	modal     modalKind
	input     textinput.Model
	menuIndex int
	picker    picker
	// pendingSel is what a picker modal formats once confirmed.
	pendingSel   richtext.Selection
	exportFormat int

	minibufferText string
	minibufferErr  bool

	externalEditorPath   string
	externalEditorBefore string
}

func newAppModel(ctx context.Context, ctrl *session.Controller, stateDir string) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	m := appModel{
		ctx:         ctx,
		ctrl:        ctrl,
		stateDir:    stateDir,
		anchor:      -1,
		showPreview: true,
		width:       100,
		height:      30,
	}

	m.search = textinput.New()
	m.search.Prompt = "Search: "
	m.search.Placeholder = "title or tags"

	m.list = newRecipeList()

	m.instructions = newTextarea("Type the steps…")
	m.ingredients = newTextarea("One per line")

	m.tags = textinput.New()
	m.tags.Prompt = ""
	m.tags.Placeholder = "comma separated"

	m.input = textinput.New()

	m.rebuildList()
	m.setFocus(focusList)
	m.resize()
	return m
}

func newTextarea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	return ta
}

func (m appModel) Init() tea.Cmd {
	return waitForDBChange(m.dbChanges)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case dbChangedMsg:
		m.reloadList()
		return m, waitForDBChange(m.dbChanges)

	case externalEditorDoneMsg:
		m.applyExternalEditorResult(msg)
		return m, nil

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateKey(msg)
	}

	return m.updateFocused(msg)
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		m.saveUIState()
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "ctrl+s":
		m.save()
		return m, nil
	case "ctrl+n":
		m.openNewRecipe()
		return m, textinput.Blink
	case "ctrl+o":
		m.cycleSort()
		return m, nil
	case "ctrl+x":
		m.openExport()
		return m, textinput.Blink
	case "ctrl+y":
		m.copyRecipe()
		return m, nil
	case "ctrl+r":
		m.showPreview = !m.showPreview
		m.resize()
		return m, nil
	}

	if m.focus == focusInstructions {
		switch msg.String() {
		case "ctrl+f":
			m.setFormatMode(!m.formatMode)
			return m, nil
		case "ctrl+e":
			cmd, err := m.openExternalEditor()
			if err != nil {
				m.showError(err)
				return m, nil
			}
			return m, cmd
		}
		if m.formatMode {
			return m.updateFormatMode(msg)
		}
	}
	return m.updateFocused(msg)
}

// updateFocused routes msg to the focused widget and pushes any text change
// into the editor state.
func (m appModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	ed := m.ctrl.Editor()

	switch m.focus {
	case focusSearch:
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.applySearch()
		}

	case focusList:
		m.list, cmd = m.list.Update(msg)
		key, isKey := msg.(tea.KeyMsg)
		if !isKey {
			break
		}
		id, ok := selectedRecipeID(m.list)
		if !ok {
			break
		}
		if cur, loaded := ed.CurrentID(); !loaded || cur != id || key.String() == "enter" {
			m.load(id)
		}

	case focusInstructions:
		if m.formatMode {
			break
		}
		m.instructions, cmd = m.instructions.Update(msg)
		m.syncInstructions()

	case focusIngredients:
		m.ingredients, cmd = m.ingredients.Update(msg)
		ed.SetIngredients(m.ingredients.Value())

	case focusTags:
		m.tags, cmd = m.tags.Update(msg)
		ed.SetTags(m.tags.Value())
	}
	return m, cmd
}

func (m *appModel) setFocus(f focusArea) {
	if f != focusInstructions && m.formatMode {
		m.setFormatMode(false)
	}
	m.focus = f
	m.search.Blur()
	m.instructions.Blur()
	m.ingredients.Blur()
	m.tags.Blur()
	switch f {
	case focusSearch:
		m.search.Focus()
	case focusInstructions:
		if !m.formatMode {
			m.instructions.Focus()
		}
	case focusIngredients:
		m.ingredients.Focus()
	case focusTags:
		m.tags.Focus()
	}
}

func (m *appModel) syncInstructions() {
	v := m.instructions.Value()
	if v == m.instructionsSynced {
		return
	}
	m.ctrl.Editor().EditInstructions(v)
	m.instructionsSynced = v
}

// load opens id in the editor and copies its fields into the widgets.
func (m *appModel) load(id int64) {
	if err := m.ctrl.Select(m.ctx, id); err != nil {
		m.showError(err)
		return
	}
	m.fillEditorWidgets()
	m.clearMinibuffer()
}

func (m *appModel) fillEditorWidgets() {
	ed := m.ctrl.Editor()
	m.ingredients.SetValue(ed.Ingredients())
	m.instructions.SetValue(ed.Instructions().PlainText())
	m.instructionsSynced = m.instructions.Value()
	m.tags.SetValue(ed.Tags())
	m.tags.CursorEnd()
	m.cursor = 0
	m.anchor = -1
}

// rebuildList copies the controller's rows into the list widget, keeping the
// open recipe highlighted when it is still visible.
func (m *appModel) rebuildList() {
	entries := m.ctrl.Entries()
	m.list.SetItems(entryItems(entries))
	if id, ok := m.ctrl.Editor().CurrentID(); ok {
		if i := listing.IndexOf(entries, id); i >= 0 {
			m.list.Select(i)
		}
	}
}

func (m *appModel) reloadList() {
	if err := m.ctrl.Refresh(m.ctx); err != nil {
		m.showError(err)
		return
	}
	m.rebuildList()
}

func (m *appModel) applySearch() {
	if err := m.ctrl.SetSearch(m.ctx, m.search.Value()); err != nil {
		m.showError(err)
		return
	}
	m.rebuildList()
}

func (m *appModel) cycleSort() {
	if err := m.ctrl.CycleSort(m.ctx); err != nil {
		m.showError(err)
		return
	}
	m.rebuildList()
	msg := "Sort: " + m.ctrl.Projection().Sort.String()
	if m.ctrl.Projection().Searching() {
		msg += " (applies when the search is cleared)"
	}
	m.showMinibuffer(msg)
}

func (m *appModel) save() {
	m.syncInstructions()
	err := m.ctrl.Save(m.ctx)
	switch {
	case errors.Is(err, editor.ErrNothingSelected):
		m.showMinibuffer("No recipe selected to save!")
		return
	case err != nil:
		m.showError(err)
		return
	}
	m.rebuildList()
	m.showMinibuffer("Saved.")
}

func (m *appModel) copyRecipe() {
	m.syncInstructions()
	block, err := m.ctrl.ExportBlock(m.ctx)
	if err != nil {
		if errors.Is(err, editor.ErrNothingSelected) {
			m.showMinibuffer("No recipe selected to copy!")
			return
		}
		m.showError(err)
		return
	}
	tool, err := copyToClipboard(string(block))
	if err != nil {
		m.showError(fmt.Errorf("copy failed: %w", err))
		return
	}
	m.showMinibuffer(fmt.Sprintf("Copied recipe to clipboard (%s).", tool))
}

func (m *appModel) saveUIState() {
	st := &config.UIState{Sort: m.ctrl.Projection().Sort.String()}
	if id, ok := m.ctrl.Editor().CurrentID(); ok {
		st.SelectedID = id
	}
	if err := config.SaveUIState(m.stateDir, st); err != nil {
		slog.Warn("saving ui state failed", "err", err)
	}
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = strings.TrimSpace(text)
	m.minibufferErr = false
}

func (m *appModel) showError(err error) {
	slog.Error("tui", "err", err)
	m.minibufferText = err.Error()
	m.minibufferErr = true
}

func (m *appModel) clearMinibuffer() {
	m.minibufferText = ""
	m.minibufferErr = false
}
