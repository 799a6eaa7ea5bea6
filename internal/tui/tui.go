package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"recipe-keeper/internal/config"
	"recipe-keeper/internal/listing"
	"recipe-keeper/internal/model"
	"recipe-keeper/internal/session"
)

type Options struct {
	Controller *session.Controller

	// DBPath is watched so writes from other processes show up in the list.
	DBPath string

	// StateDir holds ui_state.json. Empty disables state persistence.
	StateDir string
}

func Run(ctx context.Context, opts Options) error {
	if opts.Controller == nil {
		return errors.New("tui: no session")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(ctx, opts.Controller, opts.StateDir)
	m.restoreUIState()

	if opts.DBPath != "" {
		changes, stop, err := watchDB(opts.DBPath)
		if err != nil {
			slog.Warn("database watch disabled", "err", err)
		} else {
			defer stop()
			m.dbChanges = changes
		}
	}

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// restoreUIState reapplies the sort and open recipe from the last run.
func (m *appModel) restoreUIState() {
	st, err := config.LoadUIState(m.stateDir)
	if err != nil {
		slog.Warn("loading ui state failed", "err", err)
		return
	}
	// No saved sort on a first run; the configured one stays.
	if saved := strings.TrimSpace(st.Sort); saved != "" {
		if mode, err := model.ParseSortMode(saved); err == nil && mode != m.ctrl.Projection().Sort {
			if err := m.ctrl.SetSort(m.ctx, mode); err != nil {
				m.showError(err)
				return
			}
			m.rebuildList()
		}
	}
	if st.SelectedID > 0 && listing.IndexOf(m.ctrl.Entries(), st.SelectedID) >= 0 {
		m.load(st.SelectedID)
		m.rebuildList()
	}
}
