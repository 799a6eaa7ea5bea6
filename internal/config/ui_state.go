package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const uiStateFileName = "ui_state.json"

// UIState remembers where the TUI was left. It is best effort: a missing or
// corrupt file loads as the zero state.
type UIState struct {
	Version int `json:"version"`

	// Sort is the display name of the last sort mode.
	Sort string `json:"sort,omitempty"`

	SelectedID int64 `json:"selectedId,omitempty"`
}

func uiStatePath(dir string) string {
	return filepath.Join(dir, uiStateFileName)
}

func LoadUIState(dir string) (*UIState, error) {
	if strings.TrimSpace(dir) == "" {
		return &UIState{Version: 1}, nil
	}
	b, err := os.ReadFile(uiStatePath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UIState{Version: 1}, nil
		}
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal(b, &st); err != nil {
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func SaveUIState(dir string, st *UIState) error {
	if st == nil || strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := uiStatePath(dir)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
