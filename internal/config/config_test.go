package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-keeper/internal/model"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, Config{
		Dir:      dir,
		DB:       DefaultDB,
		Sort:     model.SortAlphabetical,
		LogLevel: slog.LevelInfo,
		LogFile:  filepath.Join(dir, "recipekeeper.log"),
	}, cfg)
}

func TestLoad_FileEnvAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	yaml := "db: /srv/recipes.db\nsort: Newest First\nlog:\n  level: warn\n  file: /tmp/rk.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0o644))

	cfg, err := Load(dir, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "/srv/recipes.db", cfg.DB)
	assert.Equal(t, model.SortNewestFirst, cfg.Sort)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "/tmp/rk.log", cfg.LogFile)

	t.Setenv("RECIPEKEEPER_SORT", "oldest")
	t.Setenv("RECIPEKEEPER_LOG_LEVEL", "error")
	cfg, err = Load(dir, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, model.SortOldestFirst, cfg.Sort)
	assert.Equal(t, slog.LevelError, cfg.LogLevel)

	cfg, err = Load(dir, Overrides{DB: "flag.db", LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "flag.db", cfg.DB)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("sort: sideways\n"), 0o644))
	_, err := Load(dir, Overrides{})
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("log:\n  level: loud\n"), 0o644))
	_, err = Load(dir, Overrides{})
	require.Error(t, err)
}

func TestDefaultDir_UsesEnv(t *testing.T) {
	t.Setenv(DirEnv, "/opt/rk")
	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, "/opt/rk", dir)
}

func TestUIState_RoundTripAndCorruption(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "nested")

	st, err := LoadUIState(dir)
	require.NoError(t, err)
	assert.Equal(t, &UIState{Version: 1}, st)

	require.NoError(t, SaveUIState(dir, &UIState{Sort: "Oldest First", SelectedID: 4}))
	st, err = LoadUIState(dir)
	require.NoError(t, err)
	assert.Equal(t, &UIState{Version: 1, Sort: "Oldest First", SelectedID: 4}, st)

	require.NoError(t, os.WriteFile(filepath.Join(dir, uiStateFileName), []byte("{not json"), 0o644))
	st, err = LoadUIState(dir)
	require.NoError(t, err)
	assert.Equal(t, &UIState{Version: 1}, st)

	require.NoError(t, SaveUIState("", &UIState{}))
}
