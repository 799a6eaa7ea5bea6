package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"recipe-keeper/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_InitIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewSQLite(filepath.Join(t.TempDir(), "nested", "dir", "recipes.db"))

	require.NoError(t, s.Init(ctx))
	id, err := s.Create(ctx, "Kept")
	require.NoError(t, err)
	require.NoError(t, s.Init(ctx))

	got, err := s.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
}

func TestSQLite_ReadsLegacyRowsWithNullColumns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recipes.db")
	s := NewSQLite(path)
	require.NoError(t, s.Init(ctx))

	// Rows written by the earliest versions had NULL bodies and second-resolution timestamps.
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO recipes (title, created_at) VALUES ('Legacy', '2020-05-01 10:00:00')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s.Now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	_, err = s.Create(ctx, "Modern")
	require.NoError(t, err)

	got, err := s.List(ctx, ListQuery{Sort: model.SortOldestFirst})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.Summary{ID: got[0].ID, Title: "Legacy", Tags: ""}, got[0])
	assert.Equal(t, "Modern", got[1].Title)

	body, err := s.Get(ctx, got[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.Body{}, body)

	all, err := s.ExportAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC), all[0].CreatedAt)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), all[1].CreatedAt)
}

func TestSQLite_OpenFailurePropagates(t *testing.T) {
	// Not parallel: swaps the package-level opener.
	old := openDB
	t.Cleanup(func() { openDB = old })
	boom := errors.New("disk on fire")
	openDB = func(string, string) (*sql.DB, error) { return nil, boom }

	s := NewSQLite(filepath.Join(t.TempDir(), "recipes.db"))
	ctx := context.Background()

	_, err := s.Create(ctx, "Soup")
	assert.ErrorIs(t, err, boom)
	_, err = s.Get(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.ErrorIs(t, s.Update(ctx, 1, model.Body{}), boom)
}

func TestSQLite_MissingPath(t *testing.T) {
	t.Parallel()
	err := (&SQLite{}).Init(context.Background())
	require.Error(t, err)
}

func TestSQLite_OperationsWithoutInitFail(t *testing.T) {
	t.Parallel()
	s := NewSQLite(filepath.Join(t.TempDir(), "recipes.db"))
	_, err := s.List(context.Background(), ListQuery{})
	require.Error(t, err)
}
