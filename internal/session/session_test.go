package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-keeper/internal/editor"
	"recipe-keeper/internal/listing"
	"recipe-keeper/internal/model"
	"recipe-keeper/internal/richtext"
	"recipe-keeper/internal/store"
)

func newController(t *testing.T, sort model.SortMode) *Controller {
	t.Helper()
	m := store.NewMemory()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	n := 0
	m.Now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	c := New(m, sort)
	require.NoError(t, c.Open(context.Background()))
	return c
}

func labels(entries []listing.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Label())
	}
	return out
}

func TestController_CreateRefreshesWithoutSelecting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t, model.SortAlphabetical)
	assert.Empty(t, c.Entries())

	_, err := c.Create(ctx, "  Soup  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Soup ()"}, labels(c.Entries()))
	_, ok := c.Editor().CurrentID()
	assert.False(t, ok)

	_, err = c.Create(ctx, "   ")
	require.True(t, store.IsValidation(err))
	assert.Len(t, c.Entries(), 1)
}

func TestController_SaveWithoutSelection(t *testing.T) {
	t.Parallel()
	c := newController(t, model.SortAlphabetical)
	err := c.Save(context.Background())
	require.ErrorIs(t, err, editor.ErrNothingSelected)
}

func TestController_SoupScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t, model.SortAlphabetical)
	id, err := c.Create(ctx, "Soup")
	require.NoError(t, err)

	require.NoError(t, c.Select(ctx, c.Entries()[0].ID))
	ed := c.Editor()
	ed.SetIngredients("water, salt")
	ed.SetTags("dinner")
	ed.EditInstructions("boil the water")
	require.True(t, ed.Format(richtext.Selection{Start: 0, End: 4}, richtext.Bold{}))
	require.NoError(t, c.Save(ctx))

	assert.Equal(t, []string{"Soup (dinner)"}, labels(c.Entries()))
	body, err := c.Store().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "<b>boil</b> the water", body.Instructions)

	block, err := c.ExportBlock(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(block), "Title: Soup\nIngredients: water, salt\nTags: dinner\n"))
}

func TestController_ExportBlockWhileSearchHidesRecipe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t, model.SortAlphabetical)
	id, err := c.Create(ctx, "Soup")
	require.NoError(t, err)
	_, err = c.Create(ctx, "Toast")
	require.NoError(t, err)
	require.NoError(t, c.Select(ctx, id))

	require.NoError(t, c.SetSearch(ctx, "toast"))
	require.Equal(t, []string{"Toast ()"}, labels(c.Entries()))

	block, err := c.ExportBlock(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(block), "Title: Soup\n"), string(block))
}

func TestController_SortAndSearch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t, model.SortNewestFirst)
	for _, title := range []string{"Chocolate Cake", "Pie", "Pancakes"} {
		_, err := c.Create(ctx, title)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"Pancakes ()", "Pie ()", "Chocolate Cake ()"}, labels(c.Entries()))

	require.NoError(t, c.SetSearch(ctx, "cake"))
	assert.Equal(t, []string{"Chocolate Cake ()", "Pancakes ()"}, labels(c.Entries()))

	// Changing sort during a search keeps search order.
	require.NoError(t, c.CycleSort(ctx))
	assert.Equal(t, model.SortOldestFirst, c.Projection().Sort)
	assert.Equal(t, []string{"Chocolate Cake ()", "Pancakes ()"}, labels(c.Entries()))

	require.NoError(t, c.SetSearch(ctx, ""))
	assert.Equal(t, []string{"Chocolate Cake ()", "Pie ()", "Pancakes ()"}, labels(c.Entries()))

	require.NoError(t, c.CycleSort(ctx))
	assert.Equal(t, model.SortAlphabetical, c.Projection().Sort)
	assert.Equal(t, []string{"Chocolate Cake ()", "Pancakes ()", "Pie ()"}, labels(c.Entries()))

	require.Error(t, c.SetSort(ctx, model.SortMode(9)))
}

func TestController_SelectUnknownKeepsEditor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t, model.SortAlphabetical)
	id, err := c.Create(ctx, "Stew")
	require.NoError(t, err)
	require.NoError(t, c.Select(ctx, id))

	err = c.Select(ctx, 999)
	require.ErrorIs(t, err, store.ErrNotFound)
	got, ok := c.Editor().CurrentID()
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestController_ExportCancelAndWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t, model.SortAlphabetical)
	_, err := c.Create(ctx, "Soup")
	require.NoError(t, err)

	require.NoError(t, c.Export(ctx, ""))

	path := filepath.Join(t.TempDir(), "recipes.html")
	require.NoError(t, c.Export(ctx, path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Title: Soup\n")
}
