package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-keeper/internal/model"
	"recipe-keeper/internal/store"
)

func fixtures() []model.Recipe {
	return []model.Recipe{
		{ID: 1, Title: "Soup", Ingredients: "water, salt", Instructions: "<b>boil</b> the water", Tags: "dinner"},
		{ID: 2, Title: "Toast", Ingredients: "", Instructions: "", Tags: ""},
	}
}

func TestRender_Golden(t *testing.T) {
	t.Parallel()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export_two_recipes", Render(fixtures()))
}

func TestRender_EmptyStore(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Render(nil))
}

func TestWriteFile_WritesEveryRecipeAndOverwrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.Init(ctx))
	id, err := m.Create(ctx, "Soup")
	require.NoError(t, err)
	require.NoError(t, m.Update(ctx, id, model.Body{Ingredients: "water, salt", Instructions: "<b>boil</b> the water", Tags: "dinner"}))
	_, err = m.Create(ctx, "Toast")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "all.md")
	require.NoError(t, os.WriteFile(path, []byte("stale contents that are longer than nothing"), 0o644))
	require.NoError(t, WriteFile(ctx, m, path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(Render(fixtures())), string(got))
}

type explodingSource struct{ called bool }

func (s *explodingSource) ExportAll(context.Context) ([]model.Recipe, error) {
	s.called = true
	return nil, errors.New("boom")
}

func TestWriteFile_EmptyPathIsCancel(t *testing.T) {
	t.Parallel()
	src := &explodingSource{}
	require.NoError(t, WriteFile(context.Background(), src, "  "))
	assert.False(t, src.called)
}

func TestWriteFile_SourceErrorWritesNothing(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.txt")
	err := WriteFile(context.Background(), &explodingSource{}, path)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		ext  string
		ok   bool
		path string
	}{
		{in: "txt", ext: ".txt", ok: true, path: "recipes.txt"},
		{in: ".html", ext: ".html", ok: true, path: "recipes.html"},
		{in: "Markdown Files", ext: ".md", ok: true, path: "recipes.md"},
		{in: "pdf", ok: false, path: "recipes"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			f, ok := FormatFor(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ext, f.Ext)
			assert.Equal(t, tt.path, f.WithExt("recipes"))
			assert.Equal(t, "keep.txt", f.WithExt("keep.txt"))
		})
	}
}
