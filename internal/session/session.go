// Package session ties the list, the detail editor and the store together.
// Both the TUI and the CLI drive recipes through a Controller.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"recipe-keeper/internal/editor"
	"recipe-keeper/internal/export"
	"recipe-keeper/internal/listing"
	"recipe-keeper/internal/model"
	"recipe-keeper/internal/store"
)

type Controller struct {
	store   store.Recipes
	view    listing.Projection
	editor  *editor.State
	entries []listing.Entry
}

func New(st store.Recipes, sort model.SortMode) *Controller {
	return &Controller{
		store:  st,
		view:   listing.Projection{Sort: sort},
		editor: editor.New(),
	}
}

// Open ensures the schema and loads the first list.
func (c *Controller) Open(ctx context.Context) error {
	if err := c.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	return c.Refresh(ctx)
}

func (c *Controller) Store() store.Recipes          { return c.store }
func (c *Controller) Editor() *editor.State         { return c.editor }
func (c *Controller) Projection() listing.Projection { return c.view }

// Entries returns the rows from the last refresh.
func (c *Controller) Entries() []listing.Entry {
	out := make([]listing.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Controller) Refresh(ctx context.Context) error {
	entries, err := c.view.Refresh(ctx, c.store)
	if err != nil {
		return err
	}
	c.entries = entries
	return nil
}

func (c *Controller) SetSearch(ctx context.Context, text string) error {
	c.view.Search = text
	return c.Refresh(ctx)
}

func (c *Controller) SetSort(ctx context.Context, mode model.SortMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown sort mode %d", int(mode))
	}
	c.view.Sort = mode
	return c.Refresh(ctx)
}

func (c *Controller) CycleSort(ctx context.Context) error {
	return c.SetSort(ctx, c.view.Sort.Next())
}

// Select opens id in the editor, discarding unsaved edits.
func (c *Controller) Select(ctx context.Context, id int64) error {
	if err := c.editor.LoadFrom(ctx, c.store, id); err != nil {
		return err
	}
	slog.DebugContext(ctx, "recipe selected", "id", id)
	return nil
}

// Save writes the open recipe and refreshes the list so tag changes show up.
// With nothing open it returns editor.ErrNothingSelected.
func (c *Controller) Save(ctx context.Context) error {
	if err := c.editor.Save(ctx, c.store); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Create adds a recipe with empty fields and refreshes the list. The new
// recipe is not opened.
func (c *Controller) Create(ctx context.Context, title string) (int64, error) {
	id, err := c.store.Create(ctx, title)
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "recipe created", "id", id)
	return id, c.Refresh(ctx)
}

// Export writes every recipe to path. An empty path means the user backed
// out and nothing is written.
func (c *Controller) Export(ctx context.Context, path string) error {
	return export.WriteFile(ctx, c.store, path)
}

// ExportBlock renders the open recipe the way Export would write it. The
// recipe may be hidden by the current search.
func (c *Controller) ExportBlock(ctx context.Context) ([]byte, error) {
	id, ok := c.editor.CurrentID()
	if !ok {
		return nil, editor.ErrNothingSelected
	}
	title, err := c.titleOf(ctx, id)
	if err != nil {
		return nil, err
	}
	b := c.editor.Body()
	return export.Render([]model.Recipe{{
		ID:           id,
		Title:        title,
		Ingredients:  b.Ingredients,
		Instructions: b.Instructions,
		Tags:         b.Tags,
	}}), nil
}

// titleOf finds id among the visible rows, then in the unfiltered list.
func (c *Controller) titleOf(ctx context.Context, id int64) (string, error) {
	if i := listing.IndexOf(c.entries, id); i >= 0 {
		return c.entries[i].Title, nil
	}
	all, err := c.store.List(ctx, store.ListQuery{})
	if err != nil {
		return "", fmt.Errorf("look up recipe %d: %w", id, err)
	}
	for _, r := range all {
		if r.ID == id {
			return r.Title, nil
		}
	}
	return "", fmt.Errorf("recipe %d: %w", id, store.ErrNotFound)
}
