// Package listing turns the search box and sort selector into the rows of
// the recipe list.
package listing

import (
	"context"
	"fmt"

	"recipe-keeper/internal/model"
	"recipe-keeper/internal/store"
)

// Lister is the slice of the store the list needs.
type Lister interface {
	List(ctx context.Context, q store.ListQuery) ([]model.Summary, error)
}

// Projection is the current list view. Sort is remembered while a search is
// active so clearing the search brings the previous ordering back.
type Projection struct {
	Search string
	Sort   model.SortMode
}

func (p Projection) Query() store.ListQuery {
	if p.Search != "" {
		// Any non-empty text filters, whitespace included; results come back
		// in insertion order.
		return store.ListQuery{Search: p.Search}
	}
	return store.ListQuery{Sort: p.Sort}
}

func (p Projection) Searching() bool {
	return p.Search != ""
}

// Entry is one visible row. The id travels alongside the label and is never
// recovered from it.
type Entry struct {
	ID    int64
	Title string
	Tags  string
}

func (e Entry) Label() string {
	return fmt.Sprintf("%s (%s)", e.Title, e.Tags)
}

// Refresh runs the projection against the store.
func (p Projection) Refresh(ctx context.Context, lister Lister) ([]Entry, error) {
	rows, err := lister.List(ctx, p.Query())
	if err != nil {
		return nil, fmt.Errorf("refresh list: %w", err)
	}
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, Entry{ID: r.ID, Title: r.Title, Tags: r.Tags})
	}
	return out, nil
}

// IndexOf returns the row position of id, or -1.
func IndexOf(entries []Entry, id int64) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
