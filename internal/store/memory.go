package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"recipe-keeper/internal/model"
)

// Memory is an in-process Recipes implementation with the same query
// semantics as SQLite. It backs tests that should not touch the disk.
type Memory struct {
	mu      sync.RWMutex
	nextID  int64
	recipes []model.Recipe

	// Now is overridable in tests.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{}
}

var _ Recipes = (*Memory)(nil)
var _ Recipes = (*SQLite)(nil)

func (m *Memory) Init(context.Context) error { return nil }

func (m *Memory) Create(_ context.Context, title string) (int64, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.recipes = append(m.recipes, model.Recipe{
		ID:        m.nextID,
		Title:     title,
		CreatedAt: now.UTC(),
	})
	return m.nextID, nil
}

func (m *Memory) List(_ context.Context, q ListQuery) ([]model.Summary, error) {
	m.mu.RLock()
	rows := make([]model.Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		if q.Search != "" && !matchesLike(r.Title, q.Search) && !matchesLike(r.Tags, q.Search) {
			continue
		}
		rows = append(rows, r)
	}
	m.mu.RUnlock()

	if q.Search == "" {
		sortRecipes(rows, q.Sort)
	}

	out := make([]model.Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Summary{ID: r.ID, Title: r.Title, Tags: r.Tags})
	}
	return out, nil
}

// sortRecipes mirrors orderClause. Titles compare bytewise like SQLite's BINARY collation.
func sortRecipes(rows []model.Recipe, mode model.SortMode) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch mode {
		case model.SortNewestFirst:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		case model.SortOldestFirst:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		default:
			if a.Title != b.Title {
				return a.Title < b.Title
			}
			return a.ID < b.ID
		}
	})
}

func (m *Memory) Get(_ context.Context, id int64) (model.Body, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.recipes {
		if r.ID == id {
			return r.Body(), nil
		}
	}
	return model.Body{}, errNotFound(id)
}

func (m *Memory) Update(_ context.Context, id int64, body model.Body) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recipes {
		if m.recipes[i].ID != id {
			continue
		}
		m.recipes[i].Ingredients = body.Ingredients
		m.recipes[i].Instructions = body.Instructions
		m.recipes[i].Tags = body.Tags
		return nil
	}
	return nil
}

func (m *Memory) ExportAll(context.Context) ([]model.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Recipe, len(m.recipes))
	copy(out, m.recipes)
	return out, nil
}
