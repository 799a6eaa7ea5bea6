package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-keeper/internal/model"
)

// Recipes is the persistence boundary for recipes. Instructions are stored as
// opaque markup; only the richtext package looks inside them.
type Recipes interface {
	// Init ensures the schema exists. Safe to call on every startup.
	Init(ctx context.Context) error
	Create(ctx context.Context, title string) (int64, error)
	List(ctx context.Context, q ListQuery) ([]model.Summary, error)
	Get(ctx context.Context, id int64) (model.Body, error)
	// Update overwrites ingredients, instructions and tags. Unknown ids are a silent no-op.
	Update(ctx context.Context, id int64, body model.Body) error
	ExportAll(ctx context.Context) ([]model.Recipe, error)
}

// ListQuery selects recipe summaries. A non-empty Search matches title or
// tags and ignores Sort entirely.
type ListQuery struct {
	Search string
	Sort   model.SortMode
}

var ErrNotFound = errors.New("recipe not found")

type notFoundError struct {
	id int64
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("recipe not found: %d", e.id)
}

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

func errNotFound(id int64) error {
	return notFoundError{id: id}
}

// ValidationError reports input rejected before touching the database.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Msg: "must not be empty"}
	}
	return title, nil
}

// matchesLike reports whether s contains needle the way SQLite's default LIKE
// does for '%needle%': ASCII letters compare case-insensitively, everything
// else byte for byte.
func matchesLike(s, needle string) bool {
	return strings.Contains(asciiLower(s), asciiLower(needle))
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
