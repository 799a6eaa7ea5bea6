// Package export writes every recipe to a single plain-text file.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"recipe-keeper/internal/model"
)

// Source supplies recipes in store order.
type Source interface {
	ExportAll(ctx context.Context) ([]model.Recipe, error)
}

type Format struct {
	Name string
	Ext  string
}

// Formats are the choices offered in the save dialog. The file content is the
// same block format whichever one is picked.
var Formats = []Format{
	{Name: "Text Files", Ext: ".txt"},
	{Name: "HTML Files", Ext: ".html"},
	{Name: "Markdown Files", Ext: ".md"},
}

// FormatFor returns the entry matching s (by extension, with or without the
// dot, or by name). The zero Format means no match.
func FormatFor(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Formats {
		if s == f.Ext || "."+s == f.Ext || s == strings.ToLower(f.Name) {
			return f, true
		}
	}
	return Format{}, false
}

// WithExt appends f's extension to path when it has none.
func (f Format) WithExt(path string) string {
	if path == "" || filepath.Ext(path) != "" || f.Ext == "" {
		return path
	}
	return path + f.Ext
}

const separator = "----------------------------------------"

// Render writes one block per recipe. Instructions go out as stored markup.
func Render(recipes []model.Recipe) []byte {
	var b bytes.Buffer
	for _, r := range recipes {
		fmt.Fprintf(&b, "Title: %s\nIngredients: %s\nTags: %s\n\nInstructions:\n%s\n\n%s\n\n",
			r.Title, r.Ingredients, r.Tags, r.Instructions, separator)
	}
	return b.Bytes()
}

// WriteFile exports everything in src to path, replacing any existing file.
// An empty path is a cancelled dialog: nothing is read or written.
func WriteFile(ctx context.Context, src Source, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	recipes, err := src.ExportAll(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(path), Render(recipes), 0o644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	slog.InfoContext(ctx, "recipes exported", "path", path, "count", len(recipes))
	return nil
}
