package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recipe-keeper/internal/model"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// createdAtLayout shares its prefix with SQLite's CURRENT_TIMESTAMP so rows
// written by older versions still sort correctly as text.
const createdAtLayout = "2006-01-02 15:04:05.000000"

// SQLite is the on-disk recipe store. Every call opens its own connection and
// closes it before returning; nothing is held open between calls.
type SQLite struct {
	Path string

	// Now is overridable in tests.
	Now func() time.Time
}

func NewSQLite(path string) *SQLite {
	return &SQLite{Path: path}
}

func (s *SQLite) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SQLite) openSQLite(ctx context.Context) (*sql.DB, error) {
	path := strings.TrimSpace(s.Path)
	if path == "" {
		return nil, errors.New("missing database path")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
	}
	return db, nil
}

func (s *SQLite) Init(ctx context.Context) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// color is unused but kept so databases created by earlier versions keep working.
	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS recipes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		ingredients TEXT,
		instructions TEXT,
		tags TEXT DEFAULT NULL,
		color TEXT DEFAULT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	slog.DebugContext(ctx, "schema ready", "path", s.Path)
	return nil
}

func (s *SQLite) Create(ctx context.Context, title string) (int64, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return 0, err
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	createdAt := s.now().UTC().Format(createdAtLayout)
	res, err := db.ExecContext(ctx,
		`INSERT INTO recipes (title, ingredients, instructions, tags, created_at) VALUES (?, ?, ?, ?, ?)`,
		title, "", "", "", createdAt)
	if err != nil {
		return 0, fmt.Errorf("create recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create recipe: %w", err)
	}
	slog.DebugContext(ctx, "recipe created", "id", id, "title", title)
	return id, nil
}

func (s *SQLite) List(ctx context.Context, q ListQuery) ([]model.Summary, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := `SELECT id, title, COALESCE(tags, '') FROM recipes`
	var args []any
	if q.Search != "" {
		pattern := "%" + escapeLike(q.Search) + "%"
		query += ` WHERE title LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\' ORDER BY id ASC`
		args = append(args, pattern, pattern)
	} else {
		query += ` ORDER BY ` + orderClause(q.Sort)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	out := []model.Summary{}
	for rows.Next() {
		var r model.Summary
		if err := rows.Scan(&r.ID, &r.Title, &r.Tags); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func orderClause(mode model.SortMode) string {
	switch mode {
	case model.SortNewestFirst:
		return `created_at DESC, id DESC`
	case model.SortOldestFirst:
		return `created_at ASC, id ASC`
	default:
		return `title ASC, id ASC`
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (s *SQLite) Get(ctx context.Context, id int64) (model.Body, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Body{}, err
	}
	defer db.Close()

	var b model.Body
	err = db.QueryRowContext(ctx,
		`SELECT COALESCE(ingredients, ''), COALESCE(instructions, ''), COALESCE(tags, '') FROM recipes WHERE id = ?`,
		id).Scan(&b.Ingredients, &b.Instructions, &b.Tags)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Body{}, errNotFound(id)
	}
	if err != nil {
		return model.Body{}, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return b, nil
}

func (s *SQLite) Update(ctx context.Context, id int64, body model.Body) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx,
		`UPDATE recipes SET ingredients = ?, instructions = ?, tags = ? WHERE id = ?`,
		body.Ingredients, body.Instructions, body.Tags, id)
	if err != nil {
		return fmt.Errorf("update recipe %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.DebugContext(ctx, "update matched no recipe", "id", id)
	}
	return nil
}

func (s *SQLite) ExportAll(ctx context.Context) ([]model.Recipe, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, title,
		COALESCE(ingredients, ''), COALESCE(instructions, ''), COALESCE(tags, ''),
		created_at
		FROM recipes ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("export recipes: %w", err)
	}
	defer rows.Close()

	out := []model.Recipe{}
	for rows.Next() {
		var r model.Recipe
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Title, &r.Ingredients, &r.Instructions, &r.Tags, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = parseCreatedAt(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseCreatedAt accepts whatever the driver hands back for the TIMESTAMP
// column: modernc parses recognizable text into time.Time, anything else
// arrives as text.
func parseCreatedAt(v any) time.Time {
	var s string
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{createdAtLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
