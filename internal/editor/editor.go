// Package editor holds the detail pane: which recipe is open and its three
// editable fields.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"recipe-keeper/internal/model"
	"recipe-keeper/internal/richtext"
)

// ErrNothingSelected is returned by Save when no recipe is open. Callers show
// it to the user; it is not a failure.
var ErrNothingSelected = errors.New("no recipe selected")

type Getter interface {
	Get(ctx context.Context, id int64) (model.Body, error)
}

type Updater interface {
	Update(ctx context.Context, id int64, body model.Body) error
}

// State is the open recipe. Edits live here until Save; loading another
// recipe drops them.
type State struct {
	id       int64
	selected bool

	ingredients  string
	instructions *richtext.Document
	tags         string
}

func New() *State {
	return &State{instructions: richtext.New("")}
}

func (s *State) CurrentID() (int64, bool) {
	return s.id, s.selected
}

func (s *State) Ingredients() string { return s.ingredients }
func (s *State) Tags() string        { return s.tags }

// Instructions returns the live document. Callers that mutate it should go
// through EditInstructions or Format instead.
func (s *State) Instructions() *richtext.Document { return s.instructions }

// LoadFrom opens id. On any error, including store.ErrNotFound, the state is
// left as it was.
func (s *State) LoadFrom(ctx context.Context, src Getter, id int64) error {
	body, err := src.Get(ctx, id)
	if err != nil {
		return err
	}
	doc, err := richtext.Parse(body.Instructions)
	if err != nil {
		// Unparseable markup is shown as plain text rather than refusing to open the recipe.
		slog.WarnContext(ctx, "instructions markup unreadable", "id", id, "err", err)
		doc = richtext.New(body.Instructions)
	}
	s.id = id
	s.selected = true
	s.ingredients = body.Ingredients
	s.instructions = doc
	s.tags = body.Tags
	return nil
}

// Body is what Save would write.
func (s *State) Body() model.Body {
	return model.Body{
		Ingredients:  s.ingredients,
		Instructions: s.instructions.Serialize(),
		Tags:         s.tags,
	}
}

// Save writes all three fields of the open recipe.
func (s *State) Save(ctx context.Context, dst Updater) error {
	if !s.selected {
		return ErrNothingSelected
	}
	if err := dst.Update(ctx, s.id, s.Body()); err != nil {
		return fmt.Errorf("save recipe %d: %w", s.id, err)
	}
	slog.InfoContext(ctx, "recipe saved", "id", s.id)
	return nil
}

func (s *State) SetIngredients(text string) { s.ingredients = text }
func (s *State) SetTags(text string)        { s.tags = text }

// EditInstructions replaces the instructions text. Characters outside the
// changed span keep their formatting.
func (s *State) EditInstructions(text string) {
	s.instructions.SetText(text)
}

// Format applies f to sel of the instructions. It reports whether anything
// was attempted; empty selections and cancelled pickers return false.
func (s *State) Format(sel richtext.Selection, f richtext.Format) bool {
	return s.instructions.Apply(sel, f)
}
