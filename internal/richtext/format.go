package richtext

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	ErrInvalidColor = errors.New("invalid color")
	ErrInvalidSize  = errors.New("invalid font size")
)

// Attr is the character format of a run. Zero values mean "not set".
type Attr struct {
	Bold      bool
	Italic    bool
	Underline bool
	// Foreground and Background are normalized "#rrggbb" strings.
	Foreground string
	Background string
	PointSize  int
}

func (a Attr) IsZero() bool { return a == Attr{} }

// Format is a character-format command. Merging only ever sets the
// attribute the command owns; everything else on the range is kept.
type Format interface {
	Name() string
	merge(Attr) Attr
	valid() bool
}

type Bold struct{}

func (Bold) Name() string { return "Bold" }
func (Bold) valid() bool  { return true }

func (Bold) merge(a Attr) Attr {
	a.Bold = true
	return a
}

type Italic struct{}

func (Italic) Name() string { return "Italic" }
func (Italic) valid() bool  { return true }

func (Italic) merge(a Attr) Attr {
	a.Italic = true
	return a
}

type Underline struct{}

func (Underline) Name() string { return "Underline" }
func (Underline) valid() bool  { return true }

func (Underline) merge(a Attr) Attr {
	a.Underline = true
	return a
}

type TextColor struct {
	Color string
}

func (TextColor) Name() string { return "Text Color" }
func (c TextColor) merge(a Attr) Attr {
	a.Foreground = c.Color
	return a
}
func (c TextColor) valid() bool { return isNormalizedHex(c.Color) }

type HighlightColor struct {
	Color string
}

func (HighlightColor) Name() string { return "Highlight Color" }
func (c HighlightColor) merge(a Attr) Attr {
	a.Background = c.Color
	return a
}
func (c HighlightColor) valid() bool { return isNormalizedHex(c.Color) }

type FontSize struct {
	Points int
}

func (FontSize) Name() string { return "Font Size" }
func (f FontSize) merge(a Attr) Attr {
	a.PointSize = f.Points
	return a
}
func (f FontSize) valid() bool { return f.Points > 0 && f.Points <= MaxPointSize }

const MaxPointSize = 400

func NewTextColor(c string) (TextColor, error) {
	hex, err := NormalizeColor(c)
	if err != nil {
		return TextColor{}, err
	}
	return TextColor{Color: hex}, nil
}

func NewHighlightColor(c string) (HighlightColor, error) {
	hex, err := NormalizeColor(c)
	if err != nil {
		return HighlightColor{}, err
	}
	return HighlightColor{Color: hex}, nil
}

func NewFontSize(points int) (FontSize, error) {
	f := FontSize{Points: points}
	if !f.valid() {
		return FontSize{}, fmt.Errorf("%w: %d (expected 1-%d)", ErrInvalidSize, points, MaxPointSize)
	}
	return f, nil
}

// NamedColor is a palette entry offered by color pickers.
type NamedColor struct {
	Name string
	Hex  string
}

// Palette is the default swatch set shown by pickers; names are also accepted by NormalizeColor.
var Palette = []NamedColor{
	{"black", "#000000"},
	{"white", "#ffffff"},
	{"gray", "#808080"},
	{"red", "#ff0000"},
	{"orange", "#ffa500"},
	{"yellow", "#ffff00"},
	{"green", "#008000"},
	{"teal", "#008080"},
	{"blue", "#0000ff"},
	{"purple", "#800080"},
	{"pink", "#ffc0cb"},
	{"brown", "#a52a2a"},
}

// NormalizeColor accepts "#rgb", "#rrggbb" or a palette name and returns "#rrggbb".
func NormalizeColor(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	for _, c := range Palette {
		if c.Name == s {
			return c.Hex, nil
		}
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c.Hex(), nil
}

func isNormalizedHex(s string) bool {
	hex, err := NormalizeColor(s)
	return err == nil && hex == s
}
