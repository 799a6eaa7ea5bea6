package model

import (
	"fmt"
	"strings"
	"time"
)

type Recipe struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Tags         string    `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Body is the editable part of a recipe. Updates always overwrite all three fields.
type Body struct {
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	Tags         string `json:"tags"`
}

func (r Recipe) Body() Body {
	return Body{Ingredients: r.Ingredients, Instructions: r.Instructions, Tags: r.Tags}
}

// Summary is the list row shown for a recipe.
type Summary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Tags  string `json:"tags"`
}

type SortMode int

const (
	SortAlphabetical SortMode = iota
	SortNewestFirst
	SortOldestFirst
)

var sortModeNames = [...]string{
	SortAlphabetical: "Alphabetical",
	SortNewestFirst:  "Newest First",
	SortOldestFirst:  "Oldest First",
}

func SortModes() []SortMode {
	return []SortMode{SortAlphabetical, SortNewestFirst, SortOldestFirst}
}

func (m SortMode) String() string {
	if m < 0 || int(m) >= len(sortModeNames) {
		return fmt.Sprintf("SortMode(%d)", int(m))
	}
	return sortModeNames[m]
}

// Next cycles through the sort modes in display order.
func (m SortMode) Next() SortMode {
	return (m + 1) % SortMode(len(sortModeNames))
}

func (m SortMode) Valid() bool {
	return m >= 0 && int(m) < len(sortModeNames)
}

// ParseSortMode accepts the display names ("Newest First") and the short
// forms used on the command line ("newest").
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "alphabetical", "alpha", "title":
		return SortAlphabetical, nil
	case "newest first", "newest", "newest-first":
		return SortNewestFirst, nil
	case "oldest first", "oldest", "oldest-first":
		return SortOldestFirst, nil
	}
	return SortAlphabetical, fmt.Errorf("unknown sort mode: %q (expected alphabetical|newest|oldest)", s)
}
