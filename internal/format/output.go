// Package format renders CLI results as JSON or EDN.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON = "json"
	EDN  = "edn"
)

// Envelope is the top-level shape of every successful command result.
type Envelope struct {
	Data any `json:"data"`
}

// Valid reports whether name is an output format Write understands.
func Valid(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", JSON, EDN:
		return true
	}
	return false
}

// Write encodes v in the named format followed by a newline. An empty name
// means JSON.
func Write(w io.Writer, v any, name string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("unknown output format: %s", name)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	// Instructions are markup; keep < and > readable.
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
