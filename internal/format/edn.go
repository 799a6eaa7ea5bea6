package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes v as EDN. Values go through their JSON encoding first so
// struct tags decide field names; object keys become kebab-case keywords
// (createdAt becomes :created-at).
func WriteEDN(w io.Writer, v any, pretty bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	// Keep ids as exact integers.
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}

	p := ednPrinter{pretty: pretty}
	p.value(x, 0)
	p.buf.WriteByte('\n')
	_, err = w.Write(p.buf.Bytes())
	return err
}

type ednPrinter struct {
	buf    bytes.Buffer
	pretty bool
}

func (p *ednPrinter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		p.buf.WriteString("nil")
	case bool:
		p.buf.WriteString(strconv.FormatBool(t))
	case json.Number:
		p.buf.WriteString(t.String())
	case string:
		p.buf.WriteString(ednString(t))
	case []any:
		p.open('[')
		for i, it := range t {
			p.sep(i, depth+1)
			p.value(it, depth+1)
		}
		p.close(']', len(t), depth)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		p.open('{')
		for i, k := range keys {
			p.sep(i, depth+1)
			p.buf.WriteString(keyword(k))
			p.buf.WriteByte(' ')
			p.value(t[k], depth+1)
		}
		p.close('}', len(keys), depth)
	default:
		p.buf.WriteString(ednString(fmt.Sprint(v)))
	}
}

func (p *ednPrinter) open(c byte) { p.buf.WriteByte(c) }

func (p *ednPrinter) sep(i, depth int) {
	switch {
	case p.pretty:
		p.buf.WriteByte('\n')
		p.buf.WriteString(strings.Repeat("  ", depth))
	case i > 0:
		p.buf.WriteByte(' ')
	}
}

func (p *ednPrinter) close(c byte, n, depth int) {
	if p.pretty && n > 0 {
		p.buf.WriteByte('\n')
		p.buf.WriteString(strings.Repeat("  ", depth))
	}
	p.buf.WriteByte(c)
}

// ednString quotes s using the escapes EDN readers accept.
func ednString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func keyword(k string) string {
	var b strings.Builder
	b.WriteByte(':')
	for i, r := range strings.TrimSpace(k) {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '_':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
