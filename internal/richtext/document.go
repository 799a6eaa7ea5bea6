// Package richtext is the in-memory model behind the instructions field: a
// sequence of runs, each carrying one character format. Offsets are counted
// in runes.
package richtext

import (
	"strings"
	"unicode/utf8"
)

type Run struct {
	Text string
	Attr Attr
}

// Selection is a half-open rune range. Start may be after End; it is
// normalized before use.
type Selection struct {
	Start int
	End   int
}

func (s Selection) Normalize() Selection {
	if s.Start > s.End {
		s.Start, s.End = s.End, s.Start
	}
	return s
}

func (s Selection) Empty() bool { return s.Start == s.End }

type Document struct {
	runs []Run

	// source is the markup the document was parsed from. While pristine is
	// set, Serialize returns it untouched so an unedited load/save cycle is
	// byte-identical even for markup written by other tools.
	source   string
	pristine bool
}

// New returns an unformatted document holding text.
func New(text string) *Document {
	d := &Document{}
	if text != "" {
		d.runs = []Run{{Text: text}}
	}
	return d
}

func (d *Document) Len() int {
	n := 0
	for _, r := range d.runs {
		n += utf8.RuneCountInString(r.Text)
	}
	return n
}

func (d *Document) PlainText() string {
	var b strings.Builder
	for _, r := range d.runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func (d *Document) Runs() []Run {
	out := make([]Run, len(d.runs))
	copy(out, d.runs)
	return out
}

// Edited reports whether the document differs from the markup it was parsed from.
func (d *Document) Edited() bool { return !d.pristine }

// AttrAt returns the format of the rune at offset. Offsets past the end
// report the format of the last rune.
func (d *Document) AttrAt(offset int) Attr {
	pos := 0
	var last Attr
	for _, r := range d.runs {
		n := utf8.RuneCountInString(r.Text)
		if offset < pos+n {
			return r.Attr
		}
		pos += n
		last = r.Attr
	}
	return last
}

func (d *Document) clamp(sel Selection) Selection {
	sel = sel.Normalize()
	n := d.Len()
	if sel.Start < 0 {
		sel.Start = 0
	}
	if sel.End > n {
		sel.End = n
	}
	if sel.Start > sel.End {
		sel.Start = sel.End
	}
	return sel
}

// Apply merges f into every run of sel. It returns false without touching
// the document when the selection is empty or f carries an invalid value.
func (d *Document) Apply(sel Selection, f Format) bool {
	if f == nil || !f.valid() {
		return false
	}
	sel = d.clamp(sel)
	if sel.Empty() {
		return false
	}

	i := d.splitAt(sel.Start)
	j := d.splitAt(sel.End)
	changed := false
	for k := i; k < j; k++ {
		merged := f.merge(d.runs[k].Attr)
		if merged != d.runs[k].Attr {
			d.runs[k].Attr = merged
			changed = true
		}
	}
	d.coalesce()
	if changed {
		d.pristine = false
	}
	return true
}

// Replace swaps the runes in sel for text. Inserted text takes the format of
// the rune before the insertion point (or after it at the very start).
func (d *Document) Replace(sel Selection, text string) {
	sel = d.clamp(sel)
	if sel.Empty() && text == "" {
		return
	}
	var attr Attr
	if sel.Start > 0 {
		attr = d.AttrAt(sel.Start - 1)
	} else {
		attr = d.AttrAt(0)
	}

	i := d.splitAt(sel.Start)
	j := d.splitAt(sel.End)
	tail := append([]Run{}, d.runs[j:]...)
	d.runs = d.runs[:i]
	if text != "" {
		d.runs = append(d.runs, Run{Text: text, Attr: attr})
	}
	d.runs = append(d.runs, tail...)
	d.coalesce()
	d.pristine = false
}

// SetText replaces the plain text, keeping the formatting of the common
// prefix and suffix. Typing in a plain-text widget funnels through here.
func (d *Document) SetText(text string) {
	old := []rune(d.PlainText())
	next := []rune(text)

	prefix := 0
	for prefix < len(old) && prefix < len(next) && old[prefix] == next[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(next)-prefix &&
		old[len(old)-1-suffix] == next[len(next)-1-suffix] {
		suffix++
	}
	if prefix == len(old) && prefix == len(next) {
		return
	}
	d.Replace(Selection{Start: prefix, End: len(old) - suffix}, string(next[prefix:len(next)-suffix]))
}

// splitAt makes sure a run boundary exists at offset and returns the index
// of the first run starting there.
func (d *Document) splitAt(offset int) int {
	pos := 0
	for i := 0; i < len(d.runs); i++ {
		if offset == pos {
			return i
		}
		n := utf8.RuneCountInString(d.runs[i].Text)
		if offset < pos+n {
			rs := []rune(d.runs[i].Text)
			left := Run{Text: string(rs[:offset-pos]), Attr: d.runs[i].Attr}
			right := Run{Text: string(rs[offset-pos:]), Attr: d.runs[i].Attr}
			d.runs = append(d.runs[:i], append([]Run{left, right}, d.runs[i+1:]...)...)
			return i + 1
		}
		pos += n
	}
	return len(d.runs)
}

func (d *Document) coalesce() {
	out := d.runs[:0]
	for _, r := range d.runs {
		if r.Text == "" {
			continue
		}
		if len(out) > 0 && out[len(out)-1].Attr == r.Attr {
			out[len(out)-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	d.runs = out
}
