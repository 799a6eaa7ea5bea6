package richtext

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads instructions markup. The canonical dialect written by
// Serialize is <b>, <i>, <u> and <span style="color:..;background-color:..;
// font-size:Npt">. Full HTML documents (paragraphs, <strong>/<em>, CSS
// font-weight and friends) are understood as well so older rows load with
// their formatting.
func Parse(markup string) (*Document, error) {
	d := &Document{source: markup, pristine: true}
	if markup == "" {
		return d, nil
	}

	type frame struct {
		tag  atom.Atom
		attr Attr
	}
	stack := []frame{}
	current := func() Attr {
		if len(stack) == 0 {
			return Attr{}
		}
		return stack[len(stack)-1].attr
	}
	skipDepth := 0
	afterBlock := false
	skipped := func(tag atom.Atom) bool {
		return tag == atom.Head || tag == atom.Style || tag == atom.Script || tag == atom.Title
	}
	emit := func(text string) {
		if text == "" {
			return
		}
		d.runs = append(d.runs, Run{Text: text, Attr: current()})
	}
	breakLine := func() {
		if d.Len() > 0 && !strings.HasSuffix(d.PlainText(), "\n") {
			emit("\n")
		}
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				d.coalesce()
				return d, nil
			}
			return nil, fmt.Errorf("parse markup: %w", z.Err())

		case html.DoctypeToken:
			afterBlock = true

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := string(z.Text())
			if afterBlock && strings.TrimSpace(text) == "" && strings.Contains(text, "\n") {
				continue
			}
			afterBlock = false
			emit(text)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := atom.Lookup(name)
			var style string
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				if string(k) == "style" {
					style = string(v)
				}
			}

			if skipped(tag) {
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			switch tag {
			case atom.Br:
				emit("\n")
				afterBlock = true
				continue
			case atom.P, atom.Div, atom.Li, atom.H1, atom.H2, atom.H3:
				breakLine()
				afterBlock = true
			case atom.Html, atom.Body:
				afterBlock = true
			}
			if tt == html.SelfClosingTagToken {
				continue
			}

			a := current()
			switch tag {
			case atom.B, atom.Strong:
				a.Bold = true
			case atom.I, atom.Em:
				a.Italic = true
			case atom.U, atom.Ins:
				a.Underline = true
			}
			switch tag {
			case atom.Html, atom.Body, atom.P, atom.Div, atom.Li:
				// Block-level styles carry document defaults (margins, base font), not character formats.
			default:
				a = applyStyle(a, style)
			}
			stack = append(stack, frame{tag: tag, attr: a})

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			if skipped(tag) {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			switch tag {
			case atom.P, atom.Div, atom.Li, atom.H1, atom.H2, atom.H3, atom.Html, atom.Body:
				afterBlock = true
			}
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].tag == tag {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// applyStyle folds the CSS declarations we understand into a.
func applyStyle(a Attr, style string) Attr {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		switch k {
		case "color":
			if hex, err := NormalizeColor(v); err == nil {
				a.Foreground = hex
			}
		case "background-color":
			if hex, err := NormalizeColor(v); err == nil {
				a.Background = hex
			}
		case "font-size":
			if n, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(v), "pt")); err == nil && n > 0 {
				a.PointSize = n
			}
		case "font-weight":
			if v == "bold" || v == "bolder" {
				a.Bold = true
			} else if n, err := strconv.Atoi(v); err == nil && n >= 600 {
				a.Bold = true
			}
		case "font-style":
			if v == "italic" || v == "oblique" {
				a.Italic = true
			}
		case "text-decoration", "text-decoration-line":
			if strings.Contains(v, "underline") {
				a.Underline = true
			}
		}
	}
	return a
}

// The tokenizer folds bare carriage returns into newlines, so they are escaped too.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#13;")

// Serialize writes the document as markup. An unedited parsed document
// returns its source verbatim; otherwise output is canonical, so Parse
// followed by Serialize reproduces it exactly.
func (d *Document) Serialize() string {
	if d.pristine {
		return d.source
	}
	var b strings.Builder
	for _, r := range d.runs {
		writeRun(&b, r)
	}
	return b.String()
}

func writeRun(b *strings.Builder, r Run) {
	a := r.Attr
	style := styleOf(a)
	if a.Bold {
		b.WriteString("<b>")
	}
	if a.Italic {
		b.WriteString("<i>")
	}
	if a.Underline {
		b.WriteString("<u>")
	}
	if style != "" {
		b.WriteString(`<span style="` + style + `">`)
	}
	b.WriteString(textEscaper.Replace(r.Text))
	if style != "" {
		b.WriteString("</span>")
	}
	if a.Underline {
		b.WriteString("</u>")
	}
	if a.Italic {
		b.WriteString("</i>")
	}
	if a.Bold {
		b.WriteString("</b>")
	}
}

func styleOf(a Attr) string {
	var parts []string
	if a.Foreground != "" {
		parts = append(parts, "color:"+a.Foreground)
	}
	if a.Background != "" {
		parts = append(parts, "background-color:"+a.Background)
	}
	if a.PointSize > 0 {
		parts = append(parts, "font-size:"+strconv.Itoa(a.PointSize)+"pt")
	}
	return strings.Join(parts, ";")
}
