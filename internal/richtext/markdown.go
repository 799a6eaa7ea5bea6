package richtext

import "strings"

var mdEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`)

// Markdown renders the document for preview. Only bold and italic survive;
// colors, highlight, size and underline have no Markdown equivalent.
func (d *Document) Markdown() string {
	var b strings.Builder
	for _, r := range d.runs {
		marker := ""
		switch {
		case r.Attr.Bold && r.Attr.Italic:
			marker = "***"
		case r.Attr.Bold:
			marker = "**"
		case r.Attr.Italic:
			marker = "*"
		}
		lines := strings.Split(r.Text, "\n")
		for i, ln := range lines {
			if i > 0 {
				// Hard line break so recipe steps keep their layout.
				b.WriteString("  \n")
			}
			b.WriteString(wrapEmphasis(mdEscaper.Replace(ln), marker))
		}
	}
	return b.String()
}

// wrapEmphasis puts marker around the non-blank core of s; emphasis markers
// next to whitespace are not recognized by CommonMark.
func wrapEmphasis(s, marker string) string {
	if marker == "" {
		return s
	}
	core := strings.TrimSpace(s)
	if core == "" {
		return s
	}
	start := strings.Index(s, core)
	return s[:start] + marker + core + marker + s[start+len(core):]
}
