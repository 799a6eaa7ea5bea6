package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CanonicalMarkupRoundTrips(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		markup string
		runs   []Run
	}{
		{name: "empty", markup: "", runs: []Run{}},
		{name: "plain", markup: "just text", runs: []Run{{Text: "just text"}}},
		{name: "bold", markup: "<b>boil</b>", runs: []Run{{Text: "boil", Attr: Attr{Bold: true}}}},
		{
			name:   "nested",
			markup: `<b><i><u><span style="color:#ff0000;background-color:#ffff00;font-size:14pt">hot</span></u></i></b> pan`,
			runs: []Run{
				{Text: "hot", Attr: Attr{Bold: true, Italic: true, Underline: true, Foreground: "#ff0000", Background: "#ffff00", PointSize: 14}},
				{Text: " pan"},
			},
		},
		{name: "escaped", markup: "a &lt; b &amp;&amp; c &gt; d", runs: []Run{{Text: "a < b && c > d"}}},
		{name: "newlines", markup: "1. chop\n2. <i>fry</i>\n", runs: []Run{{Text: "1. chop\n2. "}, {Text: "fry", Attr: Attr{Italic: true}}, {Text: "\n"}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := mustParse(t, tt.markup)
			assert.Equal(t, tt.runs, d.Runs())

			// Re-serializing from the runs (not the cached source) must give the same bytes.
			canon := &Document{runs: d.Runs()}
			assert.Equal(t, tt.markup, canon.Serialize())
		})
	}
}

func TestSerialize_EditedDocumentParsesBackIdentically(t *testing.T) {
	t.Parallel()
	d := New("Whisk <eggs> & sugar\r\nthen bake")
	require.True(t, d.Apply(Selection{Start: 6, End: 12}, Bold{}))
	size, err := NewFontSize(9)
	require.NoError(t, err)
	require.True(t, d.Apply(Selection{Start: 0, End: 5}, size))

	out := d.Serialize()
	again := mustParse(t, out)
	assert.Equal(t, d.Runs(), again.Runs())
	assert.Equal(t, out, (&Document{runs: again.Runs()}).Serialize())
}

func TestParse_UnknownMarkupIsPreservedUntilEdited(t *testing.T) {
	t.Parallel()
	const src = `<div class="x">Mix <font color="red">well</font></div>`
	d := mustParse(t, src)
	assert.Equal(t, "Mix well", d.PlainText())
	assert.Equal(t, src, d.Serialize())

	require.True(t, d.Apply(Selection{Start: 0, End: 3}, Bold{}))
	assert.Equal(t, "<b>Mix</b> well", d.Serialize())
}

func TestParse_RichTextHTMLDocument(t *testing.T) {
	t.Parallel()
	const qt = `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN" "http://www.w3.org/TR/REC-html40/strict.dtd">
<html><head><meta name="qrichtext" content="1" /><style type="text/css">
p, li { white-space: pre-wrap; }
</style></head><body style=" font-family:'Arial'; font-size:10pt; font-weight:400; font-style:normal;">
<p style=" margin-top:0px; margin-bottom:0px;"><span style=" font-weight:600;">Boil</span> the <span style=" font-style:italic; color:#0000ff;">pasta</span></p>
<p style=" margin-top:0px; margin-bottom:0px;">Drain<br />well</p></body></html>`

	d := mustParse(t, qt)
	assert.Equal(t, "Boil the pasta\nDrain\nwell", d.PlainText())
	assert.Equal(t, []Run{
		{Text: "Boil", Attr: Attr{Bold: true}},
		{Text: " the "},
		{Text: "pasta", Attr: Attr{Italic: true, Foreground: "#0000ff"}},
		{Text: "\nDrain\nwell"},
	}, d.Runs())
	assert.Equal(t, qt, d.Serialize())
}

func TestParse_StrongEmAndCSSAliases(t *testing.T) {
	t.Parallel()
	d := mustParse(t, `<strong>a</strong><em>b</em><ins>c</ins><span style="text-decoration: underline; font-weight: bold; font-size: 12">d</span>`)
	assert.Equal(t, []Run{
		{Text: "a", Attr: Attr{Bold: true}},
		{Text: "b", Attr: Attr{Italic: true}},
		{Text: "c", Attr: Attr{Underline: true}},
		{Text: "d", Attr: Attr{Bold: true, Underline: true, PointSize: 12}},
	}, d.Runs())
}

func TestMarkdown_RendersEmphasis(t *testing.T) {
	t.Parallel()
	d := mustParse(t, "<b>Boil </b>the <i>pasta</i>\n<b><i>now</i></b> *")
	assert.Equal(t, "**Boil** the *pasta*  \n***now*** \\*", d.Markdown())
}
