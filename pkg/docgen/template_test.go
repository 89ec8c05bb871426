package docgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt; &quot;d&quot; &apos;e&apos;", EscapeXML(`a & b <c> "d" 'e'`))
	assert.Equal(t, "&amp;amp;", EscapeXML("&amp;"))
}

func TestSubstituteFields(t *testing.T) {
	doc := `<w:t>{{no_surat}}</w:t><w:t>{{ no_surat }}</w:t><w:t>{{unit_pengirim}}</w:t>` +
		`<w:t>{{belum_ada}}</w:t><w:t>{{content}}</w:t>`
	out := SubstituteFields(doc, Fields{
		"no_surat":      "001/LSP/III/2026",
		"unit_pengirim": "R&D <Unit>",
		"content":       "tidak dipakai",
	})

	assert.Equal(t, 2, strings.Count(out, "001/LSP/III/2026"))
	assert.NotContains(t, out, "{{no_surat}}")
	assert.Contains(t, out, "R&amp;D &lt;Unit&gt;")
	assert.Contains(t, out, "{{belum_ada}}")
	assert.Contains(t, out, "{{content}}")
}

func TestSubstituteFields_ValueWithDollar(t *testing.T) {
	out := SubstituteFields(`<w:t>{{biaya}}</w:t>`, Fields{"biaya": "$1 juta"})
	assert.Equal(t, `<w:t>$1 juta</w:t>`, out)
}

func TestSubstituteFields_ValuesAreNotRescanned(t *testing.T) {
	out := SubstituteFields(`<w:t>{{a}}</w:t><w:t>{{b}}</w:t>`, Fields{"a": "{{b}}", "b": "{{a}}"})
	assert.Equal(t, `<w:t>{{b}}</w:t><w:t>{{a}}</w:t>`, out)
}

func TestSplitAtContent(t *testing.T) {
	before, after, err := SplitAtContent(`<w:p><w:t>{{ content }}</w:t></w:p><w:p><w:t>{{content }}</w:t></w:p>`)
	require.NoError(t, err)
	assert.Equal(t, `<w:p><w:t>`, before)
	assert.Equal(t, `</w:t></w:p><w:p><w:t>{{content}}</w:t></w:p>`, after)

	_, _, err = SplitAtContent(`<w:p/>`)
	assert.ErrorIs(t, err, ErrPlaceholderNotFound)
}

func TestJoinSplitPlaceholders(t *testing.T) {
	doc := `<w:p><w:r><w:t>Nomor: {{no_</w:t></w:r><w:proofErr w:type="spellStart"/>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>surat}}</w:t></w:r></w:p>`
	joined := JoinSplitPlaceholders(doc)
	assert.Equal(t, `<w:p><w:r><w:t>Nomor: {{no_surat}}</w:t></w:r></w:p>`, joined)

	// 跨段落不合并
	cross := `<w:p><w:r><w:t>{{a</w:t></w:r></w:p><w:p><w:r><w:t>b}}</w:t></w:r></w:p>`
	assert.Equal(t, cross, JoinSplitPlaceholders(cross))
}

func TestInjectContent(t *testing.T) {
	doc := `<w:body><w:p w:rsidR="1"><w:r><w:t>Kop</w:t></w:r></w:p>` +
		`<w:p w:rsidR="2"><w:pPr><w:pStyle w:val="Normal"/></w:pPr><w:proofErr w:type="x"/><w:r><w:t>{{ content }}</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Tembusan</w:t></w:r></w:p></w:body>`
	frag := `<w:p><w:r><w:t>ISI</w:t></w:r></w:p>`

	out, err := InjectContent(doc, frag)
	require.NoError(t, err)
	assert.Equal(t, `<w:body><w:p w:rsidR="1"><w:r><w:t>Kop</w:t></w:r></w:p>`+frag+
		`<w:p><w:r><w:t>Tembusan</w:t></w:r></w:p></w:body>`, out)
	assert.Equal(t, 1, strings.Count(out, "ISI"))
	assert.NotContains(t, out, "content")
}

func TestInjectContent_Missing(t *testing.T) {
	_, err := InjectContent(`<w:body><w:p><w:r><w:t>tanpa isi</w:t></w:r></w:p></w:body>`, "<w:p/>")
	assert.ErrorIs(t, err, ErrPlaceholderNotFound)
}

func TestInjectContent_OnlyFirstPlaceholder(t *testing.T) {
	doc := `<w:p><w:r><w:t>{{content}}</w:t></w:r></w:p><w:p><w:r><w:t>{{content}}</w:t></w:r></w:p>`
	out, err := InjectContent(doc, `<w:p><w:r><w:t>ISI</w:t></w:r></w:p>`)
	require.NoError(t, err)
	assert.Equal(t, `<w:p><w:r><w:t>ISI</w:t></w:r></w:p><w:p><w:r><w:t>{{content}}</w:t></w:r></w:p>`, out)
}

func TestInjectContent_TableCellKeepsTrailingParagraph(t *testing.T) {
	doc := `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>{{content}}</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	table := `<w:tbl><w:tr><w:tc><w:p/></w:tc></w:tr></w:tbl>`

	out, err := InjectContent(doc, table)
	require.NoError(t, err)
	assert.Contains(t, out, table+`<w:p/></w:tc>`)

	out, err = InjectContent(doc, `<w:p><w:r><w:t>x</w:t></w:r></w:p>`)
	require.NoError(t, err)
	assert.NotContains(t, out, `<w:p/></w:tc>`)
}
