package docgen

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBody(t *testing.T) {
	doc := `<?xml version="1.0"?><w:document xmlns:w="x"><w:body w:rsid="1">` +
		`<w:p><w:r><w:t>a</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:sectPr w:rsidR="2"><w:pgSz w:w="1"/></w:sectPr></w:pPr></w:p>` +
		`<w:sectPr/>` +
		`<w:sectPr><w:pgMar w:top="1"/></w:sectPr>` +
		`</w:body></w:document>`

	body, err := ExtractBody(doc)
	require.NoError(t, err)
	assert.NotContains(t, body, "sectPr")
	assert.True(t, strings.HasPrefix(body, "<w:p><w:r><w:t>a</w:t></w:r></w:p>"))
	assert.Contains(t, body, "<w:p><w:pPr></w:pPr></w:p>")
}

func TestExtractBody_Malformed(t *testing.T) {
	_, err := ExtractBody(`<w:document><w:p/></w:document>`)
	assert.ErrorIs(t, err, ErrMalformedDocument)

	body, err := ExtractBody(`<w:document><w:body/></w:document>`)
	require.NoError(t, err)
	assert.Equal(t, "", body)
}

func TestTrimEmptyParagraphs(t *testing.T) {
	empty := `<w:p><w:pPr><w:jc w:val="both"/></w:pPr><w:r><w:t xml:space="preserve">  </w:t></w:r></w:p>`
	text := `<w:p><w:r><w:t>isi</w:t></w:r></w:p>`
	drawing := `<w:p><w:r><w:drawing></w:drawing></w:r></w:p>`

	assert.Equal(t, text, TrimEmptyParagraphs(empty+empty+text+empty))
	assert.Equal(t, drawing+text, TrimEmptyParagraphs(drawing+text+`<w:p/>`))

	// 最多去掉 5 个
	seven := strings.Repeat(empty, 7)
	assert.Equal(t, strings.Repeat(empty, 2)+text, TrimEmptyParagraphs(seven+text))

	// 全是空段落时保留一个
	assert.Equal(t, empty, TrimEmptyParagraphs(empty+empty+empty))
}

func TestConvertedFragmentIsWellFormed(t *testing.T) {
	g := NewDocGenerator()
	frag, err := g.ConvertHTML(context.Background(),
		`<h1>Judul</h1><p>Paragraf <em>miring</em></p>`+
			`<ol><li>satu<ul><li>dua</li></ul></li></ol>`+
			`<table><tr><td>a</td><td>b</td></tr></table><p>akhir</p>`)
	require.NoError(t, err)

	assert.NotContains(t, frag.Body, "sectPr")
	parts, err := splitTopLevel(frag.Body)
	require.NoError(t, err)
	require.Len(t, parts, 6)
	for _, part := range parts {
		ok := strings.HasPrefix(part, "<w:p>") || strings.HasPrefix(part, "<w:tbl>")
		assert.True(t, ok, part)
	}
	assert.Equal(t, strings.Count(frag.Body, "<w:tbl>"), strings.Count(frag.Body, "</w:tbl>"))
	assert.Equal(t, strings.Count(frag.Body, "<w:p>"), strings.Count(frag.Body, "</w:p>"))
}
