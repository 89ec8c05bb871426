package docgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:rFonts w:ascii="Arial"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Kop"><w:name w:val="Kop Surat"/></w:style>
</w:styles>`

const templateNumbering = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:numFmt w:val="lowerLetter"/></w:lvl></w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
<w:numIdMacAtCleanup w:val="1"/>
</w:numbering>`

func TestMergeStyles(t *testing.T) {
	merged, err := MergeStyles([]byte(templateStyles), []byte(stylesXML))
	require.NoError(t, err)
	out := string(merged)

	// 模板自己的 Normal 保持不变且只有一个
	assert.Equal(t, 1, strings.Count(out, `w:styleId="Normal"`))
	assert.Contains(t, out, `w:ascii="Arial"`)
	assert.Contains(t, out, `w:styleId="Kop"`)
	assert.Contains(t, out, `w:styleId="Heading1"`)
	assert.Contains(t, out, `w:styleId="ListParagraph"`)
}

func TestMergeStyles_Idempotent(t *testing.T) {
	once, err := MergeStyles([]byte(templateStyles), []byte(stylesXML))
	require.NoError(t, err)
	twice, err := MergeStyles(once, []byte(stylesXML))
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}

func TestMergeStyles_EmptyBase(t *testing.T) {
	merged, err := MergeStyles(nil, []byte(stylesXML))
	require.NoError(t, err)
	assert.Equal(t, stylesXML, string(merged))
}

func TestMergeNumbering(t *testing.T) {
	generated, err := numberingXML()
	require.NoError(t, err)

	merged, err := MergeNumbering([]byte(templateNumbering), generated)
	require.NoError(t, err)
	out := string(merged)

	lastAbstract := strings.LastIndex(out, "<w:abstractNum ")
	firstNum := strings.Index(out, "<w:num ")
	lastNum := strings.LastIndex(out, "<w:num ")
	cleanup := strings.Index(out, "<w:numIdMacAtCleanup")

	assert.Less(t, lastAbstract, firstNum, "abstractNum must precede num")
	assert.Less(t, lastNum, cleanup)
	assert.Contains(t, out, `w:abstractNumId="9101"`)
	assert.Contains(t, out, `w:numId="9102"`)
	assert.Contains(t, out, `w:val="lowerLetter"`)
}

func TestMergeNumbering_Idempotent(t *testing.T) {
	generated, err := numberingXML()
	require.NoError(t, err)

	once, err := MergeNumbering([]byte(templateNumbering), generated)
	require.NoError(t, err)
	twice, err := MergeNumbering(once, generated)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}

func TestMerge_InvalidBase(t *testing.T) {
	_, err := MergeStyles([]byte("<w:styles"), []byte(stylesXML))
	assert.Error(t, err)
}
