package docgen

import (
	"archive/zip"
	"bytes"
)

// DOCX 包内的部件路径
const (
	ContentTypesPart    = "[Content_Types].xml"
	RootRelsPart        = "_rels/.rels"
	DocumentRelsPart    = "word/_rels/document.xml.rels"
	DocumentPart        = "word/document.xml"
	StylesPart          = "word/styles.xml"
	NumberingPart       = "word/numbering.xml"
	DocxMimeType        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	documentContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	stylesContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	numberingCT         = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	stylesRelType       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	numberingRelType    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
)

type packagePart struct {
	name string
	data []byte
}

// AssembleDocument 将文档块组装为一个完整的最小 DOCX 包
func AssembleDocument(blocks []Block) ([]byte, error) {
	documentXML, err := marshalPart(newDocument(blocks))
	if err != nil {
		return nil, err
	}
	numbering, err := numberingXML()
	if err != nil {
		return nil, err
	}

	parts := []packagePart{
		{ContentTypesPart, []byte(contentTypesXML)},
		{RootRelsPart, []byte(relsXML)},
		{DocumentRelsPart, []byte(wordRelsXML)},
		{DocumentPart, documentXML},
		{StylesPart, []byte(stylesXML)},
		{NumberingPart, numbering},
	}

	outputBuffer := new(bytes.Buffer)
	zipWriter := zip.NewWriter(outputBuffer)
	for _, part := range parts {
		entry, err := zipWriter.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := entry.Write(part.data); err != nil {
			return nil, err
		}
	}
	if err := zipWriter.Close(); err != nil {
		return nil, err
	}
	return outputBuffer.Bytes(), nil
}

// baseContentTypesXML 只声明主文档，模板缺少 [Content_Types].xml 时以此为起点
const baseContentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="` + documentContentType + `"/>
</Types>`

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="` + documentContentType + `"/>
  <Override PartName="/word/styles.xml" ContentType="` + stylesContentType + `"/>
  <Override PartName="/word/numbering.xml" ContentType="` + numberingCT + `"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const wordRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="` + stylesRelType + `" Target="styles.xml"/>
  <Relationship Id="rId2" Type="` + numberingRelType + `" Target="numbering.xml"/>
</Relationships>`

// stylesXML 生成内容依赖的样式，模板中已有的同名样式优先
const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal">
    <w:name w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:spacing w:after="120" w:line="360" w:lineRule="auto"/>
      <w:jc w:val="both"/>
    </w:pPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading1">
    <w:name w:val="heading 1"/>
    <w:basedOn w:val="Normal"/>
    <w:next w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:keepNext/>
      <w:spacing w:before="240" w:after="120"/>
      <w:outlineLvl w:val="0"/>
    </w:pPr>
    <w:rPr>
      <w:b/>
      <w:sz w:val="32"/>
      <w:szCs w:val="32"/>
    </w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading2">
    <w:name w:val="heading 2"/>
    <w:basedOn w:val="Normal"/>
    <w:next w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:keepNext/>
      <w:spacing w:before="200" w:after="120"/>
      <w:outlineLvl w:val="1"/>
    </w:pPr>
    <w:rPr>
      <w:b/>
      <w:sz w:val="28"/>
      <w:szCs w:val="28"/>
    </w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading3">
    <w:name w:val="heading 3"/>
    <w:basedOn w:val="Normal"/>
    <w:next w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:keepNext/>
      <w:spacing w:before="160" w:after="120"/>
      <w:outlineLvl w:val="2"/>
    </w:pPr>
    <w:rPr>
      <w:b/>
      <w:sz w:val="24"/>
      <w:szCs w:val="24"/>
    </w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="ListParagraph">
    <w:name w:val="List Paragraph"/>
    <w:basedOn w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:ind w:left="720"/>
      <w:contextualSpacing/>
    </w:pPr>
  </w:style>
</w:styles>`
