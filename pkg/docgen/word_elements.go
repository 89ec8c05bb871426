package docgen

import (
	"encoding/xml"
	"strings"
)

const (
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relNamespace  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	tableBorderColor = "B4C6E7"
	tableWidthPct    = 5000 // 100%，单位为百分之一的五十分之一
	tableTextWidth   = 9026 // A4 去掉页边距后的正文宽度
	cellMarginTopBot = 80
	cellMarginSide   = 120
)

// 以下结构体直接以 w: 前缀命名，按 WordprocessingML 的元素顺序声明字段

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	W       string   `xml:"xmlns:w,attr"`
	R       string   `xml:"xmlns:r,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Content []interface{}
	SectPr  wSectPr `xml:"w:sectPr"`
}

type wSectPr struct {
	PgSz  wPageSize   `xml:"w:pgSz"`
	PgMar wPageMargin `xml:"w:pgMar"`
}

type wPageSize struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type wPageMargin struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wIntVal struct {
	Val int `xml:"w:val,attr"`
}

type wEmpty struct{}

type wParagraph struct {
	XMLName xml.Name         `xml:"w:p"`
	Props   *wParagraphProps `xml:"w:pPr,omitempty"`
	Runs    []wRun
}

type wParagraphProps struct {
	Style   *wVal     `xml:"w:pStyle,omitempty"`
	NumPr   *wNumPr   `xml:"w:numPr,omitempty"`
	Spacing *wSpacing `xml:"w:spacing,omitempty"`
	Ind     *wInd     `xml:"w:ind,omitempty"`
	Jc      *wVal     `xml:"w:jc,omitempty"`
}

type wNumPr struct {
	Ilvl  wIntVal `xml:"w:ilvl"`
	NumID wIntVal `xml:"w:numId"`
}

type wSpacing struct {
	After    int    `xml:"w:after,attr"`
	Line     int    `xml:"w:line,attr"`
	LineRule string `xml:"w:lineRule,attr"`
}

type wInd struct {
	Left      int `xml:"w:left,attr,omitempty"`
	Hanging   int `xml:"w:hanging,attr,omitempty"`
	FirstLine int `xml:"w:firstLine,attr,omitempty"`
}

type wRun struct {
	XMLName xml.Name   `xml:"w:r"`
	Props   *wRunProps `xml:"w:rPr,omitempty"`
	Break   *wEmpty    `xml:"w:br,omitempty"`
	Text    *wText     `xml:"w:t,omitempty"`
}

type wRunProps struct {
	Bold      *wEmpty `xml:"w:b,omitempty"`
	Italic    *wEmpty `xml:"w:i,omitempty"`
	Caps      *wEmpty `xml:"w:caps,omitempty"`
	Underline *wVal   `xml:"w:u,omitempty"`
}

type wText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Text  string `xml:",chardata"`
}

type wTable struct {
	XMLName xml.Name    `xml:"w:tbl"`
	Props   wTableProps `xml:"w:tblPr"`
	Grid    wTableGrid  `xml:"w:tblGrid"`
	Rows    []wTableRow
}

type wTableProps struct {
	Width   wWidth        `xml:"w:tblW"`
	Borders wTableBorders `xml:"w:tblBorders"`
	Margins wCellMargins  `xml:"w:tblCellMar"`
}

type wWidth struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type wBorder struct {
	Val   string `xml:"w:val,attr"`
	Sz    int    `xml:"w:sz,attr"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type wTableBorders struct {
	Top     wBorder `xml:"w:top"`
	Left    wBorder `xml:"w:left"`
	Bottom  wBorder `xml:"w:bottom"`
	Right   wBorder `xml:"w:right"`
	InsideH wBorder `xml:"w:insideH"`
	InsideV wBorder `xml:"w:insideV"`
}

type wCellMargins struct {
	Top    wWidth `xml:"w:top"`
	Left   wWidth `xml:"w:left"`
	Bottom wWidth `xml:"w:bottom"`
	Right  wWidth `xml:"w:right"`
}

type wTableGrid struct {
	Cols []wGridCol `xml:"w:gridCol"`
}

type wGridCol struct {
	W int `xml:"w:w,attr"`
}

type wTableRow struct {
	XMLName xml.Name   `xml:"w:tr"`
	Props   *wRowProps `xml:"w:trPr,omitempty"`
	Cells   []wTableCell
}

type wRowProps struct {
	Header *wEmpty `xml:"w:tblHeader,omitempty"`
}

type wTableCell struct {
	XMLName    xml.Name   `xml:"w:tc"`
	Props      wCellProps `xml:"w:tcPr"`
	Paragraphs []wParagraph
}

type wCellProps struct {
	Width wWidth `xml:"w:tcW"`
}

func singleBorder() wBorder {
	return wBorder{Val: "single", Sz: 4, Space: 0, Color: tableBorderColor}
}

func newDocument(blocks []Block) *wDocument {
	doc := &wDocument{W: wordNamespace, R: relNamespace}
	for _, b := range blocks {
		switch v := b.(type) {
		case *Paragraph:
			doc.Body.Content = append(doc.Body.Content, toWordParagraph(v))
		case *Table:
			doc.Body.Content = append(doc.Body.Content, toWordTable(v))
		}
	}
	// A4 纵向
	doc.Body.SectPr = wSectPr{
		PgSz:  wPageSize{W: 11906, H: 16838},
		PgMar: wPageMargin{Top: 1440, Right: 1440, Bottom: 1440, Left: 1440, Header: 708, Footer: 708},
	}
	return doc
}

func toWordParagraph(p *Paragraph) wParagraph {
	props := &wParagraphProps{
		Spacing: &wSpacing{After: p.SpacingAfter, Line: LineSpacing, LineRule: "auto"},
		Jc:      &wVal{Val: string(p.Alignment)},
	}
	if p.Style != "" {
		props.Style = &wVal{Val: p.Style}
	}
	if p.Numbering != nil {
		def := definitionFor(p.Numbering.Kind)
		props.NumPr = &wNumPr{
			Ilvl:  wIntVal{Val: clampLevel(p.Numbering.Level)},
			NumID: wIntVal{Val: def.NumID},
		}
	}
	if p.FirstLineIndent > 0 || p.IndentLeft > 0 {
		props.Ind = &wInd{Left: p.IndentLeft, FirstLine: p.FirstLineIndent}
	}
	if p.Alignment == "" {
		props.Jc = nil
	}

	wp := wParagraph{Props: props}
	for _, r := range p.Runs {
		wp.Runs = append(wp.Runs, toWordRun(r))
	}
	return wp
}

func toWordRun(r Run) wRun {
	if r.Break {
		return wRun{Break: &wEmpty{}}
	}
	wr := wRun{Text: &wText{Text: r.Text}}
	if r.Text != strings.TrimSpace(r.Text) {
		wr.Text.Space = "preserve"
	}
	if r.Bold || r.Italic || r.Underline || r.Caps {
		props := &wRunProps{}
		if r.Bold {
			props.Bold = &wEmpty{}
		}
		if r.Italic {
			props.Italic = &wEmpty{}
		}
		if r.Caps {
			props.Caps = &wEmpty{}
		}
		if r.Underline {
			props.Underline = &wVal{Val: "single"}
		}
		wr.Props = props
	}
	return wr
}

func toWordTable(t *Table) wTable {
	cols := 0
	for _, row := range t.Rows {
		if len(row.Cells) > cols {
			cols = len(row.Cells)
		}
	}
	colWidth := tableTextWidth / cols

	wt := wTable{
		Props: wTableProps{
			Width: wWidth{W: tableWidthPct, Type: "pct"},
			Borders: wTableBorders{
				Top: singleBorder(), Left: singleBorder(), Bottom: singleBorder(),
				Right: singleBorder(), InsideH: singleBorder(), InsideV: singleBorder(),
			},
			Margins: wCellMargins{
				Top:    wWidth{W: cellMarginTopBot, Type: "dxa"},
				Left:   wWidth{W: cellMarginSide, Type: "dxa"},
				Bottom: wWidth{W: cellMarginTopBot, Type: "dxa"},
				Right:  wWidth{W: cellMarginSide, Type: "dxa"},
			},
		},
	}
	for i := 0; i < cols; i++ {
		wt.Grid.Cols = append(wt.Grid.Cols, wGridCol{W: colWidth})
	}
	for _, row := range t.Rows {
		wr := wTableRow{}
		if row.Header {
			wr.Props = &wRowProps{Header: &wEmpty{}}
		}
		for _, cell := range row.Cells {
			wc := wTableCell{Props: wCellProps{Width: wWidth{W: colWidth, Type: "dxa"}}}
			for _, p := range cell.Paragraphs {
				wc.Paragraphs = append(wc.Paragraphs, toWordParagraph(p))
			}
			wr.Cells = append(wr.Cells, wc)
		}
		wt.Rows = append(wt.Rows, wr)
	}
	return wt
}

// marshalPart 序列化并加上 XML 声明
func marshalPart(v interface{}) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xmlDeclaration)+len(body))
	out = append(out, xmlDeclaration...)
	return append(out, body...), nil
}

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
