package docgen

import (
	"regexp"
	"strings"
)

// 版式常量，单位 twip
const (
	LineSpacing          = 360
	FirstLineIndent      = 520
	SpacingAfterDefault  = 120
	SpacingAfterMeta     = 40
	SpacingAfterListItem = 60

	maxDepth = 64
)

const (
	classMeta          = "word-meta"
	classAddress       = "word-address"
	classSignature     = "word-signature"
	classDetail        = "word-detail"
	classFooter        = "word-footer"
	classSignatureName = "word-signature__name"
	classSignatureID   = "word-signature__id"
	classNoIndent      = "word-no-indent"
)

// 这些区域内的段落不做首行缩进
var nonIndentClasses = []string{
	classMeta, classAddress, classSignature, classDetail,
	classFooter, classSignatureName, classSignatureID, classNoIndent,
}

// Alignment 段落对齐方式，取值与 w:jc 一致
type Alignment string

const (
	AlignBoth   Alignment = "both"
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ListKind 列表类型
type ListKind int

const (
	OrderedList ListKind = iota
	BulletList
)

// NumberingRef 段落引用的编号定义与层级
type NumberingRef struct {
	Kind  ListKind
	Level int
}

// Block 文档块：*Paragraph 或 *Table
type Block interface {
	block()
}

// Paragraph 段落
type Paragraph struct {
	Style           string
	Runs            []Run
	Alignment       Alignment
	SpacingAfter    int
	FirstLineIndent int
	IndentLeft      int
	Numbering       *NumberingRef
}

// Table 表格
type Table struct {
	Rows []TableRow
}

type TableRow struct {
	Header bool
	Cells  []TableCell
}

type TableCell struct {
	Paragraphs []*Paragraph
}

func (*Paragraph) block() {}
func (*Table) block()     {}

// listState 当前所在列表，派生后不再修改
type listState struct {
	kind  ListKind
	level int
}

// convertContext 转换上下文，按值传递，进入子节点时复制并扩展
type convertContext struct {
	classes  []string
	list     *listState
	format   runFormat
	align    Alignment
	noIndent bool
	depth    int
}

var (
	textAlignRe  = regexp.MustCompile(`(?i)text-align\s*:\s*(left|center|right|justify)`)
	textIndentRe = regexp.MustCompile(`(?i)text-indent\s*:\s*0(?:px|pt|em|cm|mm|%)?\s*(?:;|$)`)
)

func (c convertContext) descend(n *Node) convertContext {
	if len(n.Classes) > 0 {
		classes := make([]string, 0, len(c.classes)+len(n.Classes))
		classes = append(classes, c.classes...)
		c.classes = append(classes, n.Classes...)
	}
	c.format = c.format.with(n)
	if style := n.Attr("style"); style != "" {
		if m := textAlignRe.FindStringSubmatch(style); m != nil {
			switch strings.ToLower(m[1]) {
			case "left":
				c.align = AlignLeft
			case "center":
				c.align = AlignCenter
			case "right":
				c.align = AlignRight
			default:
				c.align = AlignBoth
			}
		}
		if textIndentRe.MatchString(style) {
			c.noIndent = true
		}
	}
	c.depth++
	return c
}

func (c convertContext) withList(kind ListKind) convertContext {
	level := 0
	if c.list != nil {
		level = c.list.level + 1
	}
	c.list = &listState{kind: kind, level: level}
	return c
}

func (c convertContext) hasClass(names ...string) bool {
	for _, have := range c.classes {
		for _, want := range names {
			if have == want {
				return true
			}
		}
	}
	return false
}

func (c convertContext) alignment() Alignment {
	if c.align != "" {
		return c.align
	}
	if c.hasClass(classAddress, classSignature) {
		return AlignLeft
	}
	return AlignBoth
}

func (c convertContext) spacingAfter() int {
	switch {
	case c.list != nil:
		return SpacingAfterListItem
	case c.hasClass(classMeta):
		return SpacingAfterMeta
	default:
		return SpacingAfterDefault
	}
}

func newParagraph(c convertContext, runs []Run) *Paragraph {
	p := &Paragraph{
		Runs:         runs,
		Alignment:    c.alignment(),
		SpacingAfter: c.spacingAfter(),
	}
	switch {
	case c.list != nil:
		p.Numbering = &NumberingRef{Kind: c.list.kind, Level: c.list.level}
	case !c.noIndent && !c.hasClass(nonIndentClasses...):
		p.FirstLineIndent = FirstLineIndent
	}
	return p
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "br": true, "cite": true, "code": true,
	"del": true, "em": true, "font": true, "i": true, "ins": true, "kbd": true,
	"label": true, "mark": true, "q": true, "s": true, "small": true, "span": true,
	"strike": true, "strong": true, "sub": true, "sup": true, "u": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "div": true,
	"figure": true, "footer": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true, "main": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true, "ul": true,
}

func isInline(n *Node) bool {
	return n.Type == TextNode || inlineTags[n.Tag]
}

func hasBlockChild(n *Node) bool {
	for _, c := range n.Children {
		if c.IsElement() && blockTags[c.Tag] {
			return true
		}
	}
	return false
}

// ConvertBlocks 将标记树转换为文档块序列
func ConvertBlocks(root *Node) []Block {
	return convertNodes(root.Children, convertContext{})
}

// convertNodes 连续的行内节点合并成一个段落，其余节点逐个分派
func convertNodes(nodes []*Node, c convertContext) []Block {
	var blocks []Block
	var inline []*Node
	flush := func() {
		if len(inline) > 0 {
			blocks = append(blocks, inlineBlocks(inline, c)...)
			inline = nil
		}
	}
	for _, n := range nodes {
		if isInline(n) {
			inline = append(inline, n)
			continue
		}
		flush()
		blocks = append(blocks, convertElement(n, c)...)
	}
	flush()
	return blocks
}

func inlineBlocks(nodes []*Node, c convertContext) []Block {
	runs := collectRuns(nodes, c.format, c.depth, nil)
	if hasText(runs) {
		return []Block{newParagraph(c, trimRuns(runs))}
	}
	// 只有换行的片段，每个换行输出一个空段落
	var blocks []Block
	for _, r := range runs {
		if r.Break {
			blocks = append(blocks, newParagraph(c, []Run{{}}))
		}
	}
	return blocks
}

func convertElement(n *Node, c convertContext) []Block {
	if c.depth >= maxDepth {
		return []Block{flatten(n, c)}
	}
	child := c.descend(n)

	switch n.Tag {
	case "div", "section", "article", "main", "header", "footer", "blockquote",
		"thead", "tbody", "tfoot", "tr":
		return convertNodes(n.Children, child)
	case "p":
		return []Block{newParagraph(child, buildRuns(n.Children, child.format, child.depth))}
	case "h1", "h2", "h3":
		p := newParagraph(child, buildRuns(n.Children, child.format, child.depth))
		p.Style = "Heading" + n.Tag[1:]
		return []Block{p}
	case "ul":
		return convertNodes(n.Children, child.withList(BulletList))
	case "ol":
		return convertNodes(n.Children, child.withList(OrderedList))
	case "li":
		return convertListItem(n, child)
	case "table":
		if t := convertTable(n, child); t != nil {
			return []Block{t}
		}
		return nil
	default:
		if hasBlockChild(n) {
			return convertNodes(n.Children, child)
		}
		return []Block{newParagraph(child, buildRuns(n.Children, child.format, child.depth))}
	}
}

// convertListItem 列表项的第一个本级段落带编号，其余本级段落作为续行缩进；
// 嵌套列表的段落保持各自的层级。
func convertListItem(n *Node, c convertContext) []Block {
	blocks := convertNodes(n.Children, c)
	if c.list == nil {
		return blocks
	}

	numbered := false
	for _, b := range blocks {
		p, ok := b.(*Paragraph)
		if !ok || p.Numbering == nil || p.Numbering.Level != c.list.level {
			continue
		}
		if !numbered {
			numbered = true
			continue
		}
		p.Numbering = nil
		p.IndentLeft = levelIndent(c.list.level)
	}
	if !numbered {
		blocks = append([]Block{newParagraph(c, []Run{{}})}, blocks...)
	}
	return blocks
}

func convertTable(n *Node, c convertContext) *Table {
	t := &Table{}
	// 单元格不继承外层列表
	c.list = nil

	addRow := func(tr *Node, rc convertContext, header bool) {
		row := TableRow{Header: header}
		cc := rc.descend(tr)
		for _, cell := range tr.Children {
			if cell.Tag != "td" && cell.Tag != "th" {
				continue
			}
			row.Cells = append(row.Cells, convertCell(cell, cc))
		}
		if len(row.Cells) > 0 {
			t.Rows = append(t.Rows, row)
		}
	}

	for _, section := range n.Children {
		switch section.Tag {
		case "tr":
			addRow(section, c, false)
		case "thead", "tbody", "tfoot":
			sc := c.descend(section)
			for _, tr := range section.Children {
				if tr.Tag == "tr" {
					addRow(tr, sc, section.Tag == "thead")
				}
			}
		}
	}
	if len(t.Rows) == 0 {
		return nil
	}
	return t
}

// convertCell 单元格内只保留段落，嵌套表格等被丢弃
func convertCell(cell *Node, c convertContext) TableCell {
	cc := c.descend(cell)
	var tc TableCell
	for _, b := range convertNodes(cell.Children, cc) {
		if p, ok := b.(*Paragraph); ok {
			tc.Paragraphs = append(tc.Paragraphs, p)
		}
	}
	if len(tc.Paragraphs) == 0 {
		tc.Paragraphs = []*Paragraph{newParagraph(cc, []Run{{}})}
	}
	return tc
}

// flatten 超过嵌套深度时把整个子树压成一个段落
func flatten(n *Node, c convertContext) *Paragraph {
	text := strings.TrimSpace(sanitizeText(n.TextContent()))
	return newParagraph(c, []Run{c.format.run(text)})
}
