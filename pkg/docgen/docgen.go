package docgen

import (
	"context"
	"fmt"
	"regexp"

	"github.com/yockii/surat_hub/pkg/logger"
)

var headerFooterPartRe = regexp.MustCompile(`^word/(header|footer)\d*\.xml$`)

// Fragment 一次转换的产物：正文片段以及它依赖的样式和编号定义
type Fragment struct {
	Body      string
	Styles    []byte
	Numbering []byte
}

// DocGenerator Word文档生成器，无状态，可并发使用
type DocGenerator struct {
	converter *HtmlConverter
}

// NewDocGenerator 创建一个新的Word文档生成器
func NewDocGenerator() *DocGenerator {
	return &DocGenerator{
		converter: NewHtmlConverter(),
	}
}

// MarkdownToHTML Markdown 先转为 HTML，之后与 HTML 输入走同一条路径
func (g *DocGenerator) MarkdownToHTML(source string) (string, error) {
	out, err := g.converter.ConvertMarkdownToHTML(source)
	if err != nil {
		return "", &ConversionError{Format: FormatMarkdown, Err: err}
	}
	return out, nil
}

// ConvertMarkdown 转换 Markdown 内容
func (g *DocGenerator) ConvertMarkdown(ctx context.Context, source string) (*Fragment, error) {
	html, err := g.MarkdownToHTML(source)
	if err != nil {
		return nil, err
	}
	return g.convert(ctx, html, FormatMarkdown)
}

// ConvertHTML 转换 HTML 内容为正文片段
func (g *DocGenerator) ConvertHTML(ctx context.Context, markup string) (*Fragment, error) {
	return g.convert(ctx, markup, FormatHTML)
}

func (g *DocGenerator) convert(ctx context.Context, markup, format string) (frag *Fragment, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("内容转换异常", logger.F("format", format), logger.F("panic", r))
			frag, err = nil, &ConversionError{Format: format, Err: fmt.Errorf("%v", r)}
		}
	}()

	blocks := ConvertBlocks(ParseMarkup(markup))
	docx, err := AssembleDocument(blocks)
	if err != nil {
		return nil, &ConversionError{Format: format, Err: err}
	}

	pkg, err := OpenPackage(docx)
	if err != nil {
		return nil, &ConversionError{Format: format, Err: err}
	}
	documentXML, _ := pkg.Get(DocumentPart)
	body, err := ExtractBody(string(documentXML))
	if err != nil {
		return nil, &ConversionError{Format: format, Err: err}
	}
	styles, _ := pkg.Get(StylesPart)
	numbering, _ := pkg.Get(NumberingPart)

	logger.Debug("内容转换完成", logger.F("format", format), logger.F("blocks", len(blocks)))
	return &Fragment{
		Body:      TrimEmptyParagraphs(body),
		Styles:    styles,
		Numbering: numbering,
	}, nil
}

// Compose 把字段和正文片段写入模板，返回新的 DOCX 字节。模板字节不会被修改。
func (g *DocGenerator) Compose(template []byte, fields Fields, fragment *Fragment) ([]byte, error) {
	pkg, err := OpenPackage(template)
	if err != nil {
		return nil, err
	}

	// 先定位正文位置再替换字段，字段值无法改变正文插入点
	documentXML, _ := pkg.Get(DocumentPart)
	before, after, err := SplitAtContent(JoinSplitPlaceholders(string(documentXML)))
	if err != nil {
		return nil, err
	}
	doc, err := SpliceContent(SubstituteFields(before, fields), SubstituteFields(after, fields), fragment.Body)
	if err != nil {
		return nil, err
	}
	pkg.Set(DocumentPart, []byte(doc))

	// 页眉页脚里的字段同样替换
	for _, name := range pkg.Names() {
		if !headerFooterPartRe.MatchString(name) {
			continue
		}
		data, _ := pkg.Get(name)
		pkg.Set(name, []byte(SubstituteFields(JoinSplitPlaceholders(string(data)), fields)))
	}

	if err := g.mergePart(pkg, StylesPart, fragment.Styles, MergeStyles, stylesContentType, stylesRelType); err != nil {
		return nil, err
	}
	if err := g.mergePart(pkg, NumberingPart, fragment.Numbering, MergeNumbering, numberingCT, numberingRelType); err != nil {
		return nil, err
	}

	return pkg.Bytes()
}

func (g *DocGenerator) mergePart(pkg *Package, name string, addition []byte,
	merge func(base, addition []byte) ([]byte, error), contentType, relType string) error {
	if len(addition) == 0 {
		return nil
	}
	base, existed := pkg.Get(name)
	merged, err := merge(base, addition)
	if err != nil {
		return fmt.Errorf("合并 %s 失败: %w", name, err)
	}
	pkg.Set(name, merged)
	if !existed {
		return pkg.RegisterPart(name, contentType, relType)
	}
	return nil
}
