package docgen

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var looksLikeHTMLRe = regexp.MustCompile(`(?i)</?[a-z][^>]*>`)

// LooksLikeHTML 内容中出现 HTML 标签即视为 HTML
func LooksLikeHTML(s string) bool {
	return looksLikeHTMLRe.MatchString(s)
}

// HtmlConverter 负责将Markdown转换为HTML，Markdown 中夹带的 HTML 原样保留
type HtmlConverter struct {
	md goldmark.Markdown
}

// NewHtmlConverter 创建一个新的HTML转换器
func NewHtmlConverter() *HtmlConverter {
	return &HtmlConverter{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM, // 表格、删除线、任务列表
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
				html.WithUnsafe(), // 允许原始HTML通过
			),
		),
	}
}

// ConvertMarkdownToHTML 将Markdown转换为HTML
func (c *HtmlConverter) ConvertMarkdownToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return strings.ReplaceAll(buf.String(), "<!-- raw HTML omitted -->", ""), nil
}
