package docgen

import (
	"regexp"
	"strings"
)

// Run 一段格式一致的文本，Break 为 true 时表示硬换行
type Run struct {
	Text      string
	Break     bool
	Bold      bool
	Italic    bool
	Underline bool
	Caps      bool
}

// runFormat 沿树向下继承的字符格式，只增不减
type runFormat struct {
	bold, italic, underline, caps bool
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	boldStyleRe   = regexp.MustCompile(`(?i)font-weight\s*:\s*(bold|bolder|[6-9]00)`)
	italicStyleRe = regexp.MustCompile(`(?i)font-style\s*:\s*(italic|oblique)`)
	underlineRe   = regexp.MustCompile(`(?i)text-decoration[a-z-]*\s*:[^;]*underline`)
)

func (f runFormat) with(n *Node) runFormat {
	switch n.Tag {
	case "strong", "b":
		f.bold = true
	case "em", "i":
		f.italic = true
	case "u", "ins":
		f.underline = true
	}
	if style := n.Attr("style"); style != "" {
		if boldStyleRe.MatchString(style) {
			f.bold = true
		}
		if italicStyleRe.MatchString(style) {
			f.italic = true
		}
		if underlineRe.MatchString(style) {
			f.underline = true
		}
	}
	if n.HasClass(classSignatureName) {
		f.caps = true
		f.bold = true
	}
	return f
}

func (f runFormat) run(text string) Run {
	return Run{Text: text, Bold: f.bold, Italic: f.italic, Underline: f.underline, Caps: f.caps}
}

// sanitizeText 换行、不间断空格视为空格，连续空白合并为一个。
// 实体已由解析器解码，这里不再二次解码。
func sanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return whitespaceRe.ReplaceAllString(s, " ")
}

// buildRuns 把一组行内节点转换为文本段，空内容时返回一个空文本段
func buildRuns(nodes []*Node, f runFormat, depth int) []Run {
	runs := trimRuns(collectRuns(nodes, f, depth, nil))
	if len(runs) == 0 {
		return []Run{{}}
	}
	return runs
}

func collectRuns(nodes []*Node, f runFormat, depth int, runs []Run) []Run {
	for _, n := range nodes {
		if n.Type == TextNode {
			text := sanitizeText(n.Text)
			// 相邻文本段之间只保留一个空格
			if endsWithSpace(runs) {
				text = strings.TrimLeft(text, " ")
			}
			if text == "" {
				continue
			}
			runs = append(runs, f.run(text))
			continue
		}
		if n.Tag == "br" {
			runs = append(runs, Run{Break: true})
			continue
		}
		if depth >= maxDepth {
			if text := sanitizeText(n.TextContent()); strings.TrimSpace(text) != "" {
				runs = append(runs, f.with(n).run(text))
			}
			continue
		}
		runs = collectRuns(n.Children, f.with(n), depth+1, runs)
	}
	return runs
}

func endsWithSpace(runs []Run) bool {
	if len(runs) == 0 {
		return true
	}
	last := runs[len(runs)-1]
	return last.Break || strings.HasSuffix(last.Text, " ")
}

// trimRuns 去掉段首、段尾的空白，去空后的文本段被丢弃
func trimRuns(runs []Run) []Run {
	for len(runs) > 0 && !runs[0].Break {
		runs[0].Text = strings.TrimLeft(runs[0].Text, " ")
		if runs[0].Text != "" {
			break
		}
		runs = runs[1:]
	}
	for len(runs) > 0 && !runs[len(runs)-1].Break {
		i := len(runs) - 1
		runs[i].Text = strings.TrimRight(runs[i].Text, " ")
		if runs[i].Text != "" {
			break
		}
		runs = runs[:i]
	}
	return runs
}

func hasText(runs []Run) bool {
	for _, r := range runs {
		if !r.Break && strings.TrimSpace(r.Text) != "" {
			return true
		}
	}
	return false
}
