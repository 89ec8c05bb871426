package docgen

import (
	"regexp"
	"strings"
)

// ContentField 正文占位符的字段名，不参与普通字段替换
const ContentField = "content"

// Fields 模板字段，导出过程中只读
type Fields map[string]string

var (
	contentPlaceholderRe = regexp.MustCompile(`\{\{\s*content\s*\}\}`)
	splitPlaceholderRe   = regexp.MustCompile(`\{(?:<[^>]+>)*\{(?:[^{}<]|<[^>]+>)*?\}(?:<[^>]+>)*\}`)
	placeholderRe        = regexp.MustCompile(`^\{\{\s*[A-Za-z0-9_]+\s*\}\}$`)
	fieldPlaceholderRe   = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)
	xmlTagRe             = regexp.MustCompile(`<[^>]+>`)
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML 转义 XML 的五个特殊字符
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// JoinSplitPlaceholders 合并被 Word 拆到多个 run 中的占位符，
// 合并后的文本保留在第一个 run 里。跨段落或标签不配平的不处理。
func JoinSplitPlaceholders(documentXML string) string {
	return splitPlaceholderRe.ReplaceAllStringFunc(documentXML, func(m string) string {
		if !strings.Contains(m, "<") || strings.Contains(m, "</w:p>") {
			return m
		}
		joined := xmlTagRe.ReplaceAllString(m, "")
		if !placeholderRe.MatchString(joined) || !tagsBalanced(m) {
			return m
		}
		return joined
	})
}

func tagsBalanced(s string) bool {
	depth := 0
	for _, tag := range xmlTagRe.FindAllString(s, -1) {
		switch {
		case strings.HasSuffix(tag, "/>"):
		case strings.HasPrefix(tag, "</"):
			depth--
		default:
			depth++
		}
	}
	return depth == 0
}

// SubstituteFields 一次扫描替换 {{name}} 形式的字段，花括号内允许空白。
// 未提供值的占位符原样保留，content 字段由 InjectContent 处理。替换进去的值不会被再次扫描。
func SubstituteFields(documentXML string, fields Fields) string {
	if len(fields) == 0 {
		return documentXML
	}
	return fieldPlaceholderRe.ReplaceAllStringFunc(documentXML, func(m string) string {
		name := fieldPlaceholderRe.FindStringSubmatch(m)[1]
		value, ok := fields[name]
		if !ok || name == ContentField {
			return m
		}
		return EscapeXML(value)
	})
}

// SplitAtContent 在第一个 {{content}} 处把文档切成前后两段，占位符本身不保留。
// 后段中其余的 {{content}} 统一为原始写法。
func SplitAtContent(documentXML string) (before, after string, err error) {
	loc := contentPlaceholderRe.FindStringIndex(documentXML)
	if loc == nil {
		return "", "", ErrPlaceholderNotFound
	}
	after = contentPlaceholderRe.ReplaceAllLiteralString(documentXML[loc[1]:], "{{"+ContentField+"}}")
	return documentXML[:loc[0]], after, nil
}

// InjectContent 用正文片段整体替换 {{content}} 所在的段落。
// 只替换第一个占位符，其余的恢复为原始文本。
func InjectContent(documentXML, fragment string) (string, error) {
	before, after, err := SplitAtContent(documentXML)
	if err != nil {
		return "", err
	}
	return SpliceContent(before, after, fragment)
}

// SpliceContent 用正文片段替换切分点所在的整个段落。
// 切分点由位置决定，前后两段的内容不会影响它。
func SpliceContent(before, after, fragment string) (string, error) {
	start := paragraphStart(before, len(before))
	closeAt := strings.Index(after, "</w:p>")
	if start < 0 || closeAt < 0 {
		return "", ErrPlaceholderNotFound
	}
	rest := after[closeAt+len("</w:p>"):]

	replacement := fragment
	if closesTableCell(rest) && !endsWithParagraph(fragment) {
		replacement += "<w:p/>"
	}
	return before[:start] + replacement + rest, nil
}

// paragraphStart 向前找到包含 pos 的 <w:p> 或 <w:p ...> 起始位置，
// 跳过 <w:pPr>、<w:proofErr> 之类同前缀的元素
func paragraphStart(s string, pos int) int {
	for i := pos; i > 0; {
		j := strings.LastIndex(s[:i], "<w:p")
		if j < 0 {
			return -1
		}
		if j+4 < len(s) {
			switch s[j+4] {
			case '>', ' ', '\t', '\r', '\n':
				return j
			}
		}
		i = j
	}
	return -1
}

func closesTableCell(rest string) bool {
	return strings.HasPrefix(strings.TrimSpace(rest), "</w:tc>")
}

// endsWithParagraph 单元格必须以段落结尾
func endsWithParagraph(fragment string) bool {
	parts, err := splitTopLevel(fragment)
	if err != nil {
		return strings.HasSuffix(strings.TrimSpace(fragment), "</w:p>")
	}
	return len(parts) > 0 && isParagraph(parts[len(parts)-1])
}
