package docgen

import (
	"encoding/xml"
	"io"
	"regexp"
	"strings"
)

const maxTrimmedParagraphs = 5

var (
	bodyOpenRe        = regexp.MustCompile(`<w:body(?:\s[^>]*)?>`)
	bodyEmptyRe       = regexp.MustCompile(`<w:body(?:\s[^>]*)?/>`)
	sectPrPairRe      = regexp.MustCompile(`(?s)<w:sectPr(?:\s[^>]*)?>.*?</w:sectPr>`)
	sectPrSelfCloseRe = regexp.MustCompile(`<w:sectPr(?:\s[^>]*)?/>`)
	runTextRe         = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
	embeddedObjectRe  = regexp.MustCompile(`<w:(?:drawing|object|pict)[\s>/]`)
)

// ExtractBody 取出 w:body 的内部内容并去掉所有 w:sectPr
func ExtractBody(documentXML string) (string, error) {
	loc := bodyOpenRe.FindStringIndex(documentXML)
	if loc == nil {
		if bodyEmptyRe.MatchString(documentXML) {
			return "", nil
		}
		return "", ErrMalformedDocument
	}
	end := strings.LastIndex(documentXML, "</w:body>")
	if end < loc[1] {
		return "", ErrMalformedDocument
	}

	inner := documentXML[loc[1]:end]
	// 先去掉自闭合形式，避免成对匹配越界
	inner = sectPrSelfCloseRe.ReplaceAllString(inner, "")
	inner = sectPrPairRe.ReplaceAllString(inner, "")
	return strings.TrimSpace(inner), nil
}

// splitTopLevel 按顶层元素切分片段
func splitTopLevel(fragment string) ([]string, error) {
	d := xml.NewDecoder(strings.NewReader(fragment))
	var parts []string
	depth := 0
	var start int64
	for {
		offset := d.InputOffset()
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				start = offset
			}
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				parts = append(parts, fragment[start:d.InputOffset()])
			}
		}
	}
	return parts, nil
}

func isParagraph(element string) bool {
	if !strings.HasPrefix(element, "<w:p") || len(element) < 5 {
		return false
	}
	switch element[4] {
	case '>', '/', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// isEmptyParagraph 没有可见文本且不含图片、对象的段落
func isEmptyParagraph(element string) bool {
	if !isParagraph(element) || embeddedObjectRe.MatchString(element) {
		return false
	}
	for _, m := range runTextRe.FindAllStringSubmatch(element, -1) {
		if strings.TrimSpace(m[1]) != "" {
			return false
		}
	}
	return true
}

// TrimEmptyParagraphs 去掉片段首尾各最多 5 个空段落，但至少保留一个元素
func TrimEmptyParagraphs(fragment string) string {
	parts, err := splitTopLevel(fragment)
	if err != nil || len(parts) <= 1 {
		return fragment
	}

	head := 0
	for head < len(parts)-1 && head < maxTrimmedParagraphs && isEmptyParagraph(parts[head]) {
		head++
	}
	tail := len(parts)
	for tail-1 > head && len(parts)-tail < maxTrimmedParagraphs && isEmptyParagraph(parts[tail-1]) {
		tail--
	}
	if head == 0 && tail == len(parts) {
		return fragment
	}
	return strings.Join(parts[head:tail], "")
}
