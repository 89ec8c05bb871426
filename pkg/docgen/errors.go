package docgen

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument document.xml 中找不到 w:body
	ErrMalformedDocument = errors.New("文档结构无效: 缺少 w:body")
	// ErrPlaceholderNotFound 模板正文中没有 {{content}} 占位符
	ErrPlaceholderNotFound = errors.New("模板中未找到 {{content}} 占位符")
	// ErrInvalidTemplate 模板不是合法的 DOCX 包
	ErrInvalidTemplate = errors.New("无效的 DOCX 模板")
)

// 内容来源格式
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// ConversionError 内容转换阶段的失败
type ConversionError struct {
	Format string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s 内容转换失败: %v", e.Format, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
