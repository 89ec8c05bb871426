package constant

import (
	"errors"
	"net/http"

	"github.com/yockii/surat_hub/pkg/docgen"
	"github.com/yockii/surat_hub/pkg/pdfconv"
)

// 自定义错误
var (
	// 通用错误
	ErrInternalError    = errors.New("内部错误")
	ErrInvalidParams    = errors.New("参数错误")
	ErrDatabaseError    = errors.New("数据库错误")
	ErrDatabaseDisabled = errors.New("未配置数据库")
	ErrRecordNotFound   = errors.New("记录不存在")
	ErrCacheError       = errors.New("缓存错误")

	// 信件相关错误
	ErrContentRequired  = errors.New("contentMarkdown atau contentHtml wajib diisi")
	ErrTemplateNotFound = errors.New("模板不存在")
	ErrSequenceError    = errors.New("流水号生成失败")
)

// GetErrorCode 获取错误对应的HTTP状态码，按错误链匹配
func GetErrorCode(err error) int {
	var convErr *docgen.ConversionError
	switch {
	case err == nil:
		return http.StatusOK

	// 通用错误
	case errors.Is(err, ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDatabaseDisabled):
		return http.StatusNotImplemented

	// 信件相关错误
	case errors.Is(err, ErrContentRequired):
		return http.StatusBadRequest
	case errors.Is(err, ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, docgen.ErrMalformedDocument):
		// 生成的文档结构无效属于内部错误，即使包在转换错误里
		return http.StatusInternalServerError
	case errors.Is(err, docgen.ErrPlaceholderNotFound), errors.Is(err, docgen.ErrInvalidTemplate):
		return http.StatusUnprocessableEntity
	case errors.As(err, &convErr):
		return http.StatusBadRequest
	case errors.Is(err, pdfconv.ErrConverterUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
