package service

import (
	"context"
	"net/http"
	"time"

	"github.com/yockii/surat_hub/internal/constant"
	"github.com/yockii/surat_hub/internal/model"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Clock 当前时间来源，测试中替换为固定时间
type Clock func() time.Time

// SequenceService 按月重置的信件流水号
type SequenceService interface {
	// ClaimNext 原子地占用并返回本月下一个流水号
	ClaimNext(ctx context.Context, t time.Time) (int, error)
	// PeekNext 返回下一个流水号，不占用
	PeekNext(ctx context.Context, t time.Time) (int, error)
}

type MetadataService interface {
	Preview(ctx context.Context) (*model.SuratMetadata, error)
	Claim(ctx context.Context) (*model.SuratMetadata, error)
}

type TemplateService interface {
	// Resolve 模板ID对应的文件路径，未知ID回落到默认模板
	Resolve(templateID string) (string, string)
	Load(templateID string) ([]byte, error)
	List() []string
}

type ExportService interface {
	Export(ctx context.Context, req *ExportRequest, format string) (*ExportResult, error)
}

type LetterService interface {
	Create(ctx context.Context, record *model.Letter) error
	Get(ctx context.Context, id uint64) (*model.Letter, error)
	List(ctx context.Context, condition *model.Letter, offset, limit int) ([]*model.Letter, int64, error)
}

// /////////////////////////////
// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func OK(data interface{}) *Response {
	return NewResponse(data, nil)
}

func Error(err error) *Response {
	return NewResponse(nil, err)
}

// NewResponse 创建响应
func NewResponse(data interface{}, err error) *Response {
	if err == nil {
		return &Response{
			Code:    http.StatusOK,
			Message: "success",
			Data:    data,
		}
	}

	return &Response{
		Code:    constant.GetErrorCode(err),
		Message: err.Error(),
		Data:    data,
	}
}

// ListResponse 列表响应结构
type ListResponse struct {
	Total  int64       `json:"total"`
	Items  interface{} `json:"items"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

// NewListResponse 创建列表响应
func NewListResponse(items interface{}, total int64, offset, limit int) *ListResponse {
	return &ListResponse{
		Total:  total,
		Items:  items,
		Offset: offset,
		Limit:  limit,
	}
}
