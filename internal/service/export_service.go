package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/yockii/surat_hub/internal/constant"
	"github.com/yockii/surat_hub/internal/model"
	"github.com/yockii/surat_hub/pkg/docgen"
	"github.com/yockii/surat_hub/pkg/logger"
	"github.com/yockii/surat_hub/pkg/pdfconv"
)

const (
	ExportFormatDocx = "docx"
	ExportFormatPDF  = "pdf"

	PdfMimeType = "application/pdf"
)

// ExportRequest 导出请求。content 为旧字段，按内容自动判断是 HTML 还是 Markdown
type ExportRequest struct {
	TemplateID      string            `json:"templateId"`
	Content         string            `json:"content"`
	ContentMarkdown string            `json:"contentMarkdown"`
	ContentHTML     string            `json:"contentHtml"`
	Fields          map[string]string `json:"fields"`
	RequestID       string            `json:"-"`
}

// ExportResult 导出结果
type ExportResult struct {
	Data        []byte
	FileName    string
	ContentType string
	TemplateID  string
	Metadata    *model.SuratMetadata
	PageCount   int
}

type exportService struct {
	generator *docgen.DocGenerator
	templates TemplateService
	metadata  MetadataService
	letters   LetterService
	pdf       pdfconv.Converter
	policy    *bluemonday.Policy
}

// NewExportService letters 和 pdf 可以为 nil
func NewExportService(
	templates TemplateService,
	metadata MetadataService,
	letters LetterService,
	pdf pdfconv.Converter,
) ExportService {
	return &exportService{
		generator: docgen.NewDocGenerator(),
		templates: templates,
		metadata:  metadata,
		letters:   letters,
		pdf:       pdf,
		policy:    newContentPolicy(),
	}
}

// newContentPolicy 编辑器输出的HTML白名单，保留排版用到的 class 和少量行内样式
func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowStyles("font-weight", "font-style", "text-decoration", "text-align", "text-indent").Globally()
	return p
}

// contentSource 选出内容来源，优先级：contentMarkdown > contentHtml > content
func contentSource(req *ExportRequest) (string, string) {
	if strings.TrimSpace(req.ContentMarkdown) != "" {
		return req.ContentMarkdown, docgen.FormatMarkdown
	}
	if strings.TrimSpace(req.ContentHTML) != "" {
		return req.ContentHTML, docgen.FormatHTML
	}
	if strings.TrimSpace(req.Content) != "" {
		if docgen.LooksLikeHTML(req.Content) {
			return req.Content, docgen.FormatHTML
		}
		return req.Content, docgen.FormatMarkdown
	}
	return "", ""
}

func (s *exportService) convert(ctx context.Context, source, format string) (*docgen.Fragment, error) {
	markup := source
	if format == docgen.FormatMarkdown {
		html, err := s.generator.MarkdownToHTML(source)
		if err != nil {
			return nil, err
		}
		markup = html
	}
	return s.generator.ConvertHTML(ctx, s.policy.Sanitize(markup))
}

// Export 生成信件。流水号在内容转换和模板读取成功之后才占用
func (s *exportService) Export(ctx context.Context, req *ExportRequest, format string) (*ExportResult, error) {
	if format != ExportFormatDocx && format != ExportFormatPDF {
		return nil, fmt.Errorf("%w: format %s", constant.ErrInvalidParams, format)
	}
	source, contentFormat := contentSource(req)
	if source == "" {
		return nil, constant.ErrContentRequired
	}

	fragment, err := s.convert(ctx, source, contentFormat)
	if err != nil {
		return nil, err
	}

	templateID, _ := s.templates.Resolve(req.TemplateID)
	template, err := s.templates.Load(templateID)
	if err != nil {
		return nil, err
	}

	if format == ExportFormatPDF && s.pdf == nil {
		return nil, pdfconv.ErrConverterUnavailable
	}

	meta, err := s.metadata.Claim(ctx)
	if err != nil {
		return nil, err
	}

	fields := docgen.Fields(meta.Fields())
	for k, v := range req.Fields {
		if k == docgen.ContentField {
			continue
		}
		fields[k] = v
	}

	docx, err := s.generator.Compose(template, fields, fragment)
	if err != nil {
		logger.Error("生成文档失败",
			logger.F("requestId", req.RequestID),
			logger.F("noSurat", meta.NoSurat),
			logger.F("err", err),
		)
		return nil, err
	}

	result := &ExportResult{
		Data:        docx,
		FileName:    "surat.docx",
		ContentType: docgen.DocxMimeType,
		TemplateID:  templateID,
		Metadata:    meta,
	}

	if format == ExportFormatPDF {
		pdf, err := s.pdf.Convert(ctx, docx)
		if err != nil {
			return nil, err
		}
		result.Data = pdf
		result.FileName = "surat.pdf"
		result.ContentType = PdfMimeType
		if pages, err := pdfconv.PageCount(pdf); err != nil {
			logger.Warn("读取PDF页数失败", logger.F("requestId", req.RequestID), logger.F("err", err))
		} else {
			result.PageCount = pages
		}
	}

	s.archive(ctx, req, format, contentFormat, result)

	logger.Info("信件导出完成",
		logger.F("requestId", req.RequestID),
		logger.F("noSurat", meta.NoSurat),
		logger.F("template", templateID),
		logger.F("format", format),
		logger.F("bytes", len(result.Data)),
	)
	return result, nil
}

// archive 存档失败不影响导出
func (s *exportService) archive(ctx context.Context, req *ExportRequest, format, contentFormat string, result *ExportResult) {
	if s.letters == nil {
		return
	}
	meta := result.Metadata
	record := &model.Letter{
		NoSurat:       meta.NoSurat,
		TemplateID:    result.TemplateID,
		Format:        format,
		ContentFormat: contentFormat,
		UnitPengirim:  meta.UnitPengirim,
		TanggalTerbit: meta.TanggalTerbit,
		Penandatangan: meta.Penandatangan.Nama,
		RequestID:     req.RequestID,
		SizeBytes:     len(result.Data),
		PageCount:     result.PageCount,
	}
	if err := s.letters.Create(ctx, record); err != nil && !errors.Is(err, constant.ErrDatabaseDisabled) {
		logger.Error("信件存档失败", logger.F("noSurat", meta.NoSurat), logger.F("err", err))
	}
}
