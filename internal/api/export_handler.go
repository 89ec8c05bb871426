package api

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/yockii/surat_hub/internal/constant"
	"github.com/yockii/surat_hub/internal/service"
	"github.com/yockii/surat_hub/pkg/logger"
)

const (
	HeaderNoSurat      = "X-No-Surat"
	HeaderUnitPengirim = "X-Unit-Pengirim"
	HeaderRequestID    = "X-Request-Id"
	HeaderPageCount    = "X-Page-Count"
)

type ExportHandler struct {
	exportService service.ExportService
	limiter       fiber.Handler
}

// RegisterExportHandler limiter 为 nil 时不限流
func RegisterExportHandler(exportService service.ExportService, limiter fiber.Handler) {
	handler := &ExportHandler{
		exportService: exportService,
		limiter:       limiter,
	}
	Handlers = append(Handlers, handler)
}

func (h *ExportHandler) RegisterRoutes(router fiber.Router) {
	handlers := []fiber.Handler{}
	if h.limiter != nil {
		handlers = append(handlers, h.limiter)
	}
	router.Post("/export-docx", append(handlers, h.ExportDocx)...)
	router.Post("/export-pdf", append(handlers, h.ExportPdf)...)
}

func (h *ExportHandler) ExportDocx(c *fiber.Ctx) error {
	return h.export(c, service.ExportFormatDocx)
}

func (h *ExportHandler) ExportPdf(c *fiber.Ctx) error {
	return h.export(c, service.ExportFormatPDF)
}

func (h *ExportHandler) export(c *fiber.Ctx, format string) error {
	req := new(service.ExportRequest)
	if err := c.BodyParser(req); err != nil {
		logger.Warn("解析导出参数失败", logger.F("err", err))
		return sendError(c, constant.ErrInvalidParams)
	}
	req.RequestID = c.Get(HeaderRequestID)
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	c.Set(HeaderRequestID, req.RequestID)

	result, err := h.exportService.Export(c.Context(), req, format)
	if err != nil {
		logger.Error("导出信件失败",
			logger.F("requestId", req.RequestID),
			logger.F("format", format),
			logger.F("err", err),
		)
		return sendError(c, err)
	}

	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Set(HeaderNoSurat, result.Metadata.NoSurat)
	c.Set(HeaderUnitPengirim, result.Metadata.UnitPengirim)
	if format == service.ExportFormatPDF {
		c.Set(HeaderPageCount, strconv.Itoa(result.PageCount))
	}
	return c.Send(result.Data)
}
