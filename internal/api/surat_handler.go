package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/surat_hub/internal/constant"
	"github.com/yockii/surat_hub/internal/model"
	"github.com/yockii/surat_hub/internal/service"
	"github.com/yockii/surat_hub/pkg/logger"
)

type SuratHandler struct {
	metadataService service.MetadataService
	templateService service.TemplateService
	letterService   service.LetterService
}

func RegisterSuratHandler(
	metadataService service.MetadataService,
	templateService service.TemplateService,
	letterService service.LetterService,
) {
	handler := &SuratHandler{
		metadataService: metadataService,
		templateService: templateService,
		letterService:   letterService,
	}
	Handlers = append(Handlers, handler)
}

func (h *SuratHandler) RegisterRoutes(router fiber.Router) {
	r := router.Group("/surat")
	{
		r.Get("/metadata/preview", h.PreviewMetadata)
		r.Get("/templates", h.ListTemplates)
		r.Get("/letters", h.ListLetters)
		r.Get("/letters/get", h.GetLetter)
	}
}

func (h *SuratHandler) PreviewMetadata(c *fiber.Ctx) error {
	metadata, err := h.metadataService.Preview(c.Context())
	if err != nil {
		logger.Error("预览信件元数据失败", logger.F("err", err))
		return sendError(c, err)
	}
	return c.JSON(service.OK(metadata))
}

func (h *SuratHandler) ListTemplates(c *fiber.Ctx) error {
	return c.JSON(service.OK(h.templateService.List()))
}

func (h *SuratHandler) ListLetters(c *fiber.Ctx) error {
	condition := new(model.Letter)
	if err := c.QueryParser(condition); err != nil {
		return sendError(c, constant.ErrInvalidParams)
	}
	offset, limit := pageParams(c)

	list, total, err := h.letterService.List(c.Context(), condition, offset, limit)
	if err != nil {
		logger.Error("获取信件列表失败", logger.F("err", err))
		return sendError(c, err)
	}
	return c.JSON(service.OK(service.NewListResponse(list, total, offset, limit)))
}

func (h *SuratHandler) GetLetter(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil {
		return sendError(c, constant.ErrInvalidParams)
	}
	record, err := h.letterService.Get(c.Context(), id)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(service.OK(record))
}
