package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/surat_hub/internal/service"
)

var Handlers []Handler

type Handler interface {
	RegisterRoutes(router fiber.Router)
}

// sendError 按错误类型写出状态码和通用响应
func sendError(c *fiber.Ctx, err error) error {
	resp := service.Error(err)
	return c.Status(resp.Code).JSON(resp)
}

// pageParams 读取分页参数
func pageParams(c *fiber.Ctx) (int, int) {
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit := c.QueryInt("limit", service.DefaultPageSize)
	if limit <= 0 {
		limit = service.DefaultPageSize
	}
	if limit > service.MaxPageSize {
		limit = service.MaxPageSize
	}
	return offset, limit
}
