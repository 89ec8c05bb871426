package api

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

type HealthHandler struct {
	startedAt time.Time
}

func RegisterHealthHandler() {
	Handlers = append(Handlers, &HealthHandler{startedAt: time.Now()})
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.Health)
}

// Health 返回服务状态，主机指标读取失败时省略
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":     "ok",
		"time":       time.Now().UTC().Format(time.RFC3339),
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
		"goroutines": runtime.NumGoroutine(),
	}
	if vm, err := mem.VirtualMemoryWithContext(c.Context()); err == nil {
		resp["memory"] = fiber.Map{
			"total":       vm.Total,
			"used":        vm.Used,
			"usedPercent": vm.UsedPercent,
		}
	}
	if avg, err := load.AvgWithContext(c.Context()); err == nil {
		resp["load"] = fiber.Map{
			"load1":  avg.Load1,
			"load5":  avg.Load5,
			"load15": avg.Load15,
		}
	}
	return c.JSON(resp)
}
