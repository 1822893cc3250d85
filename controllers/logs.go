package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ossmanager_go/services"
)

type LogController struct {
	Service *services.AcademyService
}

func NewLogController(svc *services.AcademyService) *LogController {
	return &LogController{Service: svc}
}

// GetLogs retrieves the audit trail, newest entries first
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	logs, total := lc.Service.Logs(page, limit)

	return c.JSON(fiber.Map{
		"logs":        logs,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": (total + limit - 1) / limit,
	})
}
