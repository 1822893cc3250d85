package controllers

import (
	"github.com/gofiber/fiber/v2"

	"ossmanager_go/services"
)

type DashboardController struct {
	Service *services.AcademyService
}

func NewDashboardController(svc *services.AcademyService) *DashboardController {
	return &DashboardController{Service: svc}
}

// GetDashboard returns the landing-page stats
func (dc *DashboardController) GetDashboard(c *fiber.Ctx) error {
	return c.JSON(dc.Service.Dashboard())
}
