package controllers

import (
	"github.com/gofiber/fiber/v2"

	"ossmanager_go/middleware"
	"ossmanager_go/models"
	"ossmanager_go/services"
)

type SettingsController struct {
	Service *services.AcademyService
}

func NewSettingsController(svc *services.AcademyService) *SettingsController {
	return &SettingsController{Service: svc}
}

// GetPlans lists membership plans
func (sc *SettingsController) GetPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": sc.Service.Plans()})
}

type planRequest struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// CreatePlan adds a membership plan
func (sc *SettingsController) CreatePlan(c *fiber.Ctx) error {
	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	plan, err := sc.Service.DefinePlan(req.Name, req.Price, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Plan created successfully",
		"plan":    plan,
	})
}

// DeletePlan removes a plan without touching students that reference it
func (sc *SettingsController) DeletePlan(c *fiber.Ctx) error {
	if err := sc.Service.RemovePlan(c.Params("id"), middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Plan removed successfully"})
}

// GetSchedules lists the weekly class grid
func (sc *SettingsController) GetSchedules(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"schedules": sc.Service.Schedules()})
}

type scheduleRequest struct {
	Weekday   string `json:"weekday"`
	Time      string `json:"time"`
	ClassType string `json:"class_type"`
}

// CreateSchedule adds a class slot
func (sc *SettingsController) CreateSchedule(c *fiber.Ctx) error {
	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	schedule, err := sc.Service.DefineSchedule(req.Weekday, req.Time, req.ClassType, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Schedule slot created successfully",
		"schedule": schedule,
	})
}

// DeleteSchedule removes a class slot
func (sc *SettingsController) DeleteSchedule(c *fiber.Ctx) error {
	if err := sc.Service.RemoveSchedule(c.Params("id"), middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Schedule slot removed successfully"})
}

// GetUsers lists staff accounts without credentials
func (sc *SettingsController) GetUsers(c *fiber.Ctx) error {
	users := sc.Service.Users()
	out := make([]models.PublicUser, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return c.JSON(fiber.Map{"users": out})
}
