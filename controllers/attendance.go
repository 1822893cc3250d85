package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ossmanager_go/middleware"
	"ossmanager_go/models"
	"ossmanager_go/services"
)

type AttendanceController struct {
	Service *services.AcademyService
}

func NewAttendanceController(svc *services.AcademyService) *AttendanceController {
	return &AttendanceController{Service: svc}
}

// GetAttendances lists check-ins, newest first, capped by ?limit=
func (ac *AttendanceController) GetAttendances(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "0"))
	attendances := ac.Service.Attendances(limit)
	return c.JSON(fiber.Map{
		"attendances": attendances,
		"total":       len(attendances),
	})
}

type checkInRequest struct {
	StudentID string `json:"student_id"`
	ClassType string `json:"class_type"`
}

// CreateCheckIn records a staff-entered check-in
func (ac *AttendanceController) CreateCheckIn(c *fiber.Ctx) error {
	var req checkInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	attendance, err := ac.Service.RecordCheckIn(req.StudentID, models.SourceStaff, req.ClassType, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Check-in recorded",
		"attendance": attendance,
	})
}
