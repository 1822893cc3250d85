package controllers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"ossmanager_go/config"
	"ossmanager_go/models"
	"ossmanager_go/services"
	"ossmanager_go/store"
)

// KioskController backs the unauthenticated lobby tablet. It exposes
// only the roster fields the kiosk screen needs.
type KioskController struct {
	Service *services.AcademyService
	Audit   *store.AuditLogger
}

func NewKioskController(svc *services.AcademyService, audit *store.AuditLogger) *KioskController {
	return &KioskController{Service: svc, Audit: audit}
}

type kioskStudent struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Photo   string      `json:"photo,omitempty"`
	Belt    models.Belt `json:"belt"`
	Overdue bool        `json:"overdue"`
}

// GetRoster lists active students by name for the check-in screen
func (kc *KioskController) GetRoster(c *fiber.Ctx) error {
	students := kc.Service.ActiveStudentsSorted()
	roster := make([]kioskStudent, len(students))
	for i, s := range students {
		roster[i] = kioskStudent{ID: s.ID, Name: s.Name, Photo: s.Photo, Belt: s.Belt, Overdue: s.Overdue}
	}
	return c.JSON(fiber.Map{"students": roster})
}

type kioskCheckInRequest struct {
	StudentID string `json:"student_id"`
	ClassType string `json:"class_type"`
}

// CheckIn records a self-service check-in attributed to the system
func (kc *KioskController) CheckIn(c *fiber.Ctx) error {
	var req kioskCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	attendance, err := kc.Service.RecordCheckIn(req.StudentID, models.SourceKiosk, req.ClassType, models.SystemUserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Welcome to class",
		"attendance": attendance,
	})
}

type kioskExitRequest struct {
	PIN string `json:"pin"`
}

// Exit gates leaving kiosk mode behind the staff PIN
func (kc *KioskController) Exit(c *fiber.Ctx) error {
	var req kioskExitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if subtle.ConstantTimeCompare([]byte(req.PIN), []byte(config.AppConfig.KioskPIN)) != 1 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Wrong PIN",
		})
	}

	kc.Audit.Record("Kiosk mode exited", models.SystemUserID)

	return c.JSON(fiber.Map{"message": "Kiosk mode exited"})
}
