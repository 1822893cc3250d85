package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"ossmanager_go/middleware"
	"ossmanager_go/services"
	"ossmanager_go/store"
	"ossmanager_go/utils"
)

type AuthController struct {
	Service *services.AcademyService
	Audit   *store.AuditLogger
}

func NewAuthController(svc *services.AcademyService, audit *store.AuditLogger) *AuthController {
	return &AuthController{Service: svc, Audit: audit}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a staff account and issues a JWT
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	user, err := ac.Service.UserByEmail(req.Email)
	if err != nil {
		// Same response as a wrong password so probes cannot tell
		// accounts apart.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	ac.Audit.Record(fmt.Sprintf("Login: %s", user.Name), user.ID)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user.Public(),
	})
}

// GetProfile returns the authenticated user's account
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
	return c.JSON(fiber.Map{"user": user.Public()})
}
