package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"ossmanager_go/models"
)

// respondError maps domain errors to HTTP statuses. Validation issues
// are the caller's fault, missing entities are 404, and persistence
// failures are logged and reported as 500 without leaking the cause.
func respondError(c *fiber.Ctx, err error) error {
	var notFound *models.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFound.Error(),
		})
	}

	var validation *models.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validation.Error(),
		})
	}

	var persistence *models.PersistenceError
	if errors.As(err, &persistence) {
		logrus.WithError(err).Error("Snapshot persistence failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save changes",
		})
	}

	logrus.WithError(err).Error("Unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
