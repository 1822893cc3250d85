package controllers

import (
	"github.com/gofiber/fiber/v2"

	"ossmanager_go/middleware"
	"ossmanager_go/services"
)

type StudentController struct {
	Service *services.AcademyService
}

func NewStudentController(svc *services.AcademyService) *StudentController {
	return &StudentController{Service: svc}
}

// GetStudents lists students, filtered by ?q= name query and ?status=
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	students := sc.Service.Students(c.Query("q"), c.Query("status"))
	return c.JSON(fiber.Map{
		"students": students,
		"total":    len(students),
	})
}

// GetStudent returns one student with their plan resolved
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	detail, err := sc.Service.StudentDetailByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"student": detail})
}

// CreateStudent enrolls a new student
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var input services.EnrollStudentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	student, err := sc.Service.EnrollStudent(input, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student enrolled successfully",
		"student": student,
	})
}

// UpdateStudent applies a partial profile update
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	var changes services.StudentProfileUpdate
	if err := c.BodyParser(&changes); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	student, err := sc.Service.UpdateStudentProfile(c.Params("id"), changes, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// GetStudentAttendances returns a student's check-in history
func (sc *StudentController) GetStudentAttendances(c *fiber.Ctx) error {
	if _, err := sc.Service.StudentByID(c.Params("id")); err != nil {
		return respondError(c, err)
	}

	all := sc.Service.Attendances(0)
	out := make([]services.AttendanceWithStudent, 0)
	for _, a := range all {
		if a.StudentID == c.Params("id") {
			out = append(out, a)
		}
	}
	return c.JSON(fiber.Map{
		"attendances": out,
		"total":       len(out),
	})
}
