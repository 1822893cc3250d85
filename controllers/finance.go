package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"ossmanager_go/middleware"
	"ossmanager_go/services"
)

type FinanceController struct {
	Service *services.AcademyService
}

func NewFinanceController(svc *services.AcademyService) *FinanceController {
	return &FinanceController{Service: svc}
}

// GetSummary returns cashier totals and the overdue count
func (fc *FinanceController) GetSummary(c *fiber.Ctx) error {
	return c.JSON(fc.Service.Summary())
}

// GetPayments lists all payments, most recent first
func (fc *FinanceController) GetPayments(c *fiber.Ctx) error {
	payments := fc.Service.Payments()
	return c.JSON(fiber.Map{
		"payments": payments,
		"total":    len(payments),
	})
}

// CreatePayment records a payment; the student's overdue flag clears
// as part of the same operation
func (fc *FinanceController) CreatePayment(c *fiber.Ctx) error {
	var input services.RecordPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	payment, err := fc.Service.RecordPayment(input, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment recorded successfully",
		"payment": payment,
	})
}

type overdueRequest struct {
	Overdue bool `json:"overdue"`
}

// SetOverdue toggles a student's overdue flag by hand
func (fc *FinanceController) SetOverdue(c *fiber.Ctx) error {
	var req overdueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	student, err := fc.Service.SetOverdue(c.Params("id"), req.Overdue, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Overdue flag updated",
		"student": student,
	})
}

// ExportPayments streams the full payment ledger as an xlsx workbook
func (fc *FinanceController) ExportPayments(c *fiber.Ctx) error {
	payments := fc.Service.Payments()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Student", "Amount", "Method"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	// Export oldest first so the ledger reads top to bottom.
	row := 2
	for i := len(payments) - 1; i >= 0; i-- {
		p := payments[i]
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Date)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.StudentName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Amount)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), string(p.Method))
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate export",
		})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename=payments.xlsx")
	return c.Send(buf.Bytes())
}
