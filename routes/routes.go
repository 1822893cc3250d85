package routes

import (
	"ossmanager_go/controllers"
	"ossmanager_go/middleware"
	"ossmanager_go/services"
	"ossmanager_go/services/websocket"
	"ossmanager_go/store"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, svc *services.AcademyService, audit *store.AuditLogger, wsHub *websocket.Hub) {
	// Initialize controllers
	authController := controllers.NewAuthController(svc, audit)
	studentController := controllers.NewStudentController(svc)
	financeController := controllers.NewFinanceController(svc)
	attendanceController := controllers.NewAttendanceController(svc)
	kioskController := controllers.NewKioskController(svc, audit)
	settingsController := controllers.NewSettingsController(svc)
	dashboardController := controllers.NewDashboardController(svc)
	logController := controllers.NewLogController(svc)

	// API group
	api := app.Group("/api")

	// Public routes (no authentication required)
	// The kiosk tablet runs unauthenticated in the lobby.
	kiosk := api.Group("/kiosk")
	kiosk.Get("/students", kioskController.GetRoster)
	kiosk.Post("/check-ins", kioskController.CheckIn)
	kiosk.Post("/exit", kioskController.Exit)

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(svc), authController.GetProfile)

	// Live check-in feed for the lobby display
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/checkins", fiberws.New(controllers.CheckInFeedHandler(wsHub)))

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware(svc))

	// Profile and dashboard
	protected.Get("/profile", authController.GetProfile)
	protected.Get("/dashboard", dashboardController.GetDashboard)

	// Student management routes
	students := protected.Group("/students", middleware.RequireStaff())
	students.Get("/", studentController.GetStudents)
	students.Get("/:id", studentController.GetStudent)
	students.Post("/", studentController.CreateStudent)
	students.Put("/:id", studentController.UpdateStudent)
	students.Patch("/:id", studentController.UpdateStudent)
	students.Get("/:id/attendances", studentController.GetStudentAttendances)
	students.Patch("/:id/overdue", financeController.SetOverdue)

	// Finance routes
	finance := protected.Group("/finance", middleware.RequireStaff())
	finance.Get("/summary", financeController.GetSummary)
	finance.Get("/payments", financeController.GetPayments)
	finance.Post("/payments", financeController.CreatePayment)
	finance.Get("/payments/export", financeController.ExportPayments)

	// Attendance routes
	attendances := protected.Group("/attendances")
	attendances.Get("/", attendanceController.GetAttendances)
	attendances.Post("/", middleware.RequireStaff(), attendanceController.CreateCheckIn)

	// Settings routes (plans, schedules, staff accounts)
	settings := protected.Group("/settings")
	settings.Get("/plans", settingsController.GetPlans)
	settings.Post("/plans", middleware.RequireAdmin(), settingsController.CreatePlan)
	settings.Delete("/plans/:id", middleware.RequireAdmin(), settingsController.DeletePlan)
	settings.Get("/schedules", settingsController.GetSchedules)
	settings.Post("/schedules", middleware.RequireAdmin(), settingsController.CreateSchedule)
	settings.Delete("/schedules/:id", middleware.RequireAdmin(), settingsController.DeleteSchedule)
	settings.Get("/users", middleware.RequireAdmin(), settingsController.GetUsers)

	// Audit log routes
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetLogs)
}
