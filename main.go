package main

import (
	"log"
	"os"
	"path/filepath"

	"ossmanager_go/config"
	"ossmanager_go/middleware"
	"ossmanager_go/routes"
	"ossmanager_go/services"
	"ossmanager_go/services/websocket"
	"ossmanager_go/store"
	"ossmanager_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load configuration
	config.LoadConfig()

	// Initialize logging
	setupLogging()
}

func main() {
	// Open the snapshot store
	if dir := filepath.Dir(config.AppConfig.SnapshotPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal("Failed to create data directory:", err)
		}
	}

	blob, err := store.OpenGormBlobStore(config.AppConfig.SnapshotPath)
	if err != nil {
		log.Fatal("Failed to open snapshot database:", err)
	}

	adminHash, err := utils.HashPassword(config.AppConfig.DefaultAdminPassword)
	if err != nil {
		log.Fatal("Failed to hash default admin password:", err)
	}

	snapshots, err := store.Open(blob, config.AppConfig.SnapshotKey, store.DefaultSnapshot(adminHash))
	if err != nil {
		log.Fatal("Failed to load snapshot:", err)
	}

	// Create WebSocket hub first
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Domain services
	audit := store.NewAuditLogger(snapshots)
	academy := services.NewAcademyService(snapshots)
	academy.SetWebSocketHub(wsHub)

	// Start the overdue sweeper after the store is ready
	overdue := services.NewOverdueService(academy, config.AppConfig.OverdueAfterDays, config.AppConfig.OverdueCronSpec)
	if err := overdue.Start(); err != nil {
		log.Fatal("Failed to start overdue sweeper:", err)
	}
	defer overdue.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Custom middleware
	app.Use(middleware.LoggerMiddleware())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "OSS Jiu-Jitsu API",
			"version": "1.0.0",
		})
	})

	// API routes
	routes.SetupRoutes(app, academy, audit, wsHub)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "Route not found",
			"path":   c.Path(),
			"method": c.Method(),
		})
	})

	port := ":" + config.AppConfig.Port
	log.Printf("Server starting on port %s", config.AppConfig.Port)
	log.Printf("Environment: %s", config.AppConfig.AppEnv)

	if err := app.Listen(port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// setupLogging configures the logging system
func setupLogging() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(config.AppConfig.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// Log to stdout in development, to file otherwise
	if config.AppConfig.AppEnv == "development" {
		logrus.SetOutput(os.Stdout)
		return
	}
	if err := os.MkdirAll(filepath.Dir(config.AppConfig.LogFile), 0755); err != nil {
		log.Printf("Warning: Could not create logs directory: %v", err)
		return
	}
	file, err := os.OpenFile(config.AppConfig.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		logrus.SetOutput(file)
	}
}

// customErrorHandler handles application errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	logrus.WithFields(logrus.Fields{
		"error":  err.Error(),
		"path":   c.Path(),
		"method": c.Method(),
		"ip":     c.IP(),
		"status": code,
	}).Error("Request error")

	return c.Status(code).JSON(fiber.Map{
		"error":  message,
		"code":   code,
		"path":   c.Path(),
		"method": c.Method(),
	})
}
