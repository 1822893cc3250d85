package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port   string
	AppEnv string

	// Snapshot persistence
	SnapshotPath string
	SnapshotKey  string

	// JWT
	JWTSecret    string
	JWTExpiresIn time.Duration

	// Kiosk
	KioskPIN string

	// Overdue sweeper
	OverdueAfterDays int
	OverdueCronSpec  string

	// Seed admin account (first run only)
	DefaultAdminPassword string

	// Logging
	LogLevel string
	LogFile  string
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Parse JWT_EXPIRES_IN with d/w shorthand support
	jwtExpiresStr := getEnv("JWT_EXPIRES_IN", "24h")
	jwtExpires, err := time.ParseDuration(jwtExpiresStr)
	if err != nil {
		s := strings.TrimSpace(strings.ToLower(jwtExpiresStr))
		if len(s) > 1 {
			unit := s[len(s)-1]
			numStr := s[:len(s)-1]
			if n, err2 := strconv.Atoi(numStr); err2 == nil {
				switch unit {
				case 'd':
					jwtExpires = time.Duration(n) * 24 * time.Hour
					err = nil
				case 'w':
					jwtExpires = time.Duration(n*7) * 24 * time.Hour
					err = nil
				}
			}
		}
		if err != nil {
			log.Fatal("Invalid JWT_EXPIRES_IN format:", err)
		}
	}

	overdueDays, err := strconv.Atoi(getEnv("OVERDUE_AFTER_DAYS", "35"))
	if err != nil || overdueDays < 1 {
		log.Fatal("Invalid OVERDUE_AFTER_DAYS value")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),

		SnapshotPath: getEnv("SNAPSHOT_PATH", "data/ossmanager.db"),
		SnapshotKey:  getEnv("SNAPSHOT_KEY", "OSS_JIU_JITSU_DB"),

		JWTSecret:    getEnv("JWT_SECRET", "your_super_secret_jwt_key"),
		JWTExpiresIn: jwtExpires,

		KioskPIN: getEnv("KIOSK_PIN", "1234"),

		OverdueAfterDays: overdueDays,
		OverdueCronSpec:  getEnv("OVERDUE_CRON_SPEC", "0 6 * * *"),

		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", "logs/app.log"),
	}

	validateConfig(AppConfig)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func validateConfig(c *Config) {
	// Only enforce stricter rules in production
	if strings.ToLower(c.AppEnv) != "production" {
		return
	}
	if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == "your_super_secret_jwt_key" {
		log.Fatal("JWT_SECRET must be set in production")
	}
	if len(c.JWTSecret) < 16 {
		log.Fatal("JWT_SECRET too short (min 16 chars)")
	}
	if c.DefaultAdminPassword == "admin123" {
		log.Println("Warning: DEFAULT_ADMIN_PASSWORD left at its default value")
	}
}
