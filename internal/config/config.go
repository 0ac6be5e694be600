package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DayCountMode controls how many leave days a date range consumes.
type DayCountMode string

const (
	DayCountCalendar DayCountMode = "calendar"
	DayCountBusiness DayCountMode = "business"
)

type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	JWTSecret string

	// AdminRecipientID is the user that receives leave_request_created
	// notifications. Resolved at process start, never hardcoded in logic.
	AdminRecipientID string

	DayCountMode DayCountMode
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		AdminRecipientID: os.Getenv("ADMIN_RECIPIENT_ID"),

		DayCountMode: DayCountMode(getEnv("LEAVE_DAY_COUNT_MODE", string(DayCountCalendar))),
	}

	if cfg.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AdminRecipientID == "" {
		return nil, fmt.Errorf("ADMIN_RECIPIENT_ID is required")
	}

	switch cfg.DayCountMode {
	case DayCountCalendar, DayCountBusiness:
	default:
		return nil, fmt.Errorf("invalid LEAVE_DAY_COUNT_MODE: %s", cfg.DayCountMode)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return fallback
}
