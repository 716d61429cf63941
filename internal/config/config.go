package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	App        AppConfig
	JWT        JWTConfig
	Processing ProcessingConfig
	Anomaly    AnomalyConfig
	Points     PointsConfig
	Storage    StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// JWTConfig holds token verification configuration
type JWTConfig struct {
	Secret string
}

// ProcessingConfig holds the reconciliation engine thresholds.
type ProcessingConfig struct {
	// LookbackMinutes bounds how long before the scheduled time-in a scan
	// may still count as that shift's clock-in.
	LookbackMinutes int
	// EgressMinutes bounds how long after the scheduled time-out a scan may
	// still count as that shift's clock-out.
	EgressMinutes int
	// TapCollapseMinutes collapses repeated taps near one candidate; the
	// first tap wins.
	TapCollapseMinutes int
	// TardyCeilingMinutes is the lateness past which a shift becomes a
	// half-day absence instead of a tardy.
	TardyCeilingMinutes int
	// OvertimeThresholdMinutes is the minimum overshoot past the scheduled
	// time-out before overtime minutes are recorded.
	OvertimeThresholdMinutes int
}

// AnomalyConfig holds the anomaly detector thresholds.
type AnomalyConfig struct {
	SimultaneousWindowMinutes int
	DuplicateWindowMinutes    int
	DuplicateMinScans         int
	UnusualHoursSlackMinutes  int
	DailyScanCeiling          int
	MinDayGapMinutes          int
	MaxDayGapMinutes          int
}

// PointsConfig holds the attendance point lifecycle settings.
type PointsConfig struct {
	ExpiryDays          int
	GbroWindowDays      int
	UndertimeMinMinutes int
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timeclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	config.Processing = ProcessingConfig{
		LookbackMinutes:          getEnvInt("PROC_LOOKBACK_MINUTES", 240),
		EgressMinutes:            getEnvInt("PROC_EGRESS_MINUTES", 240),
		TapCollapseMinutes:       getEnvInt("PROC_TAP_COLLAPSE_MINUTES", 5),
		TardyCeilingMinutes:      getEnvInt("PROC_TARDY_CEILING_MINUTES", 15),
		OvertimeThresholdMinutes: getEnvInt("PROC_OT_THRESHOLD_MINUTES", 15),
	}

	config.Anomaly = AnomalyConfig{
		SimultaneousWindowMinutes: getEnvInt("ANOMALY_SIMULTANEOUS_WINDOW_MINUTES", 15),
		DuplicateWindowMinutes:    getEnvInt("ANOMALY_DUPLICATE_WINDOW_MINUTES", 5),
		DuplicateMinScans:         getEnvInt("ANOMALY_DUPLICATE_MIN_SCANS", 3),
		UnusualHoursSlackMinutes:  getEnvInt("ANOMALY_UNUSUAL_HOURS_SLACK_MINUTES", 240),
		DailyScanCeiling:          getEnvInt("ANOMALY_DAILY_SCAN_CEILING", 8),
		MinDayGapMinutes:          getEnvInt("ANOMALY_MIN_DAY_GAP_MINUTES", 120),
		MaxDayGapMinutes:          getEnvInt("ANOMALY_MAX_DAY_GAP_MINUTES", 960),
	}

	config.Points = PointsConfig{
		ExpiryDays:          getEnvInt("POINTS_EXPIRY_DAYS", 180),
		GbroWindowDays:      getEnvInt("POINTS_GBRO_WINDOW_DAYS", 90),
		UndertimeMinMinutes: getEnvInt("POINTS_UNDERTIME_MIN_MINUTES", 60),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Processing.TardyCeilingMinutes <= 0 {
		return fmt.Errorf("PROC_TARDY_CEILING_MINUTES must be positive")
	}
	if c.Points.GbroWindowDays <= 0 {
		return fmt.Errorf("POINTS_GBRO_WINDOW_DAYS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
