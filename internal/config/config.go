package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"nfsft/internal/ledger"
	"nfsft/internal/logger"
)

type Config struct {
	// Output Configuration
	OutputDir string

	// Reconciliation Configuration
	ReportPeriod    string
	AmountTolerance float64
	SDIStrict       bool

	// Run Registry Configuration
	RunRetention time.Duration

	// Google Sheets Configuration (optional input surface)
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		OutputDir:            getEnv("OUTPUT_DIR", "output"),
		ReportPeriod:         getEnv("REPORT_PERIOD", "2025-01"),
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", ""),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stdout"),
	}

	tolerance, err := getFloat("AMOUNT_TOLERANCE", 0.01)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.AmountTolerance = tolerance

	strict, err := getBool("SDI_STRICT", true)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.SDIStrict = strict

	retention, err := getDuration("RUN_RETENTION", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.RunRetention = retention

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if _, err := ledger.ParsePeriod(c.ReportPeriod); err != nil {
		return fmt.Errorf("REPORT_PERIOD: %w", err)
	}
	if c.AmountTolerance < 0 {
		return fmt.Errorf("AMOUNT_TOLERANCE must not be negative")
	}
	return nil
}

// Period returns the configured reporting period. Load has already
// validated the value.
func (c *Config) Period() ledger.Period {
	p, _ := ledger.ParsePeriod(c.ReportPeriod)
	return p
}

// KeyMode returns the key normalization rule reconciliation joins use.
func (c *Config) KeyMode() ledger.KeyMode {
	if c.SDIStrict {
		return ledger.KeyStrict
	}
	return ledger.KeyLoose
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
