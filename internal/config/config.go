package config

import (
	"os"
	"strconv"

	"goanova/adapters/report"
	"goanova/internal/errors"
	"goanova/internal/logging"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Analysis AnalysisConfig
	Report   ReportConfig
	Log      LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds input settings
type DataConfig struct {
	Sheet string // worksheet read from .xlsx inputs
}

// AnalysisConfig holds engine defaults
type AnalysisConfig struct {
	Block   bool // default design when the caller does not choose one
	Workers int  // concurrent analyses in a batch
}

// ReportConfig holds output settings
type ReportConfig struct {
	Format report.Format
}

// LogConfig holds logging settings
type LogConfig struct {
	Level logging.Level
}

// Load reads configuration from environment variables and validates it.
// Call godotenv.Load first to pick up a .env file.
func Load() (*Config, error) {
	format, err := report.ParseFormat(getEnvOrDefault("ANOVA_REPORT_FORMAT", string(report.FormatText)))
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	level, err := logging.ParseLevel(getEnvOrDefault("LOG_LEVEL", "INFO"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Data: DataConfig{
			Sheet: getEnvOrDefault("ANOVA_INPUT_SHEET", "Sheet1"),
		},
		Analysis: AnalysisConfig{
			Block:   getEnvBoolOrDefault("ANOVA_BLOCK", false),
			Workers: getEnvIntOrDefault("ANOVA_WORKERS", 4),
		},
		Report: ReportConfig{
			Format: format,
		},
		Log: LogConfig{
			Level: level,
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Analysis.Workers < 1 {
		return errors.ConfigInvalid("ANOVA_WORKERS must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
