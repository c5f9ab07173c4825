package config

import (
	"os"
	"strconv"

	"sheetops/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig `validate:"required"`
	Server   ServerConfig
	Scenario ScenarioConfig
	Observe  ObserveConfig
}

// DataConfig holds the table persistence settings
type DataConfig struct {
	TableFile string `validate:"required"`
	SheetName string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// ScenarioConfig holds scenario runner settings
type ScenarioConfig struct {
	Dir         string
	Concurrency int
}

// ObserveConfig holds operation observability settings
type ObserveConfig struct {
	LogOperations bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:     loadDataConfig(),
		Server:   loadServerConfig(),
		Scenario: loadScenarioConfig(),
		Observe:  loadObserveConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() DataConfig {
	return DataConfig{
		TableFile: getEnvOrDefault("TABLE_FILE", "table.xlsx"),
		SheetName: getEnvOrDefault("SHEET_NAME", "Sheet1"),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func loadScenarioConfig() ScenarioConfig {
	return ScenarioConfig{
		Dir:         getEnvOrDefault("SCENARIO_DIR", "scenarios"),
		Concurrency: getEnvIntOrDefault("SCENARIO_CONCURRENCY", 4),
	}
}

func loadObserveConfig() ObserveConfig {
	return ObserveConfig{
		LogOperations: getEnvBoolOrDefault("LOG_OPERATIONS", true),
	}
}

func validateConfig(config *Config) error {
	if config.Data.TableFile == "" {
		return errors.ConfigInvalid("table file path is required")
	}
	if config.Data.SheetName == "" {
		return errors.ConfigInvalid("sheet name is required")
	}
	if config.Scenario.Concurrency < 1 {
		return errors.ConfigInvalid("scenario concurrency must be at least 1")
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
