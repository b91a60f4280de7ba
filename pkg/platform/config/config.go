package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
)

// Config represents the application configuration.
type Config struct {
	Cycle CycleConfig
	Log   LogConfig
}

// CycleConfig holds planning-cycle configuration.
type CycleConfig struct {
	// DataDir is where the input sheets live (Estoque.xlsx, *_BOM.xlsx, ...).
	DataDir string
	// OutputDir is where per-cycle folders are created.
	OutputDir string
	// ExecutionDate overrides "today" as the planning execution date.
	ExecutionDate time.Time
	// PlanningDays is the horizon of the capacity plan sheet.
	PlanningDays int
	// ReplanThresholdPct is the leadtime growth, in percent, above which an
	// applied quote raises a replan alert.
	ReplanThresholdPct int64
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
	Env   string
}

// Load reads configuration from the environment, with a .env file as
// fallback. Missing variables fall back to defaults; a malformed
// PLANT_EXECUTION_DATE is an error rather than a silent "today".
func Load() (*Config, error) {
	// Ignore error if .env doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Cycle: CycleConfig{
			DataDir:            getEnv("PLANT_DATA_DIR", "."),
			OutputDir:          getEnv("PLANT_OUTPUT_DIR", "."),
			ExecutionDate:      time.Now(),
			PlanningDays:       getEnvAsInt("PLANT_PLANNING_DAYS", 5),
			ReplanThresholdPct: int64(getEnvAsInt("PLANT_REPLAN_THRESHOLD_PCT", 20)),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Env:   getEnv("APP_ENV", "development"),
		},
	}

	if raw := os.Getenv("PLANT_EXECUTION_DATE"); raw != "" {
		date, err := time.Parse(entities.BoardDateLayout, raw)
		if err != nil {
			return nil, err
		}
		cfg.Cycle.ExecutionDate = date
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a
// default value.
func getEnvAsInt(key string, defaultValue int) int {
	if raw, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(raw); err == nil {
			return value
		}
	}
	return defaultValue
}
