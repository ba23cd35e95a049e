package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Log     LogConfig
	Input   InputConfig
	Planner PlannerConfig
	Reports ReportsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// InputConfig locates the sections table to analyze.
type InputConfig struct {
	SectionsFile string
}

// PlannerConfig tunes range selection.
type PlannerConfig struct {
	ScoreCeiling int
	MinRanges    int
}

// ReportsConfig governs result rendering and output housekeeping.
type ReportsConfig struct {
	OutputDir         string
	Basename          string
	Formats           []string
	WorkerConcurrency int
	WorkerRetries     int
	CleanupEnabled    bool
	ResultTTL         time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// A missing .env is fine; the tool runs on defaults and real env vars.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Input = InputConfig{
		SectionsFile: v.GetString("SECTIONS_FILE"),
	}

	cfg.Planner = PlannerConfig{
		ScoreCeiling: v.GetInt("PLANNER_SCORE_CEILING"),
		MinRanges:    v.GetInt("PLANNER_MIN_RANGES"),
	}

	cfg.Reports = ReportsConfig{
		OutputDir:         v.GetString("RESULTS_DIR"),
		Basename:          v.GetString("RESULTS_BASENAME"),
		Formats:           splitAndTrim(v.GetString("RESULTS_FORMATS")),
		WorkerConcurrency: v.GetInt("RESULTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("RESULTS_WORKER_RETRIES"),
		CleanupEnabled:    v.GetBool("RESULTS_CLEANUP_ENABLED"),
		ResultTTL:         parseDuration(v.GetString("RESULTS_TTL"), 30*24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("SECTIONS_FILE", "sections.xlsx")

	v.SetDefault("PLANNER_SCORE_CEILING", 2)
	v.SetDefault("PLANNER_MIN_RANGES", 10)

	v.SetDefault("RESULTS_DIR", ".")
	v.SetDefault("RESULTS_BASENAME", "zlp_results")
	v.SetDefault("RESULTS_FORMATS", "xlsx")
	v.SetDefault("RESULTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("RESULTS_WORKER_RETRIES", 3)
	v.SetDefault("RESULTS_CLEANUP_ENABLED", false)
	v.SetDefault("RESULTS_TTL", "720h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
