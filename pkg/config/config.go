package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string
	Host        string
	Port        string
	JwtSecret   string
	LogLevel    string
	AutoMigrate bool

	GeminiAPIKey string
	GeminiModel  string

	GenerationWorkers   int
	GenerationQueueSize int

	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
}

// Load reads configuration from the environment, after loading an optional
// .env file. Missing required values are reported together.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Host:         envOr("HOST", "127.0.0.1"),
		Port:         envOr("PORT", "3000"),
		JwtSecret:    os.Getenv("JWT_SECRET"),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-1.5-flash"),
		CORSOrigins:  splitList(envOr("CORS_ORIGINS", "*")),
	}

	var errs []error
	var err error
	if cfg.AutoMigrate, err = strconv.ParseBool(envOr("AUTO_MIGRATE", "true")); err != nil {
		errs = append(errs, fmt.Errorf("AUTO_MIGRATE: %w", err))
	}
	if cfg.GenerationWorkers, err = strconv.Atoi(envOr("GENERATION_WORKERS", "4")); err != nil || cfg.GenerationWorkers < 1 {
		errs = append(errs, fmt.Errorf("GENERATION_WORKERS must be a positive integer"))
	}
	if cfg.GenerationQueueSize, err = strconv.Atoi(envOr("GENERATION_QUEUE_SIZE", "64")); err != nil || cfg.GenerationQueueSize < 0 {
		errs = append(errs, fmt.Errorf("GENERATION_QUEUE_SIZE must be a non-negative integer"))
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(envOr("RATE_LIMIT_RPS", "1"), 64); err != nil || cfg.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be a positive number"))
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(envOr("RATE_LIMIT_BURST", "10")); err != nil || cfg.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be a positive integer"))
	}

	if cfg.DatabaseURL == "" {
		errs = append(errs, fmt.Errorf("DATABASE_URL is not set"))
	}
	if cfg.JwtSecret == "" {
		errs = append(errs, fmt.Errorf("JWT_SECRET is not set"))
	}
	if cfg.GeminiAPIKey == "" {
		errs = append(errs, fmt.Errorf("GEMINI_API_KEY is not set"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// LoadConfig is Load for process startup: any error is fatal.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
