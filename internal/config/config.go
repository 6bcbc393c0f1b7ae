// Package config reads trek's settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/alexanderramin/trek/internal/db"
	"github.com/alexanderramin/trek/internal/llm"
)

type Config struct {
	// DBPath is the trip store. The default keeps trips in memory.
	DBPath string
	// TemplatesPath is a template library file. Empty uses the built-in
	// library.
	TemplatesPath     string
	TemplatesOptional bool

	Log bool

	RedisURL string
	CacheTTL time.Duration

	LLM llm.LLMConfig
}

// Load reads .env (or ENV_FILE) and then the TREK_* variables.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.DBPath = getEnv("TREK_DB", db.MemoryPath)
	cfg.TemplatesPath = getEnv("TREK_TEMPLATES", "")
	cfg.RedisURL = getEnv("TREK_REDIS_URL", "")

	var err error
	if cfg.TemplatesOptional, err = parseBoolEnv("TREK_TEMPLATES_OPTIONAL", false); err != nil {
		return cfg, err
	}
	if cfg.Log, err = parseBoolEnv("TREK_LOG", false); err != nil {
		return cfg, err
	}
	if cfg.CacheTTL, err = parseDurationEnv("TREK_CACHE_TTL", 6*time.Hour); err != nil {
		return cfg, err
	}

	cfg.LLM = llm.LoadConfig()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Persistent reports whether trips outlive the process.
func (c Config) Persistent() bool {
	return c.DBPath != "" && c.DBPath != db.MemoryPath
}

func (c Config) validate() error {
	switch c.LLM.Provider {
	case llm.ProviderOllama, llm.ProviderOpenAI, llm.ProviderGemini, "":
	default:
		return fmt.Errorf("TREK_LLM_PROVIDER must be one of ollama, openai, gemini; got %q", c.LLM.Provider)
	}
	if c.LLM.Enabled && c.LLM.Provider == llm.ProviderGemini && c.LLM.APIKey == "" {
		return fmt.Errorf("TREK_LLM_API_KEY is required for the gemini provider")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return parsed, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return parsed, nil
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
