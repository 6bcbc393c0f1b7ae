package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of generation being performed.
type TaskType string

const (
	TaskItinerary TaskType = "itinerary"
	TaskFollowUp  TaskType = "followup"
)

// Provider selects the backend adapter.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the generative backend.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Provider   Provider
	Endpoint   string // "" uses the provider default
	Model      string
	APIKey     string
	TimeoutMs  int
	RatePerMin int // 0 disables rate limiting
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// The backend is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:   false,
		LogCalls:  false,
		Provider:  ProviderOllama,
		Model:     "llama3.2",
		TimeoutMs: 30000,
		Tasks: map[TaskType]TaskConfig{
			TaskItinerary: {Temperature: 0.3, MaxTokens: 3000, TimeoutMs: 60000},
			TaskFollowUp:  {Temperature: 0.7, MaxTokens: 80, TimeoutMs: 8000},
		},
	}
}

// LoadConfig reads configuration from TREK_LLM_* environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("TREK_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TREK_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TREK_LLM_PROVIDER"); v != "" {
		cfg.Provider = Provider(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv("TREK_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("TREK_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TREK_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("TREK_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TREK_LLM_RATE_PER_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RatePerMin = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskItinerary, "TREK_LLM_ITINERARY_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskFollowUp, "TREK_LLM_FOLLOWUP_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout in milliseconds for a task.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// EndpointOrDefault returns the configured endpoint or the provider default.
// OpenAI and Gemini return "" so their SDKs use their own default.
func (c LLMConfig) EndpointOrDefault() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.Provider == ProviderOllama || c.Provider == "" {
		return "http://localhost:11434"
	}
	return ""
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
