package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/trek/internal/db"
	"github.com/alexanderramin/trek/internal/llm"
)

var trekKeys = []string{
	"TREK_DB", "TREK_TEMPLATES", "TREK_TEMPLATES_OPTIONAL", "TREK_LOG",
	"TREK_REDIS_URL", "TREK_CACHE_TTL", "TREK_LLM_ENABLED", "TREK_LLM_PROVIDER",
	"TREK_LLM_API_KEY", "TREK_LLM_MODEL",
}

// isolate clears the TREK_* variables for the test and points ENV_FILE at
// an empty file so a developer's .env is never read.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range trekKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	t.Setenv("ENV_FILE", path)
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, db.MemoryPath, cfg.DBPath)
	assert.False(t, cfg.Persistent())
	assert.Empty(t, cfg.TemplatesPath)
	assert.False(t, cfg.TemplatesOptional)
	assert.False(t, cfg.Log)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 6*time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
}

func TestLoad_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("TREK_DB", "/tmp/trek.db")
	t.Setenv("TREK_TEMPLATES", "./data/trips.json")
	t.Setenv("TREK_TEMPLATES_OPTIONAL", "true")
	t.Setenv("TREK_LOG", "1")
	t.Setenv("TREK_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TREK_CACHE_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/trek.db", cfg.DBPath)
	assert.True(t, cfg.Persistent())
	assert.Equal(t, "./data/trips.json", cfg.TemplatesPath)
	assert.True(t, cfg.TemplatesOptional)
	assert.True(t, cfg.Log)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
}

func TestLoad_FromEnvFile(t *testing.T) {
	path := isolate(t)
	require.NoError(t, os.WriteFile(path, []byte("TREK_DB=trips.db\nTREK_LLM_ENABLED=true\nTREK_LLM_MODEL=qwen2.5\n"), 0o644))
	// godotenv writes straight into the process environment.
	t.Cleanup(func() {
		for _, k := range trekKeys {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "trips.db", cfg.DBPath)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "qwen2.5", cfg.LLM.Model)
}

func TestLoad_ProcessEnvWinsOverFile(t *testing.T) {
	path := isolate(t)
	require.NoError(t, os.WriteFile(path, []byte("TREK_DB=file.db\n"), 0o644))
	t.Setenv("TREK_DB", "env.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.DBPath)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	isolate(t)
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "nope.env"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"TREK_LOG":                "sometimes",
		"TREK_TEMPLATES_OPTIONAL": "maybe",
		"TREK_CACHE_TTL":          "forever",
		"TREK_LLM_PROVIDER":       "claude-on-a-toaster",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, val)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_NonPositiveTTL(t *testing.T) {
	isolate(t)
	t.Setenv("TREK_CACHE_TTL", "-1m")
	_, err := Load()
	assert.ErrorContains(t, err, "greater than 0")
}

func TestLoad_GeminiNeedsKey(t *testing.T) {
	isolate(t)
	t.Setenv("TREK_LLM_ENABLED", "true")
	t.Setenv("TREK_LLM_PROVIDER", "gemini")

	_, err := Load()
	assert.ErrorContains(t, err, "TREK_LLM_API_KEY")

	t.Setenv("TREK_LLM_API_KEY", "k")
	_, err = Load()
	assert.NoError(t, err)
}

func TestParseBoolEnv_EmptyUsesFallback(t *testing.T) {
	t.Setenv("TREK_X", "")
	got, err := parseBoolEnv("TREK_X", true)
	require.NoError(t, err)
	assert.True(t, got)
}
