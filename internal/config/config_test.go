package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	ConfigFileEnv, "PORT", "MINDGEST_API_KEY", "MINDGEST_BACKEND", "BACKEND_TIMEOUT",
	"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "ANTHROPIC_URL",
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"OLLAMA_URL", "OLLAMA_MODEL",
	"MAX_CONCURRENT_DOCS", "WORKER_COUNT", "MAX_QUEUE_SIZE", "MAX_UPLOAD_BYTES",
	"JOB_TTL", "PDF_FALLBACK_PDFTOTEXT", "STATS_WINDOW",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mindgest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "none", cfg.Backend)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(ConfigFileEnv, writeConfig(t, `
port: "9000"
backend:
  kind: OpenAI
  timeout: 15s
openai:
  api_key: sk-file
  model: gpt-test
worker_count: 7
job_ttl: 30m
pdf_fallback_pdftotext: false
`))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "openai", cfg.Backend)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "sk-file", cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-test", cfg.OpenAIModel)
	assert.Equal(t, 7, cfg.WorkerCount)
	assert.Equal(t, 30*time.Minute, cfg.JobTTL)
	assert.False(t, cfg.PDFFallbackPdftotext)
	// Untouched keys keep their defaults.
	assert.Equal(t, Defaults().MaxQueueSize, cfg.MaxQueueSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(ConfigFileEnv, writeConfig(t, "port: \"9000\"\nworker_count: 7\n"))
	t.Setenv("PORT", "9100")
	t.Setenv("WORKER_COUNT", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 3, cfg.WorkerCount)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("JOB_TTL", "not-a-duration")
	t.Setenv("MAX_QUEUE_SIZE", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().WorkerCount, cfg.WorkerCount)
	assert.Equal(t, Defaults().JobTTL, cfg.JobTTL)
	assert.Equal(t, Defaults().MaxQueueSize, cfg.MaxQueueSize)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(ConfigFileEnv, writeConfig(t, "port: [unterminated\n"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"none", func(c *Config) { c.Backend = "none" }, false},
		{"ollama", func(c *Config) { c.Backend = "ollama" }, false},
		{"anthropic without key", func(c *Config) { c.Backend = "anthropic" }, true},
		{"anthropic with key", func(c *Config) { c.Backend = "anthropic"; c.AnthropicAPIKey = "k" }, false},
		{"openai without key or url", func(c *Config) { c.Backend = "openai" }, true},
		{"openai with base url", func(c *Config) { c.Backend = "openai"; c.OpenAIBaseURL = "http://localhost:8000/v1" }, false},
		{"unknown", func(c *Config) { c.Backend = "bard" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBackendSettings(t *testing.T) {
	cfg := Defaults()
	cfg.Backend = "ollama"
	model, key, url := cfg.BackendSettings()
	assert.Equal(t, cfg.OllamaModel, model)
	assert.Empty(t, key)
	assert.Equal(t, cfg.OllamaURL, url)

	cfg.Backend = "none"
	model, _, _ = cfg.BackendSettings()
	assert.Empty(t, model)
}
