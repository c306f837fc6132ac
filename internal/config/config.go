package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the env var pointing at an optional YAML config file.
const ConfigFileEnv = "MINDGEST_CONFIG"

type Config struct {
	Port string

	// Auth
	APIKey string

	// Generation backend: none, anthropic, openai or ollama.
	Backend        string
	BackendTimeout time.Duration

	AnthropicAPIKey string
	AnthropicModel  string
	AnthropicURL    string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	OllamaURL   string
	OllamaModel string

	// Notebook fan-out
	MaxConcurrentDocs int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Rolling window for /api/stats/llm
	StatsWindow time.Duration
}

// fileConfig mirrors Config in the YAML file. Zero values leave the default
// in place.
type fileConfig struct {
	Port    string `yaml:"port"`
	APIKey  string `yaml:"api_key"`
	Backend struct {
		Kind    string        `yaml:"kind"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"backend"`
	Anthropic struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
		URL    string `yaml:"url"`
	} `yaml:"anthropic"`
	OpenAI struct {
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"openai"`
	Ollama struct {
		URL   string `yaml:"url"`
		Model string `yaml:"model"`
	} `yaml:"ollama"`
	MaxConcurrentDocs    int           `yaml:"max_concurrent_docs"`
	WorkerCount          int           `yaml:"worker_count"`
	MaxQueueSize         int           `yaml:"max_queue_size"`
	MaxUploadBytes       int64         `yaml:"max_upload_bytes"`
	JobTTL               time.Duration `yaml:"job_ttl"`
	PDFFallbackPdftotext *bool         `yaml:"pdf_fallback_pdftotext"`
	StatsWindow          time.Duration `yaml:"stats_window"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:              "8090",
		Backend:           "none",
		BackendTimeout:    60 * time.Second,
		AnthropicModel:    "claude-sonnet-4-5-20250929",
		AnthropicURL:      "https://api.anthropic.com/v1/messages",
		OpenAIModel:       "gpt-4o-mini",
		OllamaURL:         "http://localhost:11434",
		OllamaModel:       "llama3.1",
		MaxConcurrentDocs: 4,
		WorkerCount:       2,
		MaxQueueSize:      100,
		MaxUploadBytes:    52428800, // 50MB

		JobTTL: 1 * time.Hour,

		PDFFallbackPdftotext: true,

		StatsWindow: 1 * time.Hour,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// MINDGEST_CONFIG, then environment variables.
func Load() (Config, error) {
	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv(ConfigFileEnv)); path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return cfg, err
		}
		fc.apply(&cfg)
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("MINDGEST_API_KEY", cfg.APIKey)

	cfg.Backend = strings.ToLower(envOr("MINDGEST_BACKEND", cfg.Backend))
	cfg.BackendTimeout = envDuration("BACKEND_TIMEOUT", cfg.BackendTimeout)

	cfg.AnthropicAPIKey = envOr("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.AnthropicModel = envOr("ANTHROPIC_MODEL", cfg.AnthropicModel)
	cfg.AnthropicURL = envOr("ANTHROPIC_URL", cfg.AnthropicURL)

	cfg.OpenAIAPIKey = envOr("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = envOr("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIBaseURL = envOr("OPENAI_BASE_URL", cfg.OpenAIBaseURL)

	cfg.OllamaURL = envOr("OLLAMA_URL", cfg.OllamaURL)
	cfg.OllamaModel = envOr("OLLAMA_MODEL", cfg.OllamaModel)

	cfg.MaxConcurrentDocs = envInt("MAX_CONCURRENT_DOCS", cfg.MaxConcurrentDocs)
	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)

	def := Defaults()
	if cfg.MaxConcurrentDocs <= 0 {
		cfg.MaxConcurrentDocs = def.MaxConcurrentDocs
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = def.WorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = def.MaxQueueSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = def.JobTTL
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = def.StatsWindow
	}
	if cfg.BackendTimeout < 0 {
		cfg.BackendTimeout = 0
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case "", "none", "ollama":
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic backend")
		}
	case "openai":
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY or OPENAI_BASE_URL is required for the openai backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (want none, anthropic, openai or ollama)", c.Backend)
	}
	return nil
}

// BackendSettings returns the model, key and URL for the selected backend.
func (c Config) BackendSettings() (model, apiKey, url string) {
	switch c.Backend {
	case "anthropic":
		return c.AnthropicModel, c.AnthropicAPIKey, c.AnthropicURL
	case "openai":
		return c.OpenAIModel, c.OpenAIAPIKey, c.OpenAIBaseURL
	case "ollama":
		return c.OllamaModel, "", c.OllamaURL
	default:
		return "", "", ""
	}
}

func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setString(&cfg.Port, fc.Port)
	setString(&cfg.APIKey, fc.APIKey)
	setString(&cfg.Backend, strings.ToLower(fc.Backend.Kind))
	if fc.Backend.Timeout > 0 {
		cfg.BackendTimeout = fc.Backend.Timeout
	}

	setString(&cfg.AnthropicAPIKey, fc.Anthropic.APIKey)
	setString(&cfg.AnthropicModel, fc.Anthropic.Model)
	setString(&cfg.AnthropicURL, fc.Anthropic.URL)

	setString(&cfg.OpenAIAPIKey, fc.OpenAI.APIKey)
	setString(&cfg.OpenAIModel, fc.OpenAI.Model)
	setString(&cfg.OpenAIBaseURL, fc.OpenAI.BaseURL)

	setString(&cfg.OllamaURL, fc.Ollama.URL)
	setString(&cfg.OllamaModel, fc.Ollama.Model)

	if fc.MaxConcurrentDocs > 0 {
		cfg.MaxConcurrentDocs = fc.MaxConcurrentDocs
	}
	if fc.WorkerCount > 0 {
		cfg.WorkerCount = fc.WorkerCount
	}
	if fc.MaxQueueSize > 0 {
		cfg.MaxQueueSize = fc.MaxQueueSize
	}
	if fc.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = fc.MaxUploadBytes
	}
	if fc.JobTTL > 0 {
		cfg.JobTTL = fc.JobTTL
	}
	if fc.PDFFallbackPdftotext != nil {
		cfg.PDFFallbackPdftotext = *fc.PDFFallbackPdftotext
	}
	if fc.StatsWindow > 0 {
		cfg.StatsWindow = fc.StatsWindow
	}
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
