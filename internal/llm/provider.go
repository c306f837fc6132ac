package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/mindgest/internal/mindmap"
)

// Backend kinds.
const (
	KindNone      = "none"
	KindAnthropic = "anthropic"
	KindOpenAI    = "openai"
	KindOllama    = "ollama"
)

// Config selects and configures a generation backend.
type Config struct {
	Kind    string
	Model   string
	APIKey  string
	BaseURL string
}

// New creates the backend named by cfg.Kind. An empty kind or "none" returns a
// nil backend, which keeps the generator on the rule-based path.
func New(cfg Config) (mindmap.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", KindNone:
		return nil, nil
	case KindAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic backend requires an api key")
		}
		return NewAnthropic(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case KindOpenAI:
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("openai backend requires an api key or base url")
		}
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case KindOllama:
		o, err := NewOllama(cfg.BaseURL, cfg.Model)
		if err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unknown llm backend: %s", cfg.Kind)
	}
}

// Instrumented wraps a backend and records every call.
type Instrumented struct {
	next  mindmap.Backend
	stats *Stats
	log   *slog.Logger
}

// Instrument records latency and failures of b into stats.
func Instrument(b mindmap.Backend, stats *Stats, log *slog.Logger) *Instrumented {
	return &Instrumented{next: b, stats: stats, log: log}
}

func (i *Instrumented) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	out, err := i.next.Complete(ctx, system, user)
	i.stats.Record(time.Since(start), err != nil)
	if err != nil && i.log != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			i.log.Warn("backend call failed", "status", apiErr.StatusCode, "transient", apiErr.Transient())
		} else {
			i.log.Warn("backend call failed", "error", err)
		}
	}
	return out, err
}

// Model reports the wrapped backend's model when it exposes one.
func (i *Instrumented) Model() string {
	if m, ok := i.next.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}

// Close releases the wrapped backend's resources when it holds any.
func (i *Instrumented) Close() {
	if c, ok := i.next.(interface{ Close() }); ok {
		c.Close()
	}
}
