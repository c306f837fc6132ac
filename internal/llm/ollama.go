package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
)

// Ollama runs generation against a local Ollama server through langchaingo.
type Ollama struct {
	llm   llms.Model
	model string
}

func NewOllama(serverURL, model string) (*Ollama, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	m, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return &Ollama{llm: m, model: model}, nil
}

// Complete sends a system and a human message in JSON mode.
func (o *Ollama) Complete(ctx context.Context, system, user string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	}
	resp, err := o.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(0.2),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// Model returns the configured model name.
func (o *Ollama) Model() string {
	return o.model
}
