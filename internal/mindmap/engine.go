package mindmap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContextChars bounds the text sent to a backend.
const MaxContextChars = 12000

// Backend is a structured-text completion capability: given a system
// instruction and a user message it returns the raw model response.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Result is the outcome of one generation call.
type Result struct {
	Tree *Tree
	// Path is PathModel or PathFallback.
	Path string
	// Truncated reports that the text was cut before being sent to the backend.
	Truncated bool
	// Err is the reason the model path was abandoned, if it was.
	Err error
}

// Generator turns document text into a mind map. A nil backend selects the
// rule-based extractor for every call. Generator is safe for concurrent use.
type Generator struct {
	backend    Backend
	prompt     Prompt
	log        *slog.Logger
	timeout    time.Duration
	maxContext int
}

// Option configures a Generator.
type Option func(*Generator)

// WithTimeout bounds each backend call. A timeout is handled like any other
// backend failure.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// WithPrompt replaces the default instructions.
func WithPrompt(p Prompt) Option {
	return func(g *Generator) { g.prompt = p }
}

// WithMaxContext overrides MaxContextChars.
func WithMaxContext(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxContext = n
		}
	}
}

func NewGenerator(backend Backend, log *slog.Logger, opts ...Option) *Generator {
	if log == nil {
		log = slog.Default()
	}
	g := &Generator{
		backend:    backend,
		prompt:     DefaultPrompt,
		log:        log,
		maxContext: MaxContextChars,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HasBackend reports whether the model path is enabled.
func (g *Generator) HasBackend() bool {
	return g.backend != nil
}

// Generate returns a mind map for fullText. It always returns a tree.
func (g *Generator) Generate(ctx context.Context, fullText, title string) *Tree {
	return g.GenerateResult(ctx, fullText, title).Tree
}

// GenerateResult is Generate with details about which path produced the tree.
func (g *Generator) GenerateResult(ctx context.Context, fullText, title string) Result {
	person := strings.TrimSpace(title)
	if person == "" {
		person = DetectSubject(fullText)
	}
	log := g.log.With("subject", person)

	if g.backend == nil {
		log.Info("no generation backend configured, using rule-based extraction")
		generationsTotal.WithLabelValues(PathFallback, reasonNoBackend).Inc()
		return Result{Tree: g.fallback(person, fullText), Path: PathFallback}
	}

	text, truncated := truncateRunes(fullText, g.maxContext)
	if truncated {
		truncatedTotal.Inc()
	}

	tree, err := g.fromModel(ctx, person, text)
	if err != nil {
		log.Warn("model mind map failed, using rule-based extraction", "error", err)
		generationsTotal.WithLabelValues(PathFallback, fallbackReason(err)).Inc()
		return Result{Tree: g.fallback(person, fullText), Path: PathFallback, Truncated: truncated, Err: err}
	}

	log.Info("model mind map generated", "categories", len(tree.Children))
	generationsTotal.WithLabelValues(PathModel, reasonNone).Inc()
	return Result{Tree: tree, Path: PathModel, Truncated: truncated}
}

func (g *Generator) fromModel(ctx context.Context, person, text string) (*Tree, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := g.backend.Complete(ctx, g.prompt.System, g.prompt.User(person, text))
	backendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &BackendError{Err: err}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, &BackendError{Err: errors.New("empty response")}
	}

	tree, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if len(tree.Children) == 0 {
		return nil, ErrEmptyResult
	}

	tree = Normalize(LimitDepth(tree, MaxDepth))
	if len(tree.Children) == 0 {
		return nil, fmt.Errorf("after normalization: %w", ErrEmptyResult)
	}
	if len(tree.Children) > MaxCategories {
		tree.Children = tree.Children[:MaxCategories]
	}
	if strings.TrimSpace(tree.Label) == "" {
		tree.Label = person
	}
	return tree, nil
}

func (g *Generator) fallback(person, text string) *Tree {
	return Normalize(Extract(person, text))
}

func fallbackReason(err error) string {
	var parseErr *ParseError
	switch {
	case errors.As(err, &parseErr):
		return reasonParse
	case errors.Is(err, ErrEmptyResult):
		return reasonEmpty
	default:
		return reasonBackend
	}
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) (string, bool) {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s, false
	}
	return string([]rune(s)[:n]), true
}
