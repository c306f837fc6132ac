package notebook

import (
	"context"
	"log/slog"
	"runtime/debug"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/mindgest/internal/mindmap"
)

const (
	RootID       = "root"
	NoContent    = "No content available"
	UntitledName = "Untitled"

	// PreviewChars bounds the text preview shown when generation fails.
	PreviewChars = 200
)

// Source is one document of a notebook.
type Source struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// Builder summarizes each source independently and gathers the results under
// a single notebook root.
type Builder struct {
	gen           *mindmap.Generator
	log           *slog.Logger
	maxConcurrent int
}

func NewBuilder(gen *mindmap.Generator, log *slog.Logger, maxConcurrent int) *Builder {
	if log == nil {
		log = slog.Default()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Builder{gen: gen, log: log, maxConcurrent: maxConcurrent}
}

// Build returns the notebook render tree. Children follow the order of
// sources. Sources without text are never sent to the generator.
func (b *Builder) Build(ctx context.Context, name string, sources []Source) *mindmap.RenderNode {
	root := &mindmap.RenderNode{
		ID:       RootID,
		Label:    name,
		Type:     mindmap.TypeRoot,
		Children: make([]*mindmap.RenderNode, len(sources)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.maxConcurrent)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			root.Children[i] = b.buildSource(gctx, src, i, len(sources))
			return nil
		})
	}
	_ = g.Wait()

	return root
}

func (b *Builder) buildSource(ctx context.Context, src Source, idx, total int) (node *mindmap.RenderNode) {
	log := b.log.With("source_id", src.ID, "title", src.Title)
	nodeID := "source_" + src.ID

	// Runs on an errgroup goroutine, outside any HTTP recoverer.
	defer func() {
		if r := recover(); r != nil {
			log.Error("mind map generation panicked, using text preview", "panic", r, "stack", string(debug.Stack()))
			node = preview(src)
		}
	}()

	if strings.TrimSpace(src.Text) == "" {
		log.Warn("no content for source")
		return placeholder(src)
	}

	log.Info("generating mind map", "source", idx+1, "of", total, "chars", len(src.Text))
	tree := b.gen.Generate(ctx, src.Text, src.Title)
	return mindmap.ConvertAt(tree, nodeID, 1)
}

func placeholder(src Source) *mindmap.RenderNode {
	return sourceWithNote(src, "info_"+src.ID, NoContent)
}

// preview stands in for a source whose generation failed: the first
// PreviewChars characters of its text on a single line.
func preview(src Source) *mindmap.RenderNode {
	text := src.Text
	if r := []rune(text); len(r) > PreviewChars {
		text = string(r[:PreviewChars])
	}
	return sourceWithNote(src, "content_"+src.ID, strings.ReplaceAll(text, "\n", " "))
}

func sourceWithNote(src Source, noteID, note string) *mindmap.RenderNode {
	label := strings.TrimSpace(src.Title)
	if label == "" {
		label = UntitledName
	}
	return &mindmap.RenderNode{
		ID:    "source_" + src.ID,
		Label: label,
		Type:  mindmap.TypeMain,
		Children: []*mindmap.RenderNode{{
			ID:       noteID,
			Label:    note,
			Type:     mindmap.TypeSub,
			Children: []*mindmap.RenderNode{},
		}},
	}
}
