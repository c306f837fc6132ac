package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/mindgest/internal/notebook"
	"github.com/dgallion1/mindgest/internal/parser"
)

// ErrQueueFull is returned by Submit when no worker can take the job.
var ErrQueueFull = errors.New("job queue is full")

// sourceIDLen is how many hex digits of the content hash name a source.
const sourceIDLen = 12

// Worker processes a single upload job.
type Worker struct {
	builder *notebook.Builder
	opts    parser.Options
	log     *slog.Logger
}

func NewWorker(builder *notebook.Builder, opts parser.Options, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{builder: builder, opts: opts, log: log}
}

// Process parses every uploaded file of job and builds the notebook mind map.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "name", job.Name)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	files := job.Files()
	sources := make([]notebook.Source, 0, len(files))
	seen := make(map[string]string, len(files))
	parsed := 0

	for _, f := range files {
		id := ContentHashHex(f.Data)[:sourceIDLen]
		if prev, dup := seen[id]; dup {
			log.Info("duplicate file, skipping", "file", f.Name, "same_as", prev)
			job.FileParsed(false)
			continue
		}
		seen[id] = f.Name

		doc, err := parser.ExtractDocument(bytes.NewReader(f.Data), f.Name, w.opts)
		if err != nil {
			log.Error("parse failed", "file", f.Name, "error", err)
			job.AddError(fmt.Sprintf("%s: %s", f.Name, err))
			continue
		}
		parsed++

		empty := strings.TrimSpace(doc.Text) == ""
		job.FileParsed(empty)
		sources = append(sources, notebook.Source{ID: id, Title: doc.Title, Text: doc.Text})
	}

	if parsed == 0 && len(files) > 0 {
		log.Warn("no file could be parsed")
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Generate
	job.SetStatus(StatusGenerating, "generating")
	log.Info("building mind map", "sources", len(sources))
	root := w.builder.Build(ctx, job.Name, sources)
	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "generating")
		return
	}

	job.Complete(root)
	log.Info("mind map complete", "documents", len(root.Children))
}
