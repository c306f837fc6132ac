package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mindgest/internal/config"
	"github.com/dgallion1/mindgest/internal/llm"
	"github.com/dgallion1/mindgest/internal/mindmap"
	"github.com/dgallion1/mindgest/internal/notebook"
	"github.com/dgallion1/mindgest/internal/parser"
)

type generateFlags struct {
	name    string
	title   string
	backend string
	pretty  bool
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "mindmap",
		Short:         "Build hierarchical mind maps from documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	logger := func(cmd *cobra.Command) *slog.Logger {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelInfo
		}
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	}

	root.AddCommand(newGenerateCmd(logger), newSubjectCmd())
	return root
}

func newGenerateCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate FILE...",
		Short: "Generate a notebook mind map from one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.title != "" && len(args) > 1 {
				return fmt.Errorf("--title applies to a single file")
			}
			return runGenerate(cmd, logger(cmd), f, args)
		},
	}
	cmd.Flags().StringVar(&f.name, "name", "Notebook", "notebook name used as the root label")
	cmd.Flags().StringVar(&f.title, "title", "", "subject title for a single file (default: detected)")
	cmd.Flags().StringVar(&f.backend, "backend", "", "override the configured backend (none, anthropic, openai, ollama)")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "indent JSON output")
	return cmd
}

func runGenerate(cmd *cobra.Command, log *slog.Logger, f generateFlags, files []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if f.backend != "" {
		cfg.Backend = f.backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	model, apiKey, url := cfg.BackendSettings()
	backend, err := llm.New(llm.Config{Kind: cfg.Backend, Model: model, APIKey: apiKey, BaseURL: url})
	if err != nil {
		return err
	}
	if backend != nil {
		backend = llm.Instrument(backend, llm.NewStats(cfg.StatsWindow), log)
	}

	opts := parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}
	sources := make([]notebook.Source, 0, len(files))
	for i, path := range files {
		doc, err := readDocument(path, opts)
		if err != nil {
			return err
		}
		if f.title != "" {
			doc.Title = f.title
		}
		sources = append(sources, notebook.Source{ID: strconv.Itoa(i + 1), Title: doc.Title, Text: doc.Text})
	}

	gen := mindmap.NewGenerator(backend, log, mindmap.WithTimeout(cfg.BackendTimeout))
	root := notebook.NewBuilder(gen, log, cfg.MaxConcurrentDocs).Build(cmd.Context(), f.name, sources)

	enc := json.NewEncoder(cmd.OutOrStdout())
	if f.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(root)
}

func newSubjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subject FILE",
		Short: "Print the detected subject of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			doc, err := readDocument(args[0], parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), mindmap.DetectSubject(doc.Text))
			return err
		},
	}
}

func readDocument(path string, opts parser.Options) (parser.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return parser.Document{}, err
	}
	return parser.ExtractDocument(bytes.NewReader(data), path, opts)
}
