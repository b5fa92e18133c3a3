// Package pipeline runs one conversion: load, extract, filter, prefix,
// render and deliver.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/charrefs/internal/config"
	"github.com/jmylchreest/charrefs/internal/output"
	"github.com/jmylchreest/charrefs/internal/source"
	"github.com/jmylchreest/charrefs/pkg/charref"
)

// Result is a rendered conversion.
type Result struct {
	Document string
	Source   string
	Stats    charref.Stats
	Emitted  int // entries after filtering
}

// Run converts cfg.Input into a document in cfg.Format.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) (Result, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	enc, err := output.NewEncoder(cfg.Format)
	if err != nil {
		return Result{}, err
	}
	filter, err := charref.ParseFilter(string(cfg.Filter))
	if err != nil {
		return Result{}, err
	}

	doc, err := source.Load(ctx, cfg.Input, source.Options{
		MaxSize:   cfg.MaxInputSize,
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
	})
	if err != nil {
		return Result{}, err
	}

	entities, stats, err := charref.Extract(doc.HTML, log)
	if err != nil {
		return Result{Source: doc.Source, Stats: stats}, err
	}
	log.Info(fmt.Sprintf("Parsed %d HTML entities from %s", entities.Len(), doc.Source),
		"size", humanize.Bytes(uint64(doc.Size())),
		"legacy_skipped", stats.Legacy,
		"duplicates", stats.Duplicates)

	selected, err := charref.Filter(entities, filter)
	if err != nil {
		return Result{}, err
	}
	if filter != charref.FilterNone {
		log.Info("filtered entities",
			"filter", string(filter),
			"kept", selected.Len(),
			"dropped", entities.Len()-selected.Len())
		if selected.Len() == 0 {
			log.Warn("filter left no entities", "filter", string(filter))
		}
	}

	rendered, err := enc.Encode(charref.Prefix(selected, cfg.Prefix))
	if err != nil {
		return Result{}, fmt.Errorf("failed to render %s output: %w", enc.Format(), err)
	}

	return Result{
		Document: rendered,
		Source:   doc.Source,
		Stats:    stats,
		Emitted:  selected.Len(),
	}, nil
}

// Deliver writes doc to cfg.Output, or to stdout with a trailing newline
// when no output path is set.
func Deliver(cfg config.Config, doc string, stdout io.Writer, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if cfg.Output == "" {
		return output.Emit(stdout, doc, true)
	}

	f, err := os.Create(cfg.Output) //#nosec G304 -- CLI tool writes to user-specified output file
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := output.Emit(f, doc, false); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info(fmt.Sprintf("Output written to '%s'", cfg.Output),
		"size", humanize.Bytes(uint64(len(doc))))
	return nil
}
