package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/parser"
	"github.com/dgallion1/tldr/internal/store"
	"github.com/dgallion1/tldr/internal/widget"
)

// Worker processes a single document job.
type Worker struct {
	store      *store.Store
	opts       config.Options
	parserOpts parser.Options
	log        *slog.Logger
}

func NewWorker(st *store.Store, opts config.Options, parserOpts parser.Options, log *slog.Logger) *Worker {
	return &Worker{
		store:      st,
		opts:       opts,
		parserOpts: parserOpts,
		log:        log,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	src, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	job.releaseFileData()
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		src.Title = job.Title
	}

	hash := ContentHashHex([]byte(src.Markup))
	job.SetContentHash(hash)

	// Phase 1.5: Dedup check
	if !job.Force {
		existing, found, err := w.store.FindByHash(ctx, hash)
		if err != nil {
			log.Warn("dedup check failed, proceeding", "error", err)
		} else if found && existing != job.DocID {
			log.Info("duplicate document, skipping", "existing_doc_id", existing)
			job.SetDuplicateOf(existing)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	// Phase 2: Analyze
	job.SetStatus(StatusAnalyzing, "analyzing")
	a := widget.Analyze(src.Markup, w.opts)
	var segments [3]int
	for _, l := range doctree.Levels {
		segments[l-1] = len(a.Tree.MatchesFor(l))
	}
	job.SetCounts(a.Counts.Total, a.Counts.Net, segments)
	log.Info("analyzed document", "words", a.Counts.Total, "net", a.Counts.Net, "segments", segments)

	// Phase 3: Store
	job.SetStatus(StatusStoring, "storing")
	doc := &store.Document{
		ID:          job.DocID,
		Title:       src.Title,
		Filename:    job.Filename,
		ContentHash: hash,
		Markup:      src.Markup,
		NetWords:    a.Counts.Net,
		TotalWords:  a.Counts.Total,
	}
	if err := w.put(ctx, log, doc); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	log.Info("document stored", "title", src.Title)
	job.SetStatus(StatusCompleted, "done")
}

// put writes doc, retrying while the database is busy.
func (w *Worker) put(ctx context.Context, log *slog.Logger, doc *store.Document) error {
	var lastErr error
	for attempt := range MaxRetries {
		lastErr = w.store.Put(ctx, doc)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
