package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/parser"
	"github.com/dgallion1/tldr/internal/store"
)

func newTestWorker(t *testing.T) (*Worker, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWorker(st, config.DefaultOptions(), parser.Options{}, log), st
}

func submitFile(w *Worker, filename, content string, force bool) JobSnapshot {
	job := NewJob("", filename, "", force)
	job.SetFileData([]byte(content))
	w.Process(context.Background(), job)
	return job.Snapshot()
}

func TestWorker_ProcessStoresDocument(t *testing.T) {
	w, st := newTestWorker(t)

	snap := submitFile(w, "notes.txt", "one two [tl2]three four[/tl2] [tl3]five[/tl3]", false)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.NetWords != [3]int{2, 2, 1} || snap.Progress.TotalWords != 5 {
		t.Errorf("unexpected counts %+v", snap.Progress)
	}
	if snap.Progress.Segments != [3]int{0, 1, 1} {
		t.Errorf("unexpected segments %v", snap.Progress.Segments)
	}

	doc, err := st.Get(context.Background(), snap.DocID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Title != "notes" || doc.ContentHash != snap.ContentHash {
		t.Errorf("unexpected stored document %+v", doc)
	}
}

func TestWorker_DedupSkipsSameContent(t *testing.T) {
	w, st := newTestWorker(t)

	first := submitFile(w, "a.txt", "same [tl2]text[/tl2]", false)
	second := submitFile(w, "b.txt", "same [tl2]text[/tl2]", false)

	if second.Status != StatusDupSkipped {
		t.Fatalf("expected duplicate_skipped, got %q", second.Status)
	}
	if second.Progress.DuplicateOf != first.DocID {
		t.Errorf("expected duplicate of %q, got %q", first.DocID, second.Progress.DuplicateOf)
	}

	forced := submitFile(w, "c.txt", "same [tl2]text[/tl2]", true)
	if forced.Status != StatusCompleted {
		t.Errorf("expected forced ingest to complete, got %q", forced.Status)
	}
	if n, _ := st.Count(context.Background()); n != 2 {
		t.Errorf("expected 2 stored documents, got %d", n)
	}
}

func TestWorker_UnsupportedFormat(t *testing.T) {
	w, _ := newTestWorker(t)
	snap := submitFile(w, "table.csv", "a,b", false)
	if snap.Status != StatusFailed || snap.Phase != "parsing" {
		t.Errorf("expected failure while parsing, got %q/%q", snap.Status, snap.Phase)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected one error, got %v", snap.Progress.Errors)
	}
}

func TestOrchestrator_SubmitAndWait(t *testing.T) {
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, st, config.DefaultOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("doc-1", "page.md", "Custom Title", false)
	job.SetFileData([]byte("# Heading\n\n[tl2]detail[/tl2]\n"))
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !o.GetJob(job.ID).Snapshot().Done() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for job")
		}
		time.Sleep(10 * time.Millisecond)
	}

	snap := o.GetJob(job.ID).Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (%v)", snap.Status, snap.Progress.Errors)
	}
	doc, err := o.Store().Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Custom Title" {
		t.Errorf("expected title override, got %q", doc.Title)
	}
}
