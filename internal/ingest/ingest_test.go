// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/report-engine/internal/score"
	"github.com/pdiddy/report-engine/pkg/types"
)

type fakeStore struct {
	docs      map[string]types.Document
	existsErr error
	upsertErr error
	upserts   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]types.Document)}
}

func (f *fakeStore) ExistsByHash(_ context.Context, hash string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.docs[hash]
	return ok, nil
}

func (f *fakeStore) UpsertDocument(_ context.Context, doc types.Document) (types.Document, error) {
	f.upserts++
	if f.upsertErr != nil {
		return types.Document{}, f.upsertErr
	}
	f.docs[doc.Hash] = doc
	return doc, nil
}

func testIngestor(store DocumentStore) *Ingestor {
	scorer := score.NewScorer(score.DefaultTables())
	logger := log.New(io.Discard)
	return NewIngestor(scorer, store, logger)
}

func rawDoc(title, url string) types.RawDocument {
	published := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return types.RawDocument{
		Title:       title,
		URL:         url,
		PublishedAt: &published,
		Content:     "attrition in india rose 23% in 2026",
	}
}

func TestIngestBatchDeduplicates(t *testing.T) {
	store := newFakeStore()
	in := testIngestor(store)

	batch := Batch{
		SourceType: types.SourceFeed,
		Documents: []types.RawDocument{
			rawDoc("Attrition climbs", "https://a.example/1"),
			rawDoc("Attrition climbs", "https://a.example/1"),
			rawDoc("Hiring slows", "https://a.example/2"),
		},
	}

	summary, err := in.IngestBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if summary.Ingested != 2 || summary.Skipped != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if len(store.docs) != 2 {
		t.Errorf("stored %d documents, want 2", len(store.docs))
	}
	for _, d := range store.docs {
		if d.Hash == "" || d.Scores.Composite == 0 {
			t.Errorf("stored document missing hash or scores: %+v", d)
		}
		if d.SourceType != types.SourceFeed {
			t.Errorf("source type = %q", d.SourceType)
		}
	}
}

func TestIngestBatchRefreshUpdatesExisting(t *testing.T) {
	store := newFakeStore()
	in := testIngestor(store)

	batch := Batch{Documents: []types.RawDocument{rawDoc("One", "https://a.example/1")}}
	if _, err := in.IngestBatch(context.Background(), batch); err != nil {
		t.Fatal(err)
	}

	in.Refresh = true
	summary, err := in.IngestBatch(context.Background(), batch)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Updated != 1 || summary.Ingested != 0 || summary.Skipped != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if store.upserts != 2 {
		t.Errorf("upserts = %d, want 2", store.upserts)
	}
}

func TestIngestBatchCountsFailures(t *testing.T) {
	store := newFakeStore()
	in := testIngestor(store)

	batch := Batch{Documents: []types.RawDocument{
		{},
		rawDoc("Good", "https://a.example/1"),
	}}

	summary, err := in.IngestBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if summary.Failed != 1 || summary.Ingested != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Total() != 2 {
		t.Errorf("total = %d", summary.Total())
	}
}

func TestIngestBatchUpsertFailureDoesNotAbort(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = errors.New("disk full")
	in := testIngestor(store)

	batch := Batch{Documents: []types.RawDocument{
		rawDoc("One", "https://a.example/1"),
		rawDoc("Two", "https://a.example/2"),
	}}
	summary, err := in.IngestBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if summary.Failed != 2 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestIngestBatchHonorsCancellation(t *testing.T) {
	store := newFakeStore()
	in := testIngestor(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := Batch{Documents: []types.RawDocument{rawDoc("One", "https://a.example/1")}}
	if _, err := in.IngestBatch(ctx, batch); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	data := `source_type: feed
documents:
  - title: Attrition climbs
    url: https://a.example/1
    published_at: 2026-05-01T00:00:00Z
    content: attrition rose
  - title: Hiring slows
    url: https://a.example/2
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	batch, err := LoadBatch(path)
	if err != nil {
		t.Fatalf("LoadBatch: %v", err)
	}
	if batch.SourceType != types.SourceFeed {
		t.Errorf("source type = %q", batch.SourceType)
	}
	if len(batch.Documents) != 2 {
		t.Fatalf("got %d documents", len(batch.Documents))
	}
	if batch.Documents[0].Title != "Attrition climbs" {
		t.Errorf("title = %q", batch.Documents[0].Title)
	}
	if batch.Documents[0].PublishedAt == nil {
		t.Error("published_at not parsed")
	}
}

func TestLoadBatchDefaultsSourceType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	if err := os.WriteFile(path, []byte("documents:\n  - title: T\n    url: https://a.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	batch, err := LoadBatch(path)
	if err != nil {
		t.Fatal(err)
	}
	if batch.SourceType != types.SourceWeb {
		t.Errorf("default source type = %q, want web", batch.SourceType)
	}
}
