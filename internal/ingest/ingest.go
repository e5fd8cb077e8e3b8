// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/report-engine/internal/score"
	"github.com/pdiddy/report-engine/pkg/types"
)

// DocumentStore is the subset of the store the ingestor writes through.
type DocumentStore interface {
	ExistsByHash(ctx context.Context, hash string) (bool, error)
	UpsertDocument(ctx context.Context, doc types.Document) (types.Document, error)
}

// Batch is the on-disk shape of a collector output file: one source-type
// label and the raw documents gathered under it.
type Batch struct {
	SourceType types.SourceType  `json:"source_type" yaml:"source_type"`
	Documents  []types.RawDocument `json:"documents" yaml:"documents"`
}

// Summary holds counts from one ingestion run.
type Summary struct {
	Ingested int
	Updated  int
	Skipped  int
	Failed   int
}

// Total returns the number of raw documents processed.
func (s Summary) Total() int {
	return s.Ingested + s.Updated + s.Skipped + s.Failed
}

// Ingestor scores raw documents and upserts them into the store.
type Ingestor struct {
	scorer *score.Scorer
	store  DocumentStore
	logger *log.Logger

	// Refresh re-scores and updates documents that already exist. When false,
	// existing hashes are skipped, which is the fast path for feed batches.
	Refresh bool
}

// NewIngestor creates an ingestor over the given scorer and store.
func NewIngestor(scorer *score.Scorer, store DocumentStore, logger *log.Logger) *Ingestor {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Ingestor{scorer: scorer, store: store, logger: logger.WithPrefix("ingest")}
}

// LoadBatch reads a YAML batch file of raw documents.
func LoadBatch(path string) (Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Batch{}, fmt.Errorf("reading batch file: %w", err)
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return Batch{}, fmt.Errorf("parsing batch file: %w", err)
	}
	if batch.SourceType == "" {
		batch.SourceType = types.SourceWeb
	}
	return batch, nil
}

// IngestBatch scores and stores a batch of raw documents. Documents whose
// content hash already exists are skipped unless Refresh is set, in which
// case they are re-scored and updated in place. Individual failures are
// counted and logged; they do not abort the batch.
func (in *Ingestor) IngestBatch(ctx context.Context, batch Batch) (Summary, error) {
	var summary Summary

	for _, raw := range batch.Documents {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if raw.Title == "" && raw.URL == "" && raw.GUID == "" {
			in.logger.Warn("dropping raw document with no identity fields")
			summary.Failed++
			continue
		}

		hash := HashRaw(raw)

		exists, err := in.store.ExistsByHash(ctx, hash)
		if err != nil {
			in.logger.Error("existence check failed", "hash", hash, "err", err)
			summary.Failed++
			continue
		}

		if exists && !in.Refresh {
			summary.Skipped++
			continue
		}

		doc := in.scorer.Score(raw, batch.SourceType)
		doc.Hash = hash

		if _, err := in.store.UpsertDocument(ctx, doc); err != nil {
			in.logger.Error("upsert failed", "hash", hash, "title", raw.Title, "err", err)
			summary.Failed++
			continue
		}

		if exists {
			summary.Updated++
		} else {
			summary.Ingested++
		}
	}

	in.logger.Info("batch done",
		"ingested", summary.Ingested, "updated", summary.Updated,
		"skipped", summary.Skipped, "failed", summary.Failed)

	return summary, nil
}
