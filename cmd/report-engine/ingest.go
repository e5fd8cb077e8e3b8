// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/report-engine/internal/ingest"
	"github.com/pdiddy/report-engine/internal/score"
	"github.com/pdiddy/report-engine/internal/store"
	"github.com/pdiddy/report-engine/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [batch-file...]",
	Short: "Score and index collector batch files",
	Long: `Ingest reads YAML batch files produced by the collectors, scores each raw
document for authority, topical context, freshness, and extractability, and
upserts the results into the document store. Documents already present
(by content hash) are skipped unless --refresh is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	tables := score.DefaultTables()
	if tablesPath, _ := cmd.Flags().GetString("tables"); tablesPath != "" {
		var err error
		tables, err = score.LoadTables(tablesPath)
		if err != nil {
			return err
		}
	}

	s, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	logger := log.New(os.Stderr)
	in := ingest.NewIngestor(score.NewScorer(tables), s, logger)
	in.Refresh, _ = cmd.Flags().GetBool("refresh")

	sourceType, _ := cmd.Flags().GetString("source-type")

	var total ingest.Summary
	for _, path := range args {
		batch, err := ingest.LoadBatch(path)
		if err != nil {
			return fmt.Errorf("batch %s: %w", path, err)
		}
		if sourceType != "" {
			batch.SourceType = types.SourceType(sourceType)
		}

		summary, err := in.IngestBatch(context.Background(), batch)
		if err != nil {
			return fmt.Errorf("batch %s: %w", path, err)
		}
		total.Ingested += summary.Ingested
		total.Updated += summary.Updated
		total.Skipped += summary.Skipped
		total.Failed += summary.Failed
	}

	fmt.Fprintf(os.Stdout, "Ingested %d, updated %d, skipped %d, failed %d (%d total)\n",
		total.Ingested, total.Updated, total.Skipped, total.Failed, total.Total())

	if total.Failed > 0 {
		return fmt.Errorf("%d document(s) failed ingestion", total.Failed)
	}
	return nil
}

func init() {
	ingestCmd.Flags().String("source-type", "", "override the batch source type: web, feed, or wire")
	ingestCmd.Flags().Bool("refresh", false, "re-score and update documents that already exist")
	ingestCmd.Flags().String("tables", "", "scoring tables YAML file (defaults to built-in tables)")

	rootCmd.AddCommand(ingestCmd)
}
