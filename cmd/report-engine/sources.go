// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/report-engine/internal/store"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources [query]",
	Short: "Search the document index",
	Long: `Sources runs a full-text search over stored document titles, snippets,
and bodies. Results are ranked by text relevance; scores and flags are shown
so selection behavior can be inspected before generating a report.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSources,
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	s, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	docs, err := s.SearchByText(context.Background(), query, limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-50s  %-10s  %-9s  %s\n",
		"Hash", "Title", "Date", "Composite", "Type")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 92))
	for _, d := range docs {
		fmt.Fprintf(os.Stdout, "%-10s  %-50s  %-10s  %9.2f  %s\n",
			shortHash(d.Hash), truncate(d.Title, 50),
			d.EffectiveDate().Format("2006-01-02"),
			d.Scores.Composite, d.SourceType)
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 10 {
		return hash[:10]
	}
	return hash
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	sourcesCmd.Flags().Int("limit", 20, "maximum number of results")
	sourcesCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(sourcesCmd)
}
