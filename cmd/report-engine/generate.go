// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/report-engine/internal/llm"
	"github.com/pdiddy/report-engine/internal/render"
	"github.com/pdiddy/report-engine/internal/report"
	"github.com/pdiddy/report-engine/internal/score"
	"github.com/pdiddy/report-engine/internal/selector"
	"github.com/pdiddy/report-engine/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate a cited research report for a topic",
	Long: `Generate selects the best stored sources for a topic, synthesizes a
report with inline [Source N] citations, estimates a confidence score, and
writes the report to the store. An HTML artifact lands in the output
directory unless --no-render is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	cfg := pipelineConfig(cmd)

	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Generation.Model = model
	}

	maxSources, _ := cmd.Flags().GetInt("max-sources")
	windowDays, _ := cmd.Flags().GetInt("window-days")

	s, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	backend, err := llm.NewOpenAIBackend(cfg.Generation)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr)
	sel := selector.New(s, score.DefaultTables(), cfg.Selector, logger)

	var renderer report.Renderer
	if noRender, _ := cmd.Flags().GetBool("no-render"); !noRender {
		renderer = render.New(cfg.Render)
	}

	syn := report.NewSynthesizer(sel, backend, s, renderer, cfg.Generation, logger)

	r, err := syn.GenerateReport(context.Background(), topic, maxSources, windowDays)
	if err != nil {
		return err
	}
	syn.WaitRender()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(os.Stdout, "Report %s\n", r.ID)
	fmt.Fprintf(os.Stdout, "  Title:      %s\n", r.Title)
	fmt.Fprintf(os.Stdout, "  Sources:    %d\n", r.SourceCount)
	fmt.Fprintf(os.Stdout, "  Citations:  %d\n", r.CitationCount)
	fmt.Fprintf(os.Stdout, "  Words:      %d\n", r.WordCount)
	fmt.Fprintf(os.Stdout, "  Confidence: %.2f\n", r.Confidence)
	fmt.Fprintf(os.Stdout, "  Duration:   %s\n", r.Duration)
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, r.Summary)
	return nil
}

func init() {
	generateCmd.Flags().Int("max-sources", 10, "maximum number of sources to select")
	generateCmd.Flags().Int("window-days", 90, "recency window in days for source selection")
	generateCmd.Flags().String("model", "", "generation model identifier (overrides config)")
	generateCmd.Flags().Bool("no-render", false, "skip the HTML artifact")
	generateCmd.Flags().Bool("json", false, "output the full report as JSON")

	// Allow the output dir to be set per invocation.
	generateCmd.Flags().String("output-dir", "", "directory for rendered reports (overrides config)")
	_ = viper.BindPFlag("render.output_dir", generateCmd.Flags().Lookup("output-dir"))

	rootCmd.AddCommand(generateCmd)
}
