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

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List and inspect generated reports",
	Long: `Reports manages previously generated reports. Use subcommands to list
recent reports, show one in full with its citations, or delete one.`,
}

// --- list subcommand ---

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent reports, newest first",
	RunE:  runReportsList,
}

func runReportsList(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	s, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	reports, err := s.ListReports(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	if len(reports) == 0 {
		fmt.Println("No reports found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-10s  %-10s  %s\n",
		"ID", "Topic", "Date", "Confidence", "Sources")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, r := range reports {
		fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-10s  %10.2f  %7d\n",
			r.ID, truncate(r.Topic, 40),
			r.CreatedAt.Format("2006-01-02"),
			r.Confidence, r.SourceCount)
	}
	return nil
}

// --- show subcommand ---

var reportsShowCmd = &cobra.Command{
	Use:   "show [report-id]",
	Short: "Print a report body with its citations",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsShow,
}

func runReportsShow(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	s, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	r, err := s.GetReport(ctx, args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(os.Stdout, "%s\n\n", r.Title)
	fmt.Fprintf(os.Stdout, "Summary: %s\n\n", r.Summary)
	fmt.Fprintln(os.Stdout, r.Body)

	if withCitations, _ := cmd.Flags().GetBool("citations"); withCitations {
		citations, err := s.ListCitations(ctx, r.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "\nCitations:")
		for _, c := range citations {
			fmt.Fprintf(os.Stdout, "  [%d] %s (%s)\n", c.Seq, c.CitedText, shortHash(c.DocumentHash))
		}
	}

	fmt.Fprintf(os.Stdout, "\n%s\n", r.Methodology)
	if r.RenderPath != "" {
		fmt.Fprintf(os.Stdout, "Rendered: %s\n", r.RenderPath)
	}
	return nil
}

// --- delete subcommand ---

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete [report-id]",
	Short: "Delete a report and its citations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig(cmd)
		s, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.DeleteReport(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted report %s\n", args[0])
		return nil
	},
}

func init() {
	reportsListCmd.Flags().Int("limit", 20, "maximum number of reports to list")
	reportsListCmd.Flags().Bool("json", false, "output as JSON")

	reportsShowCmd.Flags().Bool("citations", false, "include the citation list")
	reportsShowCmd.Flags().Bool("json", false, "output the full report as JSON")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	reportsCmd.AddCommand(reportsDeleteCmd)
	rootCmd.AddCommand(reportsCmd)
}
