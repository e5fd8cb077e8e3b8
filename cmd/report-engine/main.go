// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the report-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/report-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the report-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "report-engine",
	Short: "Research report pipeline over collected news and web sources",
	Long: `report-engine scores, deduplicates, and indexes collected documents, then
synthesizes cited research reports from the best sources for a topic.

Each pipeline stage is a subcommand: ingest scores and stores collector
batches, generate produces a report for a topic, sources queries the
document index, and reports manages generated reports.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./report-engine.yaml or ~/.config/report-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "base directory for the document store (contains index/)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("report-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "report-engine"))
		}
	}

	viper.SetDefault("store.max_results", 20)
	viper.SetDefault("selector.quality_floor", 0.3)
	viper.SetDefault("selector.expansion_limit", 10)
	viper.SetDefault("generation.model", "gpt-4o-mini")
	viper.SetDefault("generation.max_tokens", 4000)
	viper.SetDefault("generation.temperature", 0.4)
	viper.SetDefault("generation.max_retries", 3)
	viper.SetDefault("generation.requests_per_minute", 20)
	viper.SetDefault("generation.timeout", 2*time.Minute)
	viper.SetDefault("generation.excerpt_chars", 1200)
	viper.SetDefault("generation.reuse_window", time.Hour)
	viper.SetDefault("render.output_dir", "reports")

	viper.SetEnvPrefix("REPORT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
