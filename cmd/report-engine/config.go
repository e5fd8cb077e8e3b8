// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/report-engine/pkg/types"
)

// pipelineConfig assembles the stage configurations from config file, env,
// and the persistent data-dir flag. Per-command flags override on top.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = "data"
	}

	return types.PipelineConfig{
		Store: types.StoreConfig{
			DataDir:    dataDir,
			MaxResults: viper.GetInt("store.max_results"),
		},
		Selector: types.SelectorConfig{
			QualityFloor:   viper.GetFloat64("selector.quality_floor"),
			ExpansionLimit: viper.GetInt("selector.expansion_limit"),
		},
		Generation: types.GenerationConfig{
			Model:             viper.GetString("generation.model"),
			APIKey:            secretDefault("openai-api-key", viper.GetString("generation.api_key")),
			BaseURL:           viper.GetString("generation.base_url"),
			MaxTokens:         viper.GetInt("generation.max_tokens"),
			Temperature:       float32(viper.GetFloat64("generation.temperature")),
			MaxRetries:        viper.GetInt("generation.max_retries"),
			RequestsPerMinute: viper.GetFloat64("generation.requests_per_minute"),
			Timeout:           viper.GetDuration("generation.timeout"),
			ExcerptChars:      viper.GetInt("generation.excerpt_chars"),
			ReuseWindow:       viper.GetDuration("generation.reuse_window"),
		},
		Render: types.RenderConfig{
			OutputDir: viper.GetString("render.output_dir"),
		},
	}
}
