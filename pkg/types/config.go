// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StoreConfig holds settings for the SQLite document/report store.
type StoreConfig struct {
	// DataDir is the base directory for the database (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// SelectorConfig holds settings for source selection.
type SelectorConfig struct {
	// QualityFloor discards documents whose composite score is at or below
	// this value (default 0.3).
	QualityFloor float64 `json:"quality_floor" yaml:"quality_floor"`

	// ExpansionLimit caps each keyword-expansion search (default 10).
	ExpansionLimit int `json:"expansion_limit" yaml:"expansion_limit"`
}

// GenerationConfig holds settings for the text-generation backend.
type GenerationConfig struct {
	// Model is the backend model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the backend API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the backend endpoint (empty uses the default).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxTokens limits the length of a single generation (default 4000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature (default 0.4).
	Temperature float32 `json:"temperature" yaml:"temperature"`

	// MaxRetries is the retry budget for rate-limited API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestsPerMinute throttles backend calls (default 20).
	RequestsPerMinute float64 `json:"requests_per_minute" yaml:"requests_per_minute"`

	// Timeout is the per-call timeout (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// ExcerptChars is the per-source body budget embedded in the prompt
	// (default 1200 characters).
	ExcerptChars int `json:"excerpt_chars" yaml:"excerpt_chars"`

	// ReuseWindow is how long a generated report is returned for repeat
	// requests of the same topic hash. Zero disables reuse.
	ReuseWindow time.Duration `json:"reuse_window" yaml:"reuse_window"`
}

// RenderConfig holds settings for report artifact rendering.
type RenderConfig struct {
	// OutputDir is the directory for rendered report files (e.g. "reports/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Store      StoreConfig      `json:"store" yaml:"store"`
	Selector   SelectorConfig   `json:"selector" yaml:"selector"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Render     RenderConfig     `json:"render" yaml:"render"`
}
