// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Report is a synthesized research report assembled from selected documents.
// A Report is created exactly once at the end of a successful generation and
// is immutable afterwards, except for RenderPath which is attached once the
// asynchronous artifact render completes.
type Report struct {
	// ID is an opaque identifier assigned at creation.
	ID string `json:"id" yaml:"id"`

	// Topic is the free-text topic the report was requested for.
	Topic string `json:"topic" yaml:"topic"`

	// TopicHash is a deterministic hash of the lowercased topic, used for
	// reuse lookups.
	TopicHash string `json:"topic_hash" yaml:"topic_hash"`

	// WindowDays is the recency window the sources were filtered by.
	WindowDays int `json:"window_days" yaml:"window_days"`

	// MaxSources is the requested source-count ceiling.
	MaxSources int `json:"max_sources" yaml:"max_sources"`

	// Title is the display title (capitalized topic with a year suffix).
	Title string `json:"title" yaml:"title"`

	// Body is the full generated report text.
	Body string `json:"body" yaml:"body"`

	// Summary is the short executive summary.
	Summary string `json:"summary" yaml:"summary"`

	// Methodology describes how the report was assembled.
	Methodology string `json:"methodology" yaml:"methodology"`

	// HTML is the rendered report page.
	HTML string `json:"html,omitempty" yaml:"html,omitempty"`

	// RenderPath is the path of the rendered artifact, attached late by the
	// asynchronous render step. Empty when rendering failed or is pending.
	RenderPath string `json:"render_path,omitempty" yaml:"render_path,omitempty"`

	// Confidence is the heuristic report-level quality estimate in [0.1,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// SourceCount is the number of documents used.
	SourceCount int `json:"source_count" yaml:"source_count"`

	// CitationCount is the number of citations extracted from Body.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// WordCount is the whitespace-token count of Body.
	WordCount int `json:"word_count" yaml:"word_count"`

	// Duration is how long generation took.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// SourceHashes lists the used documents' identities in prompt order.
	SourceHashes []string `json:"source_hashes" yaml:"source_hashes"`

	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Citation links a position in a report's generated text to the document it
// references. Citations are created in one batch after extraction and are
// immutable; they cascade away with their parent report.
type Citation struct {
	// ID is an opaque identifier.
	ID string `json:"id" yaml:"id"`

	// ReportID is the parent report.
	ReportID string `json:"report_id" yaml:"report_id"`

	// DocumentHash identifies the referenced document.
	DocumentHash string `json:"document_hash" yaml:"document_hash"`

	// Seq is the 1-based sequence number, contiguous within a report and
	// assigned in order of first appearance in the text.
	Seq int `json:"seq" yaml:"seq"`

	// CitedText is the literal linked text (the document title).
	CitedText string `json:"cited_text" yaml:"cited_text"`

	// Context is a short window of report text surrounding the marker.
	Context string `json:"context" yaml:"context"`
}

// Section is a titled slice of report text produced by the section
// partitioning pass. Sections exist for rendering only and are not persisted.
type Section struct {
	// Title is the heading text, empty for a leading untitled block.
	Title string `json:"title" yaml:"title"`

	// Body is the accumulated non-heading text of the section.
	Body string `json:"body" yaml:"body"`
}
