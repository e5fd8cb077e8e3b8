// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the report-engine pipeline.
package types

import "time"

// SourceType labels where a raw document came from. Collectors differ in the
// fields they can populate, but the core treats them uniformly beyond this label.
type SourceType string

const (
	SourceWeb  SourceType = "web"
	SourceFeed SourceType = "feed"
	SourceWire SourceType = "wire"
)

// RawDocument is the normalized shape of a candidate document as delivered by
// the collectors. All fields other than Title are optional; the scorer treats
// absent fields as empty rather than failing.
type RawDocument struct {
	// Title is the document title as delivered by the collector.
	Title string `json:"title" yaml:"title"`

	// URL is the canonical URL. Feed items without a stable URL leave this
	// empty and set GUID instead.
	URL string `json:"url" yaml:"url"`

	// GUID is a feed-level identifier used as a hash fallback when URL is empty.
	GUID string `json:"guid,omitempty" yaml:"guid,omitempty"`

	// Author is the document author, when known.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// PublishedAt is the publication timestamp, when known.
	PublishedAt *time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`

	// Snippet is a short free-text teaser or summary.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Content is the full extracted body text.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Categories are free-form tags assigned by the collector.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Language is a BCP-47 language code (e.g. "en").
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Provenance is free-form collector metadata (feed name, query, crawl id).
	Provenance map[string]string `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

// Scores holds the four sub-scores and the derived composite for a document.
// Each sub-score lies in [0,1]; freshness is clamped to [0.1,1]. Composite is
// always the fixed 40/30/20/10 weighted combination of the sub-scores and is
// never set independently.
type Scores struct {
	// DomainAuthority is the host-based authority value.
	DomainAuthority float64 `json:"domain_authority" yaml:"domain_authority"`

	// TopicalContext is the keyword-density score with category bonuses.
	TopicalContext float64 `json:"topical_context" yaml:"topical_context"`

	// Freshness decays exponentially with document age (half-life 180 days).
	Freshness float64 `json:"freshness" yaml:"freshness"`

	// Extractability estimates how much hard data the text carries.
	Extractability float64 `json:"extractability" yaml:"extractability"`

	// Composite is 0.4*authority + 0.3*topical + 0.2*freshness + 0.1*extractability.
	Composite float64 `json:"composite" yaml:"composite"`
}

// Document is one scored, stored candidate source usable as report evidence.
type Document struct {
	// Hash is the stable content identity derived from title and URL.
	Hash string `json:"hash" yaml:"hash"`

	// Title is the document title.
	Title string `json:"title" yaml:"title"`

	// URL is the canonical URL, unique across the store.
	URL string `json:"url" yaml:"url"`

	// Author is the document author, when known.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// PublishedAt is the publication timestamp, when known.
	PublishedAt *time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`

	// CollectedAt is when the document entered the store.
	CollectedAt time.Time `json:"collected_at" yaml:"collected_at"`

	// Snippet is a short free-text teaser or summary.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Content is the full body text.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Categories are collector-assigned tags.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Language is a BCP-47 language code.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// SourceType labels the originating collector kind.
	SourceType SourceType `json:"source_type" yaml:"source_type"`

	// Scores holds the sub-scores and composite.
	Scores Scores `json:"scores" yaml:"scores"`

	// HasStatistics reports whether the text contains percentage-style figures.
	HasStatistics bool `json:"has_statistics" yaml:"has_statistics"`

	// HasDates reports whether the text contains date or year tokens.
	HasDates bool `json:"has_dates" yaml:"has_dates"`

	// HasNumbers reports whether the text contains numeric data.
	HasNumbers bool `json:"has_numbers" yaml:"has_numbers"`

	// WordCount is the whitespace-token count of the body (snippet and title
	// are fallbacks when the body is empty).
	WordCount int `json:"word_count" yaml:"word_count"`

	// Provenance is free-form collector metadata.
	Provenance map[string]string `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

// EffectiveDate returns the publish date when known, otherwise the collection
// date. The selector's recency window filters on this value.
func (d Document) EffectiveDate() time.Time {
	if d.PublishedAt != nil && !d.PublishedAt.IsZero() {
		return *d.PublishedAt
	}
	return d.CollectedAt
}
