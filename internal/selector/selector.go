// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector picks which stored documents feed a report request. It
// layers keyword expansion, recency filtering, and a quality floor on top of
// the store's ranked text search.
package selector

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/report-engine/internal/score"
	"github.com/pdiddy/report-engine/pkg/types"
)

const (
	defaultQualityFloor   = 0.3
	defaultExpansionLimit = 10
)

// Searcher is the store capability the selector needs: a ranked full-text
// search. Terms joined by a literal "OR" token match any term.
type Searcher interface {
	SearchByText(ctx context.Context, query string, limit int) ([]types.Document, error)
}

// Selector ranks and filters candidate documents for a topic.
type Selector struct {
	search Searcher
	tables score.Tables
	cfg    types.SelectorConfig
	logger *log.Logger

	// now is overridable in tests; the recency window is anchored to it.
	now func() time.Time
}

// New creates a selector over the given searcher and tables.
func New(search Searcher, tables score.Tables, cfg types.SelectorConfig, logger *log.Logger) *Selector {
	if cfg.QualityFloor == 0 {
		cfg.QualityFloor = defaultQualityFloor
	}
	if cfg.ExpansionLimit <= 0 {
		cfg.ExpansionLimit = defaultExpansionLimit
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Selector{
		search: search,
		tables: tables,
		cfg:    cfg,
		logger: logger.WithPrefix("selector"),
		now:    time.Now,
	}
}

// Select returns up to maxSources documents for the topic, highest composite
// score first. A direct search that comes back under-filled (fewer than
// maxSources/2 hits) is widened by one synonym-expanded search per topic
// keyword. Documents outside the recency window or at or below the quality
// floor are discarded. An empty result is not an error here; the synthesizer
// treats it as a hard failure.
func (sel *Selector) Select(ctx context.Context, topic string, maxSources, windowDays int) ([]types.Document, error) {
	candidates, err := sel.search.SearchByText(ctx, topic, maxSources)
	if err != nil {
		return nil, fmt.Errorf("searching for topic %q: %w", topic, err)
	}

	if len(candidates) < maxSources/2 {
		candidates = sel.expand(ctx, topic, candidates, maxSources)
	}

	cutoff := sel.now().AddDate(0, 0, -windowDays)

	var selected []types.Document
	for _, doc := range candidates {
		if doc.EffectiveDate().Before(cutoff) {
			continue
		}
		if doc.Scores.Composite <= sel.cfg.QualityFloor {
			continue
		}
		selected = append(selected, doc)
	}

	sortByComposite(selected)
	return selected, nil
}

// expand widens an under-filled search: one extra query per topic keyword,
// each including the keyword's synonyms, capped at the expansion limit. The
// merged pool is deduplicated by content hash, sorted, and truncated to
// maxSources. Individual expansion queries that fail are logged and skipped.
func (sel *Selector) expand(ctx context.Context, topic string, seed []types.Document, maxSources int) []types.Document {
	candidates := seed

	for _, kw := range ExtractKeywords(topic) {
		query := sel.expandedQuery(kw)
		more, err := sel.search.SearchByText(ctx, query, sel.cfg.ExpansionLimit)
		if err != nil {
			sel.logger.Warn("expansion query failed", "keyword", kw, "err", err)
			continue
		}
		candidates = append(candidates, more...)
	}

	candidates = dedupeByHash(candidates)
	sortByComposite(candidates)
	if len(candidates) > maxSources {
		candidates = candidates[:maxSources]
	}
	return candidates
}

// expandedQuery builds an any-term query from a keyword and its synonyms.
func (sel *Selector) expandedQuery(keyword string) string {
	terms := []string{keyword}
	terms = append(terms, sel.tables.Synonyms[keyword]...)
	return strings.Join(terms, " OR ")
}

// ExtractKeywords tokenizes a topic: punctuation stripped, lowercased, and
// tokens of three characters or fewer dropped.
func ExtractKeywords(topic string) []string {
	var keywords []string
	for _, tok := range strings.Fields(strings.ToLower(topic)) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
		})
		if len(tok) <= 3 {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

// dedupeByHash keeps the first occurrence of each content hash.
func dedupeByHash(docs []types.Document) []types.Document {
	seen := make(map[string]bool, len(docs))
	var out []types.Document
	for _, doc := range docs {
		if seen[doc.Hash] {
			continue
		}
		seen[doc.Hash] = true
		out = append(out, doc)
	}
	return out
}

// sortByComposite orders by composite score descending, breaking ties by
// hash so ordering is deterministic for identical inputs.
func sortByComposite(docs []types.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Scores.Composite != docs[j].Scores.Composite {
			return docs[i].Scores.Composite > docs[j].Scores.Composite
		}
		return docs[i].Hash < docs[j].Hash
	})
}
