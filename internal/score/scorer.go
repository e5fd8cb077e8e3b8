// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/report-engine/pkg/types"
)

// Composite weighting. The 40/30/20/10 split is the contract; callers cannot
// vary it per document.
const (
	weightAuthority      = 0.4
	weightTopical        = 0.3
	weightFreshness      = 0.2
	weightExtractability = 0.1
)

const (
	freshnessHalfLifeDays = 180.0
	freshnessFloor        = 0.1
	freshnessUnknown      = 0.5
	extractabilityBase    = 0.3
)

// Extraction patterns. The boolean flag patterns below overlap with these but
// are not identical; scoring and flags are kept separate on purpose.
var (
	percentRe      = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:%|percent\b|per cent\b)`)
	currencySymRe  = regexp.MustCompile(`[₹$€£]\s?\d`)
	currencyWordRe = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:million|billion|trillion|lakh|crore)\b`)
	yearRe         = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	groupedNumRe   = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})+\b`)
	longQuoteRe    = regexp.MustCompile(`"[^"]{20,}"`)
	analysisRe     = regexp.MustCompile(`(?i)\b(?:survey|study|report|analysis)\b`)

	statsFlagRe = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:%|percent|percentage points?)`)
	datesFlagRe = regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\b|\b(?:19|20)\d{2}\b`)
	numbersFlagRe = regexp.MustCompile(`\d`)
)

// Scorer computes sub-scores and the composite for raw documents. It carries
// no state beyond the injected tables and is safe for concurrent use.
type Scorer struct {
	tables Tables

	// now is overridable in tests; freshness depends on the current time.
	now func() time.Time
}

// NewScorer creates a scorer over the given tables.
func NewScorer(tables Tables) *Scorer {
	return &Scorer{tables: tables, now: time.Now}
}

// Score converts a raw candidate into a scored Document. Missing optional
// fields are treated as empty; Score never fails. The returned document's
// CollectedAt is set to now and its Hash is left for the ingest stage.
func (s *Scorer) Score(raw types.RawDocument, sourceType types.SourceType) types.Document {
	text := strings.ToLower(raw.Title + " " + raw.Snippet + " " + raw.Content)
	now := s.now().UTC()

	scores := types.Scores{
		DomainAuthority: s.domainAuthority(raw.URL),
		TopicalContext:  s.topicalContext(text),
		Freshness:       s.freshness(raw.PublishedAt, now),
		Extractability:  s.extractability(text),
	}
	scores.Composite = Composite(scores)

	return types.Document{
		Title:         raw.Title,
		URL:           raw.URL,
		Author:        raw.Author,
		PublishedAt:   raw.PublishedAt,
		CollectedAt:   now,
		Snippet:       raw.Snippet,
		Content:       raw.Content,
		Categories:    raw.Categories,
		Language:      raw.Language,
		SourceType:    sourceType,
		Scores:        scores,
		HasStatistics: statsFlagRe.MatchString(text),
		HasDates:      datesFlagRe.MatchString(text),
		HasNumbers:    numbersFlagRe.MatchString(text),
		WordCount:     wordCount(raw),
		Provenance:    raw.Provenance,
	}
}

// Composite combines the four sub-scores with the fixed weights.
func Composite(s types.Scores) float64 {
	return weightAuthority*s.DomainAuthority +
		weightTopical*s.TopicalContext +
		weightFreshness*s.Freshness +
		weightExtractability*s.Extractability
}

// domainAuthority looks up the URL host in the authority table. Unknown or
// unparsable hosts get the configured default.
func (s *Scorer) domainAuthority(rawURL string) float64 {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return s.tables.DefaultAuthority
	}

	host := strings.ToLower(parsed.Host)
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")

	if v, ok := s.tables.Authority[host]; ok {
		return v
	}
	return s.tables.DefaultAuthority
}

// topicalContext scores keyword density over the tokenized text, then layers
// category bonuses on top. Bonuses deliberately push high-signal documents
// well above what density alone would produce.
func (s *Scorer) topicalContext(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}

	keywords := make(map[string]bool, len(s.tables.Keywords))
	for _, k := range s.tables.Keywords {
		keywords[strings.ToLower(k)] = true
	}

	hits := 0
	for _, tok := range tokens {
		if keywords[strings.Trim(tok, `.,;:!?"'()[]`)] {
			hits++
		}
	}

	density := math.Min(1.0, float64(hits)/float64(len(tokens)))

	score := density
	for _, group := range s.tables.Bonuses {
		for _, term := range group.Terms {
			if strings.Contains(text, strings.ToLower(term)) {
				score += group.Bonus
				break
			}
		}
	}

	return math.Min(1.0, score)
}

// freshness decays with document age at a 180-day half-life, clamped to
// [0.1,1.0]. Unknown publish dates score a neutral 0.5.
func (s *Scorer) freshness(published *time.Time, now time.Time) float64 {
	if published == nil || published.IsZero() {
		return freshnessUnknown
	}

	ageDays := now.Sub(*published).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}

	v := math.Pow(0.5, ageDays/freshnessHalfLifeDays)
	return clamp(v, freshnessFloor, 1.0)
}

// extractability estimates how much hard data the text carries: figures,
// amounts, years, and analysis language each add a fixed increment.
func (s *Scorer) extractability(text string) float64 {
	v := extractabilityBase

	if percentRe.MatchString(text) {
		v += 0.2
	}
	if currencySymRe.MatchString(text) {
		v += 0.15
	}
	if currencyWordRe.MatchString(text) {
		v += 0.15
	}
	if len(yearRe.FindAllString(text, 3)) >= 2 {
		v += 0.1
	}
	if len(groupedNumRe.FindAllString(text, 4)) >= 3 {
		v += 0.1
	}
	if longQuoteRe.MatchString(text) {
		v += 0.05
	}
	if analysisRe.MatchString(text) {
		v += 0.1
	}

	return math.Min(1.0, v)
}

// wordCount counts whitespace-delimited tokens of the body, falling back to
// the snippet and then the title.
func wordCount(raw types.RawDocument) int {
	for _, text := range []string{raw.Content, raw.Snippet, raw.Title} {
		if text != "" {
			return len(strings.Fields(text))
		}
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
