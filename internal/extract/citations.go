// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract resolves inline source markers in generated report text to
// the documents they reference, and partitions the text into titled sections
// for rendering.
package extract

import (
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"github.com/pdiddy/report-engine/pkg/types"
)

// contextWindow is the number of characters kept on each side of a marker
// when capturing surrounding report text.
const contextWindow = 50

// Marker is one inline source reference found in generated text.
type Marker struct {
	// Label is the 1-based source number as written in the text.
	Label int

	// Start and End are byte offsets of the marker in the text.
	Start int
	End   int
}

// MarkerParser finds inline source markers in text. The synthesizer prompts
// for the "[Source N]" syntax; swapping the syntax means swapping the parser,
// not the extraction logic.
type MarkerParser interface {
	FindMarkers(text string) []Marker
}

// sourceMarkerRe matches the default inline syntax: [Source 3].
var sourceMarkerRe = regexp.MustCompile(`\[Source\s+(\d+)\]`)

// BracketParser parses the default "[Source N]" marker syntax.
type BracketParser struct{}

// FindMarkers returns all well-formed markers in order of appearance.
func (BracketParser) FindMarkers(text string) []Marker {
	var markers []Marker
	for _, m := range sourceMarkerRe.FindAllStringSubmatchIndex(text, -1) {
		label, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		markers = append(markers, Marker{Label: label, Start: m[0], End: m[1]})
	}
	return markers
}

// Citations scans generated text for source markers and resolves each against
// the prompt-ordered source list (label 1 is sources[0]). Out-of-range labels
// are silently skipped. Sequence numbers are contiguous from 1 in order of
// appearance, independent of the label values; a source cited three times
// yields three citations pointing at the same document.
func Citations(text, reportID string, sources []types.Document, parser MarkerParser) []types.Citation {
	if parser == nil {
		parser = BracketParser{}
	}

	var citations []types.Citation
	seq := 0
	for _, m := range parser.FindMarkers(text) {
		idx := m.Label - 1
		if idx < 0 || idx >= len(sources) {
			continue
		}
		seq++
		citations = append(citations, types.Citation{
			ID:           uuid.NewString(),
			ReportID:     reportID,
			DocumentHash: sources[idx].Hash,
			Seq:          seq,
			CitedText:    sources[idx].Title,
			Context:      contextAround(text, m.Start, m.End),
		})
	}
	return citations
}

// contextAround returns a window of text centered on the marker occurrence,
// roughly 100 characters plus the marker itself.
func contextAround(text string, start, end int) string {
	from := start - contextWindow
	if from < 0 {
		from = 0
	}
	to := end + contextWindow
	if to > len(text) {
		to = len(text)
	}
	return text[from:to]
}
