// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"math"
	"strings"

	"github.com/pdiddy/report-engine/pkg/types"
)

// Confidence derives the report-level confidence score from source quality,
// source count, generated-text length, and citation density. The formula is
// a fixed heuristic, not a statistical estimate:
//
//	0.5 + 0.3*mean(composite) + 0.2*min(1, n/10)
//	    + 0.1*min(1, words/1000) + 0.1*min(1, (citations/max(1, words/100))/5)
//
// clamped to [0.1, 1.0]. The max(1, ...) guard keeps the density term defined
// for empty text.
func Confidence(sources []types.Document, body string, citationCount int) float64 {
	words := len(strings.Fields(body))

	mean := 0.0
	if len(sources) > 0 {
		sum := 0.0
		for _, s := range sources {
			sum += s.Scores.Composite
		}
		mean = sum / float64(len(sources))
	}

	density := float64(citationCount) / math.Max(1, float64(words)/100)

	v := 0.5 +
		0.3*mean +
		0.2*math.Min(1.0, float64(len(sources))/10) +
		0.1*math.Min(1.0, float64(words)/1000) +
		0.1*math.Min(1.0, density/5)

	if v < 0.1 {
		return 0.1
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
