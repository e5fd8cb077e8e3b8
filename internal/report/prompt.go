// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/report-engine/internal/llm"
	"github.com/pdiddy/report-engine/pkg/types"
)

const reportSystemPrompt = `You are a research analyst. You write structured,
factual reports grounded strictly in the numbered sources provided. Cite a
source inline as [Source N] immediately after every statement drawn from it.
Do not cite sources that are not in the list.`

// buildReportPrompt embeds the selected sources in rank order with 1-based
// index labels. The citation extractor resolves [Source N] markers against
// this exact ordering, so the source list must flow unchanged from here to
// extraction.
func buildReportPrompt(topic string, sources []types.Document, excerptChars int) []llm.Message {
	if excerptChars <= 0 {
		excerptChars = 1200
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a detailed research report on the topic: %s\n\n", topic)
	b.WriteString("Use markdown headings for structure. Base every claim on the sources below and cite them inline as [Source N].\n\nSources:\n\n")

	for i, src := range sources {
		published := "Unknown"
		if src.PublishedAt != nil && !src.PublishedAt.IsZero() {
			published = src.PublishedAt.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "[%d] %s\n", i+1, src.Title)
		fmt.Fprintf(&b, "    URL: %s\n", src.URL)
		fmt.Fprintf(&b, "    Published: %s\n", published)
		fmt.Fprintf(&b, "    Excerpt: %s\n\n", excerpt(src, excerptChars))
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: reportSystemPrompt},
		{Role: llm.RoleUser, Content: b.String()},
	}
}

// buildSummaryPrompt asks for the executive summary conditioned on the
// generated body and the source count.
func buildSummaryPrompt(body string, sourceCount int) []llm.Message {
	prompt := fmt.Sprintf(
		"Write a 150-200 word executive summary of the following research report, which was synthesized from %d sources. Plain prose, no headings, no citations.\n\n%s",
		sourceCount, body)
	return []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}
}

// fallbackSummary is used when summary generation fails; a missing summary
// never fails an otherwise successful report.
func fallbackSummary(topic string, sourceCount int) string {
	return fmt.Sprintf(
		"This report examines %s, drawing on %d ranked sources. See the full report body for findings and inline citations.",
		topic, sourceCount)
}

// excerpt returns the source's body truncated to the character budget,
// falling back to the snippet.
func excerpt(src types.Document, budget int) string {
	text := src.Content
	if text == "" {
		text = src.Snippet
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > budget {
		text = text[:budget]
	}
	return text
}

// reportTitle builds the display title: capitalized topic with a year stamp.
func reportTitle(topic string, now time.Time) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return fmt.Sprintf("Research Report %d", now.Year())
	}
	runes := []rune(topic)
	runes[0] = unicode.ToUpper(runes[0])
	return fmt.Sprintf("%s: %d Research Report", string(runes), now.Year())
}

// methodology describes how the report was assembled.
func methodology(sourceCount, windowDays int, now time.Time) string {
	return fmt.Sprintf(
		"Synthesized from %d sources published or collected within the last %d days, ranked by composite quality score. Citations were resolved against the ranked source list. Generated on %s.",
		sourceCount, windowDays, now.Format("2006-01-02"))
}
