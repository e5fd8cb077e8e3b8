// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/report-engine/pkg/types"
)

// headingRe matches a markdown heading (#, ##, ###) or a numbered-list
// heading like "3. Outlook".
var headingRe = regexp.MustCompile(`^(?:#{1,3}\s+(.+)|(\d+)\.\s+(.+))$`)

// Sections partitions report text into titled sections by scanning for
// heading lines. Non-heading lines accumulate into the current section's
// body; whatever is accumulated when the text ends becomes the last section.
// Text before the first heading becomes a leading untitled section.
func Sections(text string) []types.Section {
	var (
		sections []types.Section
		title    string
		body     []string
	)

	flush := func() {
		joined := strings.TrimSpace(strings.Join(body, "\n"))
		if title == "" && joined == "" {
			body = nil
			return
		}
		sections = append(sections, types.Section{Title: title, Body: joined})
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		m := headingRe.FindStringSubmatch(strings.TrimSpace(line))
		if m != nil {
			flush()
			if m[1] != "" {
				title = strings.TrimSpace(m[1])
			} else {
				title = strings.TrimSpace(m[3])
			}
			continue
		}
		body = append(body, line)
	}
	flush()

	return sections
}
