// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/report-engine/pkg/types"
)

func sampleReport() types.Report {
	return types.Report{
		ID:          "rep-123",
		Title:       "It attrition: 2026 Research Report",
		Summary:     "Attrition rose across IT services.",
		Methodology: "Synthesized from 2 sources.",
		SourceCount: 2,
		Confidence:  0.82,
		CreatedAt:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestHTMLRendersSectionsAndBibliography(t *testing.T) {
	published := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	sources := []types.Document{
		{Title: "Attrition climbs", URL: "https://a.example/1", PublishedAt: &published},
		{Title: "Hiring slows", URL: "https://b.example/2"},
	}
	sections := []types.Section{
		{Title: "", Body: "Intro paragraph."},
		{Title: "Key Findings", Body: "First finding.\n\nSecond finding."},
	}

	r := New(types.RenderConfig{OutputDir: t.TempDir()})
	html, err := r.HTML(sampleReport(), sources, sections)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}

	for _, want := range []string{
		"<title>It attrition: 2026 Research Report</title>",
		"<h2>Key Findings</h2>",
		"<p>First finding.</p>",
		"<p>Second finding.</p>",
		`<a href="https://a.example/1">Attrition climbs</a>`,
		"(2026-05-10)",
		"confidence 0.82",
		"Attrition rose across IT services.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
	if strings.Contains(html, "<h2></h2>") {
		t.Error("untitled section rendered an empty heading")
	}
}

func TestHTMLEscapesSourceTitles(t *testing.T) {
	sources := []types.Document{
		{Title: "<script>alert(1)</script>", URL: "https://a.example"},
	}
	r := New(types.RenderConfig{OutputDir: t.TempDir()})
	html, err := r.HTML(sampleReport(), sources, nil)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("source title not escaped")
	}
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()
	r := New(types.RenderConfig{OutputDir: filepath.Join(dir, "reports")})

	rep := sampleReport()
	rep.HTML = "<html>page</html>"

	path, err := r.WriteArtifact(rep)
	if err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
	if filepath.Base(path) != "rep-123.html" {
		t.Errorf("artifact named %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if string(data) != rep.HTML {
		t.Errorf("artifact content = %q", data)
	}
}

func TestWriteArtifactRequiresHTML(t *testing.T) {
	r := New(types.RenderConfig{OutputDir: t.TempDir()})
	if _, err := r.WriteArtifact(sampleReport()); err == nil {
		t.Error("expected error for report without rendered html")
	}
}
