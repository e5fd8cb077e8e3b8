// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a finished report into a standalone HTML page and
// writes it to the output directory as an artifact named after the report ID.
package render

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/report-engine/pkg/types"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Report.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 46em; margin: 2em auto; padding: 0 1em; color: #1a1a1a; }
h1 { border-bottom: 2px solid #1a1a1a; padding-bottom: 0.3em; }
h2 { margin-top: 1.6em; }
.meta { color: #555; font-size: 0.9em; }
.summary { background: #f4f4f0; padding: 1em; border-left: 4px solid #888; }
.bibliography li { margin-bottom: 0.5em; }
.methodology { font-size: 0.9em; color: #444; margin-top: 2em; border-top: 1px solid #ccc; padding-top: 1em; }
</style>
</head>
<body>
<h1>{{.Report.Title}}</h1>
<p class="meta">Generated {{.Report.CreatedAt.Format "2006-01-02"}} &middot; {{.Report.SourceCount}} sources &middot; confidence {{printf "%.2f" .Report.Confidence}}</p>
<div class="summary">{{.Report.Summary}}</div>
{{range .Sections}}
{{if .Title}}<h2>{{.Title}}</h2>{{end}}
{{range paragraphs .Body}}<p>{{.}}</p>
{{end}}
{{end}}
<h2>Sources</h2>
<ol class="bibliography">
{{range .Sources}}<li><a href="{{.URL}}">{{.Title}}</a>{{if .PublishedAt}} ({{.PublishedAt.Format "2006-01-02"}}){{end}}</li>
{{end}}</ol>
<p class="methodology">{{.Report.Methodology}}</p>
</body>
</html>
`

// HTMLRenderer renders reports with a fixed embedded template.
type HTMLRenderer struct {
	cfg  types.RenderConfig
	tmpl *template.Template
}

func New(cfg types.RenderConfig) *HTMLRenderer {
	tmpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"paragraphs": paragraphs,
	}).Parse(pageTemplate))
	return &HTMLRenderer{cfg: cfg, tmpl: tmpl}
}

type pageData struct {
	Report   types.Report
	Sources  []types.Document
	Sections []types.Section
}

// HTML renders the full page for a report.
func (r *HTMLRenderer) HTML(rep types.Report, sources []types.Document, sections []types.Section) (string, error) {
	var b strings.Builder
	data := pageData{Report: rep, Sources: sources, Sections: sections}
	if err := r.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering report %s: %w", rep.ID, err)
	}
	return b.String(), nil
}

// WriteArtifact writes the report's HTML to <OutputDir>/<report-id>.html and
// returns the path.
func (r *HTMLRenderer) WriteArtifact(rep types.Report) (string, error) {
	if rep.HTML == "" {
		return "", fmt.Errorf("report %s has no rendered html", rep.ID)
	}
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(r.cfg.OutputDir, rep.ID+".html")
	if err := os.WriteFile(path, []byte(rep.HTML), 0o644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	return path, nil
}

// paragraphs splits section text on blank lines so the template can wrap
// each paragraph individually.
func paragraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			out = append(out, block)
		}
	}
	return out
}
