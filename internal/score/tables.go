// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score assigns quality and relevance scores to candidate documents.
// Scoring is pure computation over injected tables: no I/O, no shared state.
package score

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// BonusGroup is a category of high-signal terms that adds a fixed bonus to the
// topical-context score when any of its terms appears in the text. Bonuses are
// additive and intentionally overlap with raw keyword density.
type BonusGroup struct {
	// Label names the category (e.g. "country", "regulatory").
	Label string `json:"label" yaml:"label"`

	// Terms are matched as lowercase substrings of the concatenated text.
	Terms []string `json:"terms" yaml:"terms"`

	// Bonus is added to the density score when any term matches.
	Bonus float64 `json:"bonus" yaml:"bonus"`
}

// Tables is the immutable configuration data the scorer and selector run on.
// Callers construct one set at startup and pass it in; nothing in this package
// mutates it.
type Tables struct {
	// Authority maps a URL host to its authority value in [0,1].
	Authority map[string]float64 `json:"authority" yaml:"authority"`

	// DefaultAuthority is used for hosts absent from Authority.
	DefaultAuthority float64 `json:"default_authority" yaml:"default_authority"`

	// Keywords is the fixed list of domain terms counted for keyword density.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Bonuses are the high-value term categories layered on top of density.
	Bonuses []BonusGroup `json:"bonuses" yaml:"bonuses"`

	// Synonyms expands topic keywords during under-filled source selection.
	Synonyms map[string][]string `json:"synonyms" yaml:"synonyms"`
}

// DefaultTables returns the built-in tables targeting Indian labour-market and
// economic reporting.
func DefaultTables() Tables {
	return Tables{
		Authority: map[string]float64{
			"rbi.org.in":                  0.95,
			"mospi.gov.in":                0.95,
			"labour.gov.in":               0.95,
			"niti.gov.in":                 0.90,
			"epfindia.gov.in":             0.90,
			"reuters.com":                 0.92,
			"economictimes.indiatimes.com": 0.90,
			"thehindu.com":                0.88,
			"livemint.com":                0.85,
			"business-standard.com":       0.85,
			"indianexpress.com":           0.82,
			"hindustantimes.com":          0.80,
			"timesofindia.indiatimes.com": 0.80,
			"moneycontrol.com":            0.80,
			"financialexpress.com":        0.78,
		},
		DefaultAuthority: 0.70,
		Keywords: []string{
			"attrition", "turnover", "retention", "employment", "unemployment",
			"hiring", "layoff", "layoffs", "workforce", "labour", "labor",
			"salary", "wages", "compensation", "hr", "employee", "employees",
			"recruitment", "resignation", "jobs", "payroll", "staffing",
		},
		Bonuses: []BonusGroup{
			{
				Label: "country",
				Terms: []string{"india"},
				Bonus: 0.20,
			},
			{
				Label: "regulatory",
				Terms: []string{"epfo", "provident fund", "gratuity", "esic", "pension", "social security code"},
				Bonus: 0.30,
			},
			{
				Label: "legal",
				Terms: []string{"labour code", "industrial relations", "minimum wages act", "ministry of labour", "gazette notification"},
				Bonus: 0.20,
			},
			{
				Label: "currency",
				Terms: []string{"₹", "lakh", "crore", "rs."},
				Bonus: 0.15,
			},
		},
		Synonyms: map[string][]string{
			"attrition":  {"turnover", "retention", "quit", "resign"},
			"salary":     {"wages", "pay", "compensation"},
			"employee":   {"worker", "staff", "workforce"},
			"layoffs":    {"retrenchment", "downsizing", "job cuts"},
			"hiring":     {"recruitment", "headcount", "vacancies"},
			"unemployment": {"joblessness", "labour force"},
		},
	}
}

// LoadTables reads a Tables override from a YAML file. Fields left empty in
// the file fall back to the defaults, so a file can override just the
// authority map or just the synonyms.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("reading tables file: %w", err)
	}

	var loaded Tables
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Tables{}, fmt.Errorf("parsing tables file: %w", err)
	}

	merged := DefaultTables()
	if len(loaded.Authority) > 0 {
		merged.Authority = loaded.Authority
	}
	if loaded.DefaultAuthority > 0 {
		merged.DefaultAuthority = loaded.DefaultAuthority
	}
	if len(loaded.Keywords) > 0 {
		merged.Keywords = loaded.Keywords
	}
	if len(loaded.Bonuses) > 0 {
		merged.Bonuses = loaded.Bonuses
	}
	if len(loaded.Synonyms) > 0 {
		merged.Synonyms = loaded.Synonyms
	}
	return merged, nil
}
