// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selector

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/pdiddy/report-engine/internal/score"
	"github.com/pdiddy/report-engine/pkg/types"
)

// --- mock searcher ---

type mockSearcher struct {
	// byQuery maps exact query strings to canned results.
	byQuery map[string][]types.Document

	// direct is returned for any query not in byQuery.
	direct []types.Document

	err     error
	queries []string
}

func (m *mockSearcher) SearchByText(_ context.Context, query string, limit int) ([]types.Document, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	docs, ok := m.byQuery[query]
	if !ok {
		docs = m.direct
	}
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func testSelector(search Searcher) *Selector {
	sel := New(search, score.DefaultTables(), types.SelectorConfig{}, nil)
	sel.now = func() time.Time {
		return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	return sel
}

// doc builds a candidate published daysAgo days before the fixed test clock.
func doc(hash string, composite float64, daysAgo int) types.Document {
	published := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
	return types.Document{
		Hash:        hash,
		Title:       "doc " + hash,
		URL:         "https://example.org/" + hash,
		PublishedAt: &published,
		CollectedAt: published,
		Scores:      types.Scores{Composite: composite},
	}
}

// --- ExtractKeywords ---

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		want  []string
	}{
		{"drops short tokens", "employee attrition in India", []string{"employee", "attrition", "india"}},
		{"strips punctuation", "wages, salaries & pay-outs!", []string{"wages", "salaries", "pay-outs"}},
		{"empty topic", "", nil},
		{"all short", "a an the", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractKeywords(tt.topic); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.topic, got, tt.want)
			}
		})
	}
}

// --- Select ---

func TestSelectFiltersAndSorts(t *testing.T) {
	// Scenario: 20 documents scoring between 0.2 and 0.9, some stale.
	var pool []types.Document
	for i := 0; i < 20; i++ {
		composite := 0.2 + float64(i)*0.7/19
		daysAgo := 5
		if i%4 == 0 {
			daysAgo = 90 // outside a 30-day window
		}
		pool = append(pool, doc(fmt.Sprintf("h%02d", i), composite, daysAgo))
	}

	search := &mockSearcher{direct: pool}
	sel := testSelector(search)

	got, err := sel.Select(context.Background(), "employee attrition in India", 15, 30)
	if err != nil {
		t.Fatal(err)
	}

	if len(got) > 15 {
		t.Errorf("returned %d documents, want <= 15", len(got))
	}
	for i, d := range got {
		if d.Scores.Composite <= 0.3 {
			t.Errorf("doc %s at or below quality floor: %v", d.Hash, d.Scores.Composite)
		}
		if d.EffectiveDate().Before(sel.now().AddDate(0, 0, -30)) {
			t.Errorf("doc %s outside recency window", d.Hash)
		}
		if i > 0 && got[i-1].Scores.Composite < d.Scores.Composite {
			t.Errorf("results not sorted descending at %d", i)
		}
	}
}

func TestSelectUnderfilledExpandsKeywords(t *testing.T) {
	direct := []types.Document{doc("d1", 0.8, 3)}
	expansion := []types.Document{
		doc("e1", 0.9, 2),
		doc("d1", 0.8, 3), // duplicate of the direct hit
		doc("e2", 0.5, 4),
	}

	search := &mockSearcher{
		direct: nil,
		byQuery: map[string][]types.Document{
			"employee attrition": direct,
			"employee OR worker OR staff OR workforce":          expansion,
			"attrition OR turnover OR retention OR quit OR resign": expansion,
		},
	}
	sel := testSelector(search)

	got, err := sel.Select(context.Background(), "employee attrition", 10, 30)
	if err != nil {
		t.Fatal(err)
	}

	// Direct search returned 1 < 10/2, so both keywords expand.
	wantQueries := []string{
		"employee attrition",
		"employee OR worker OR staff OR workforce",
		"attrition OR turnover OR retention OR quit OR resign",
	}
	if !reflect.DeepEqual(search.queries, wantQueries) {
		t.Errorf("queries = %v, want %v", search.queries, wantQueries)
	}

	wantHashes := []string{"e1", "d1", "e2"}
	var gotHashes []string
	for _, d := range got {
		gotHashes = append(gotHashes, d.Hash)
	}
	if !reflect.DeepEqual(gotHashes, wantHashes) {
		t.Errorf("hashes = %v, want %v (deduped, sorted descending)", gotHashes, wantHashes)
	}
}

func TestSelectWellFilledSkipsExpansion(t *testing.T) {
	var pool []types.Document
	for i := 0; i < 8; i++ {
		pool = append(pool, doc(fmt.Sprintf("h%d", i), 0.5, 2))
	}
	search := &mockSearcher{direct: pool}
	sel := testSelector(search)

	if _, err := sel.Select(context.Background(), "attrition trends", 10, 30); err != nil {
		t.Fatal(err)
	}
	if len(search.queries) != 1 {
		t.Errorf("expected a single direct query, got %v", search.queries)
	}
}

func TestSelectEmptyResultIsNotAnError(t *testing.T) {
	search := &mockSearcher{direct: nil}
	sel := testSelector(search)

	got, err := sel.Select(context.Background(), "topic nobody wrote about", 5, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty selection, got %d", len(got))
	}
}

func TestSelectDeterministicTieBreak(t *testing.T) {
	pool := []types.Document{
		doc("bbb", 0.6, 2),
		doc("aaa", 0.6, 2),
	}
	search := &mockSearcher{direct: pool}
	sel := testSelector(search)

	first, err := sel.Select(context.Background(), "tied scores everywhere", 5, 30)
	if err != nil {
		t.Fatal(err)
	}
	second, err := sel.Select(context.Background(), "tied scores everywhere", 5, 30)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ordering not deterministic across invocations")
	}
}

func TestSelectFallsBackToCollectedDate(t *testing.T) {
	inWindow := types.Document{
		Hash:        "nopub",
		URL:         "https://example.org/nopub",
		CollectedAt: time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC),
		Scores:      types.Scores{Composite: 0.7},
	}
	stale := types.Document{
		Hash:        "stale",
		URL:         "https://example.org/stale",
		CollectedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Scores:      types.Scores{Composite: 0.7},
	}
	search := &mockSearcher{direct: []types.Document{inWindow, stale}}
	sel := testSelector(search)

	got, err := sel.Select(context.Background(), "documents without publish dates", 5, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Hash != "nopub" {
		t.Errorf("expected only the collected-in-window document, got %v", got)
	}
}
