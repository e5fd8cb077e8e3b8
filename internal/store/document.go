// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/report-engine/pkg/types"
)

// UpsertDocument inserts a scored document or, when the URL already exists,
// refreshes its body, snippet, scores, flags, and word count in place. The
// original hash and collection timestamp survive re-collection; last write
// wins on concurrent upserts. The URL check and write run in one
// transaction so the FTS triggers see exactly one insert or update.
func (s *Store) UpsertDocument(ctx context.Context, doc types.Document) (types.Document, error) {
	categoriesJSON, _ := json.Marshal(doc.Categories)
	provenanceJSON, _ := json.Marshal(doc.Provenance)

	publishedAt := ""
	if doc.PublishedAt != nil && !doc.PublishedAt.IsZero() {
		publishedAt = doc.PublishedAt.UTC().Format(time.RFC3339)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Document{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM documents WHERE url = ?`, doc.URL,
	).Scan(&exists); err != nil {
		return types.Document{}, fmt.Errorf("checking for existing url: %w", err)
	}

	if exists > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE documents SET
				snippet=?, content=?,
				domain_authority=?, topical_context=?, freshness=?,
				extractability=?, composite=?,
				has_statistics=?, has_dates=?, has_numbers=?,
				word_count=?, provenance=?
			WHERE url = ?`,
			doc.Snippet, doc.Content,
			doc.Scores.DomainAuthority, doc.Scores.TopicalContext, doc.Scores.Freshness,
			doc.Scores.Extractability, doc.Scores.Composite,
			boolInt(doc.HasStatistics), boolInt(doc.HasDates), boolInt(doc.HasNumbers),
			doc.WordCount, string(provenanceJSON),
			doc.URL,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (
				hash, title, url, author, published_at, collected_at,
				snippet, content, categories, language, source_type,
				domain_authority, topical_context, freshness, extractability, composite,
				has_statistics, has_dates, has_numbers, word_count, provenance
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			doc.Hash, doc.Title, doc.URL, doc.Author, publishedAt,
			doc.CollectedAt.UTC().Format(time.RFC3339),
			doc.Snippet, doc.Content, string(categoriesJSON), doc.Language, string(doc.SourceType),
			doc.Scores.DomainAuthority, doc.Scores.TopicalContext,
			doc.Scores.Freshness, doc.Scores.Extractability, doc.Scores.Composite,
			boolInt(doc.HasStatistics), boolInt(doc.HasDates), boolInt(doc.HasNumbers),
			doc.WordCount, string(provenanceJSON),
		)
	}
	if err != nil {
		return types.Document{}, fmt.Errorf("upserting document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return types.Document{}, fmt.Errorf("committing upsert: %w", err)
	}

	stored, err := s.getDocumentBy(ctx, "url", doc.URL)
	if err != nil {
		return types.Document{}, err
	}
	return stored, nil
}

// ExistsByHash reports whether a document with the given content hash is
// already stored.
func (s *Store) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM documents WHERE hash = ?`, hash,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking document existence: %w", err)
	}
	return n > 0, nil
}

// GetDocument returns the document with the given content hash.
func (s *Store) GetDocument(ctx context.Context, hash string) (types.Document, error) {
	return s.getDocumentBy(ctx, "hash", hash)
}

func (s *Store) getDocumentBy(ctx context.Context, column, value string) (types.Document, error) {
	row := s.db.QueryRowContext(ctx,
		documentSelect+` WHERE d.`+column+` = ?`, value)

	doc, err := scanDocument(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Document{}, fmt.Errorf("document %s=%s not found", column, value)
		}
		return types.Document{}, fmt.Errorf("looking up document: %w", err)
	}
	return doc, nil
}

// SearchByText runs a relevance-ranked full-text search over titles,
// snippets, and bodies. The query is tokenized and quoted before being
// handed to FTS5, so free text with punctuation is safe; all tokens must
// match (implicit AND). Results are ordered by bm25 rank.
func (s *Store) SearchByText(ctx context.Context, query string, limit int) ([]types.Document, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	ftsQuery := ftsQueryFor(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		documentSelect+`
		JOIN documents_fts ON documents_fts.rowid = d.rowid
		WHERE documents_fts MATCH ?
		ORDER BY documents_fts.rank
		LIMIT ?`,
		ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ftsQueryFor quotes each whitespace token so FTS5 treats the input as plain
// terms rather than query syntax. A bare uppercase OR is kept as the FTS5
// operator; everything else matches with implicit AND.
func ftsQueryFor(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "OR" {
			if len(terms) > 0 {
				terms = append(terms, f)
			}
			continue
		}
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"`)
	}
	// A trailing operator is invalid FTS5 syntax.
	for len(terms) > 0 && terms[len(terms)-1] == "OR" {
		terms = terms[:len(terms)-1]
	}
	return strings.Join(terms, " ")
}

const documentSelect = `SELECT
	d.hash, d.title, d.url, d.author, d.published_at, d.collected_at,
	d.snippet, d.content, d.categories, d.language, d.source_type,
	d.domain_authority, d.topical_context, d.freshness, d.extractability, d.composite,
	d.has_statistics, d.has_dates, d.has_numbers, d.word_count, d.provenance
FROM documents d`

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (types.Document, error) {
	var (
		doc            types.Document
		author         sql.NullString
		publishedAt    sql.NullString
		collectedAt    string
		snippet        sql.NullString
		content        sql.NullString
		categoriesJSON sql.NullString
		language       sql.NullString
		sourceType     string
		hasStats       int
		hasDates       int
		hasNumbers     int
		provenanceJSON sql.NullString
	)

	err := row.Scan(
		&doc.Hash, &doc.Title, &doc.URL, &author, &publishedAt, &collectedAt,
		&snippet, &content, &categoriesJSON, &language, &sourceType,
		&doc.Scores.DomainAuthority, &doc.Scores.TopicalContext,
		&doc.Scores.Freshness, &doc.Scores.Extractability, &doc.Scores.Composite,
		&hasStats, &hasDates, &hasNumbers, &doc.WordCount, &provenanceJSON,
	)
	if err != nil {
		return types.Document{}, err
	}

	doc.Author = author.String
	doc.Snippet = snippet.String
	doc.Content = content.String
	doc.Language = language.String
	doc.SourceType = types.SourceType(sourceType)
	doc.HasStatistics = hasStats != 0
	doc.HasDates = hasDates != 0
	doc.HasNumbers = hasNumbers != 0

	if publishedAt.Valid && publishedAt.String != "" {
		if t, err := time.Parse(time.RFC3339, publishedAt.String); err == nil {
			doc.PublishedAt = &t
		}
	}
	if t, err := time.Parse(time.RFC3339, collectedAt); err == nil {
		doc.CollectedAt = t
	}
	if categoriesJSON.Valid {
		json.Unmarshal([]byte(categoriesJSON.String), &doc.Categories)
	}
	if provenanceJSON.Valid {
		json.Unmarshal([]byte(provenanceJSON.String), &doc.Provenance)
	}

	return doc, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
