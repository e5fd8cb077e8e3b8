// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/report-engine/pkg/types"
)

// CreateReport persists a newly assembled report. The write is all-or-nothing:
// no report exists unless this returns nil.
func (s *Store) CreateReport(ctx context.Context, r types.Report) error {
	hashesJSON, _ := json.Marshal(r.SourceHashes)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (
			id, topic, topic_hash, window_days, max_sources,
			title, body, summary, methodology, html, render_path,
			confidence, source_count, citation_count, word_count,
			duration_ms, source_hashes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Topic, r.TopicHash, r.WindowDays, r.MaxSources,
		r.Title, r.Body, r.Summary, r.Methodology, r.HTML, r.RenderPath,
		r.Confidence, r.SourceCount, r.CitationCount, r.WordCount,
		r.Duration.Milliseconds(), string(hashesJSON),
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	return nil
}

// GetReport returns the report with the given id.
func (s *Store) GetReport(ctx context.Context, id string) (types.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, topic, topic_hash, window_days, max_sources,
			title, body, summary, methodology, html, render_path,
			confidence, source_count, citation_count, word_count,
			duration_ms, source_hashes, created_at
		FROM reports WHERE id = ?`, id)

	var (
		r          types.Report
		summary    sql.NullString
		method     sql.NullString
		html       sql.NullString
		renderPath sql.NullString
		durationMS int64
		hashesJSON string
		createdAt  string
	)

	err := row.Scan(
		&r.ID, &r.Topic, &r.TopicHash, &r.WindowDays, &r.MaxSources,
		&r.Title, &r.Body, &summary, &method, &html, &renderPath,
		&r.Confidence, &r.SourceCount, &r.CitationCount, &r.WordCount,
		&durationMS, &hashesJSON, &createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Report{}, fmt.Errorf("report %s not found", id)
		}
		return types.Report{}, fmt.Errorf("looking up report: %w", err)
	}

	r.Summary = summary.String
	r.Methodology = method.String
	r.HTML = html.String
	r.RenderPath = renderPath.String
	r.Duration = time.Duration(durationMS) * time.Millisecond
	json.Unmarshal([]byte(hashesJSON), &r.SourceHashes)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		r.CreatedAt = t
	}

	return r, nil
}

// AttachRenderPath records the rendered artifact path on an existing report.
// This is the only mutation a report sees after creation.
func (s *Store) AttachRenderPath(ctx context.Context, reportID, path string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET render_path = ? WHERE id = ?`, path, reportID)
	if err != nil {
		return fmt.Errorf("attaching render path: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("report %s not found", reportID)
	}
	return nil
}

// CreateCitations persists a report's citations in one batch inside a
// transaction. Either all citations land or none do.
func (s *Store) CreateCitations(ctx context.Context, citations []types.Citation) error {
	if len(citations) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citations (id, report_id, document_hash, seq, cited_text, context)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing citation insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range citations {
		if _, err := stmt.ExecContext(ctx,
			c.ID, c.ReportID, c.DocumentHash, c.Seq, c.CitedText, c.Context,
		); err != nil {
			return fmt.Errorf("inserting citation %d: %w", c.Seq, err)
		}
	}

	return tx.Commit()
}

// ListCitations returns a report's citations ordered by sequence number.
func (s *Store) ListCitations(ctx context.Context, reportID string) ([]types.Citation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_id, document_hash, seq, cited_text, context
		 FROM citations WHERE report_id = ? ORDER BY seq`, reportID)
	if err != nil {
		return nil, fmt.Errorf("listing citations: %w", err)
	}
	defer rows.Close()

	var citations []types.Citation
	for rows.Next() {
		var (
			c         types.Citation
			citedText sql.NullString
			context   sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.ReportID, &c.DocumentHash, &c.Seq, &citedText, &context); err != nil {
			return nil, fmt.Errorf("scanning citation row: %w", err)
		}
		c.CitedText = citedText.String
		c.Context = context.String
		citations = append(citations, c)
	}
	return citations, rows.Err()
}

// ListReports returns the newest reports first, without bodies or html. Used
// by the reports listing command.
func (s *Store) ListReports(ctx context.Context, limit int) ([]types.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, title, confidence, source_count, citation_count,
			word_count, render_path, created_at
		FROM reports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []types.Report
	for rows.Next() {
		var (
			r          types.Report
			renderPath sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&r.ID, &r.Topic, &r.Title, &r.Confidence,
			&r.SourceCount, &r.CitationCount, &r.WordCount,
			&renderPath, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		r.RenderPath = renderPath.String
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// DeleteReport removes a report; its citations cascade away with it.
func (s *Store) DeleteReport(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("report %s not found", id)
	}
	return nil
}

// FindReportByTopicHash returns the most recent report for a topic hash, or
// sql.ErrNoRows wrapped when none exists. Used by the reuse cache on cold
// starts.
func (s *Store) FindReportByTopicHash(ctx context.Context, topicHash string) (types.Report, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM reports WHERE topic_hash = ? ORDER BY created_at DESC LIMIT 1`,
		topicHash).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Report{}, fmt.Errorf("no report for topic hash %s: %w", topicHash, err)
		}
		return types.Report{}, fmt.Errorf("looking up report by topic hash: %w", err)
	}
	return s.GetReport(ctx, id)
}
