// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists documents, reports, and citations in SQLite and
// maintains a full-text retrieval index over document text.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/report-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "reports.db"
)

// Store manages the report-engine SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the database at dataDir/index/reports.db, creating
// the schema if it does not exist. The database runs in WAL mode with
// foreign keys on; citations cascade away with their parent report.
func Open(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			hash TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			url TEXT NOT NULL UNIQUE,
			author TEXT,
			published_at TEXT,
			collected_at TEXT NOT NULL,
			snippet TEXT,
			content TEXT,
			categories TEXT,
			language TEXT,
			source_type TEXT NOT NULL,
			domain_authority REAL NOT NULL,
			topical_context REAL NOT NULL,
			freshness REAL NOT NULL,
			extractability REAL NOT NULL,
			composite REAL NOT NULL,
			has_statistics INTEGER NOT NULL DEFAULT 0,
			has_dates INTEGER NOT NULL DEFAULT 0,
			has_numbers INTEGER NOT NULL DEFAULT 0,
			word_count INTEGER NOT NULL DEFAULT 0,
			provenance TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_composite ON documents(composite)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			topic_hash TEXT NOT NULL,
			window_days INTEGER NOT NULL,
			max_sources INTEGER NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			summary TEXT,
			methodology TEXT,
			html TEXT,
			render_path TEXT,
			confidence REAL NOT NULL,
			source_count INTEGER NOT NULL,
			citation_count INTEGER NOT NULL,
			word_count INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			source_hashes TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_topic_hash ON reports(topic_hash)`,
		`CREATE TABLE IF NOT EXISTS citations (
			id TEXT PRIMARY KEY,
			report_id TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
			document_hash TEXT NOT NULL REFERENCES documents(hash),
			seq INTEGER NOT NULL,
			cited_text TEXT,
			context TEXT,
			UNIQUE(report_id, seq)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='documents_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE documents_fts USING fts5(title, snippet, content, content=documents, content_rowid=rowid)`,
			`CREATE TRIGGER documents_ai AFTER INSERT ON documents BEGIN
				INSERT INTO documents_fts(rowid, title, snippet, content) VALUES (new.rowid, new.title, new.snippet, new.content);
			END`,
			`CREATE TRIGGER documents_ad AFTER DELETE ON documents BEGIN
				INSERT INTO documents_fts(documents_fts, rowid, title, snippet, content) VALUES('delete', old.rowid, old.title, old.snippet, old.content);
			END`,
			`CREATE TRIGGER documents_au AFTER UPDATE ON documents BEGIN
				INSERT INTO documents_fts(documents_fts, rowid, title, snippet, content) VALUES('delete', old.rowid, old.title, old.snippet, old.content);
				INSERT INTO documents_fts(rowid, title, snippet, content) VALUES (new.rowid, new.title, new.snippet, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}
