// Package store persists ingested documents in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
)

// ErrNotFound is returned when a document ID does not exist.
var ErrNotFound = errors.New("document not found")

var openDB = sql.Open

// timeFormat has fixed width so created_at sorts correctly as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Document is one ingested, marked-up source with its analysis summary.
type Document struct {
	ID          string    `json:"doc_id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	Markup      string    `json:"markup,omitempty"`
	NetWords    [3]int    `json:"net_words"`
	TotalWords  int       `json:"total_words"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "tldr.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			filename     TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL,
			markup       TEXT NOT NULL,
			net1         INTEGER NOT NULL DEFAULT 0,
			net2         INTEGER NOT NULL DEFAULT 0,
			net3         INTEGER NOT NULL DEFAULT 0,
			total        INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(content_hash);
		CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Put inserts doc or replaces the document with the same ID.
func (s *Store) Put(ctx context.Context, doc *Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, filename, content_hash, markup, net1, net2, net3, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			filename = excluded.filename,
			content_hash = excluded.content_hash,
			markup = excluded.markup,
			net1 = excluded.net1,
			net2 = excluded.net2,
			net3 = excluded.net3,
			total = excluded.total`,
		doc.ID, doc.Title, doc.Filename, doc.ContentHash, doc.Markup,
		doc.NetWords[0], doc.NetWords[1], doc.NetWords[2], doc.TotalWords,
		doc.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("store: put %s: %w", doc.ID, err)
	}
	return nil
}

// Get returns the full document, markup included.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, filename, content_hash, markup, net1, net2, net3, total, created_at
		FROM documents WHERE id = ?`, id)

	var doc Document
	var created string
	err := row.Scan(&doc.ID, &doc.Title, &doc.Filename, &doc.ContentHash, &doc.Markup,
		&doc.NetWords[0], &doc.NetWords[1], &doc.NetWords[2], &doc.TotalWords, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	doc.CreatedAt, _ = time.Parse(timeFormat, created)
	return &doc, nil
}

// List returns documents newest first, without markup. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, filename, content_hash, net1, net2, net3, total, created_at
		FROM documents ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		var created string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Filename, &doc.ContentHash,
			&doc.NetWords[0], &doc.NetWords[1], &doc.NetWords[2], &doc.TotalWords, &created); err != nil {
			return nil, fmt.Errorf("store: list scan: %w", err)
		}
		doc.CreatedAt, _ = time.Parse(timeFormat, created)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByHash returns the ID of a document with the given content hash, if any.
func (s *Store) FindByHash(ctx context.Context, hash string) (string, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE content_hash = ? ORDER BY created_at LIMIT 1`, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: find by hash: %w", err)
	}
	return id, true, nil
}

// Primary result codes of a busy or locked database.
const (
	codeBusy   = 5
	codeLocked = 6
)

// IsBusy reports whether err came from a database that was busy or locked by
// another connection; such writes can be retried.
func IsBusy(err error) bool {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	code := sqlErr.Code() & 0xff
	return code == codeBusy || code == codeLocked
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}
