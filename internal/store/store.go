// Package store provides sqlite-backed persistence for rendered diagram
// payloads, keyed by project and diagram type.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeatlas/internal/diagram"
)

// ErrNotFound is returned by Get when no payload exists for the key.
var ErrNotFound = errors.New("store: payload not found")

// Record is one persisted payload plus its storage timestamp.
type Record struct {
	Project  string
	Payload  diagram.Payload
	StoredAt time.Time
}

// Store wraps a sqlite database. A project keeps at most one payload per
// diagram type; a new Put for the same key replaces the old payload.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and ensures the schema
// exists. Use ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS diagrams (
		project   TEXT NOT NULL,
		type      TEXT NOT NULL,
		id        TEXT NOT NULL,
		title     TEXT NOT NULL,
		markup    TEXT NOT NULL,
		metadata  TEXT NOT NULL,
		stored_at DATETIME NOT NULL DEFAULT (datetime('now')),
		PRIMARY KEY (project, type)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put persists a payload for the project, replacing any previous payload
// of the same diagram type.
func (s *Store) Put(ctx context.Context, project string, p diagram.Payload) error {
	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO diagrams (project, type, id, title, markup, metadata, stored_at)
		 VALUES (?, ?, ?, ?, ?, ?, datetime('now'))`,
		project, p.Type, p.ID, p.Title, p.Markup, string(meta),
	)
	if err != nil {
		return fmt.Errorf("put diagram: %w", err)
	}
	return nil
}

// Get returns the stored payload for (project, diagramType), or
// ErrNotFound.
func (s *Store) Get(ctx context.Context, project, diagramType string) (diagram.Payload, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, title, markup, metadata FROM diagrams
		 WHERE project = ? AND type = ?`,
		project, diagramType,
	)
	p, err := scanPayload(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return diagram.Payload{}, ErrNotFound
	}
	if err != nil {
		return diagram.Payload{}, fmt.Errorf("get diagram: %w", err)
	}
	return p, nil
}

// List returns every stored payload for the project, ordered by type.
func (s *Store) List(ctx context.Context, project string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, title, markup, metadata, stored_at FROM diagrams
		 WHERE project = ? ORDER BY type`,
		project,
	)
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var storedAt time.Time
		p, err := scanPayload(func(dest ...any) error {
			return rows.Scan(append(dest, &storedAt)...)
		})
		if err != nil {
			return nil, fmt.Errorf("scan diagram: %w", err)
		}
		records = append(records, Record{Project: project, Payload: p, StoredAt: storedAt})
	}
	return records, rows.Err()
}

func scanPayload(scan func(...any) error) (diagram.Payload, error) {
	var p diagram.Payload
	var meta string
	if err := scan(&p.ID, &p.Type, &p.Title, &p.Markup, &meta); err != nil {
		return diagram.Payload{}, err
	}
	if err := json.Unmarshal([]byte(meta), &p.Metadata); err != nil {
		return diagram.Payload{}, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return p, nil
}
