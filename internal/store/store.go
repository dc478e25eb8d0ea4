/*
Package store
File: store.go
Description:
    SQLite-backed save-game repository: uuid-keyed records holding a
    versioned JSON blob (an economy save, a simulation save, or a game
    save). Grounded on stadam23-Eve-flipper's internal/db package: plain
    database/sql over modernc.org/sqlite, a schema_version table, and
    additive migrations guarded by `version < N`.
*/

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Kind distinguishes which save format a record's Data blob holds.
type Kind string

const (
	KindEconomy    Kind = "economy"
	KindSimulation Kind = "simulation"
	KindGame       Kind = "game"
)

// Record is one stored save.
type Record struct {
	ID        string
	Kind      Kind
	Name      string
	Data      []byte
	CreatedAt time.Time
}

// Store wraps a SQLite connection holding the save-game table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping store: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	version := 0
	s.db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := s.db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS saves (
				id         TEXT PRIMARY KEY,
				kind       TEXT NOT NULL,
				name       TEXT NOT NULL,
				data       BLOB NOT NULL,
				created_at TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_saves_kind ON saves(kind, created_at DESC);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}
	return nil
}

// Put inserts a new save record under a fresh uuid and returns its id.
func (s *Store) Put(kind Kind, name string, data []byte) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO saves (id, kind, name, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		// Fixed-width fraction so created_at sorts as text in time order.
		id, string(kind), name, data, time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00"),
	)
	if err != nil {
		return "", fmt.Errorf("put save: %w", err)
	}
	return id, nil
}

// Get fetches a save record by id.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(`SELECT id, kind, name, data, created_at FROM saves WHERE id = ?`, id)
	return scanRecord(row)
}

// List returns all saves of the given kind, newest first.
func (s *Store) List(kind Kind) ([]*Record, error) {
	rows, err := s.db.Query(`SELECT id, kind, name, data, created_at FROM saves WHERE kind = ? ORDER BY created_at DESC`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		r, err := scanRecordRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes a save record by id.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM saves WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row *sql.Row) (*Record, error) {
	return scanRecordAny(row)
}

func scanRecordRows(rows *sql.Rows) (*Record, error) {
	return scanRecordAny(rows)
}

func scanRecordAny(sc scanner) (*Record, error) {
	var r Record
	var kind, createdAt string
	if err := sc.Scan(&r.ID, &kind, &r.Name, &r.Data, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan save: %w", err)
	}
	r.Kind = Kind(kind)
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err == nil {
		r.CreatedAt = t
	}
	return &r, nil
}
