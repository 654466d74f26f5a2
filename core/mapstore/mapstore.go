// Package mapstore keeps name maps in a SQLite catalog keyed by content
// hash, so the map for a document can be found again from the document
// alone.
package mapstore

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/gfakit/core/errors"
	"github.com/FocuswithJustin/gfakit/core/namemap"
	"github.com/FocuswithJustin/gfakit/core/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS name_maps (
		id TEXT PRIMARY KEY,
		hash TEXT NOT NULL UNIQUE,
		names INTEGER NOT NULL,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL,
		data BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_name_maps_created ON name_maps(created_at);
`

// Entry describes one stored map.
type Entry struct {
	ID        string    `json:"id"`
	Hash      uint64    `json:"hash"`
	Names     int       `json:"names"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a catalog of name maps.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog at path.
func Open(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer per file.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create name map schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the catalog.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores m under its hash, replacing any map already stored there.
// source records where the map came from, typically the GFA path.
func (s *Store) Put(ctx context.Context, m *namemap.NameMap, source string) (Entry, error) {
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		return Entry{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO name_maps (id, hash, names, source, created_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			names = excluded.names,
			source = excluded.source,
			created_at = excluded.created_at,
			data = excluded.data`,
		uuid.New().String(), FormatHash(m.Hash), m.Len(), source, now, buf.Bytes())
	if err != nil {
		return Entry{}, fmt.Errorf("failed to store name map %s: %w", FormatHash(m.Hash), err)
	}
	return s.Stat(ctx, m.Hash)
}

// Get returns the map stored under hash.
func (s *Store) Get(ctx context.Context, hash uint64) (*namemap.NameMap, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM name_maps WHERE hash = ?`, FormatHash(hash)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("name map", FormatHash(hash))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read name map %s: %w", FormatHash(hash), err)
	}
	m, err := namemap.Load(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "stored name map %s", FormatHash(hash))
	}
	return m, nil
}

// Stat returns the catalog entry for hash.
func (s *Store) Stat(ctx context.Context, hash uint64) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, hash, names, source, created_at FROM name_maps WHERE hash = ?`, FormatHash(hash))
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, errors.NewNotFound("name map", FormatHash(hash))
	}
	return e, err
}

// List returns every entry, oldest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hash, names, source, created_at FROM name_maps ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list name maps: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the map stored under hash.
func (s *Store) Delete(ctx context.Context, hash uint64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM name_maps WHERE hash = ?`, FormatHash(hash))
	if err != nil {
		return fmt.Errorf("failed to delete name map %s: %w", FormatHash(hash), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFound("name map", FormatHash(hash))
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var e Entry
	var hash, created string
	if err := sc.Scan(&e.ID, &hash, &e.Names, &e.Source, &created); err != nil {
		return Entry{}, err
	}
	h, err := ParseHash(hash)
	if err != nil {
		return Entry{}, err
	}
	e.Hash = h
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Entry{}, fmt.Errorf("bad timestamp on name map %s: %w", hash, err)
	}
	return e, nil
}

// FormatHash renders a content hash as 16 hex digits.
func FormatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

// ParseHash parses the output of FormatHash.
func ParseHash(s string) (uint64, error) {
	h, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "content hash %q", s)
	}
	return h, nil
}
