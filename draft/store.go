// Package draft keeps in-progress campaign submissions on disk so a
// half-filled form survives restarts until the submission succeeds or
// the creator abandons it.
package draft

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no draft exists under the given id.
var ErrNotFound = errors.New("draft not found")

// Draft is one cached campaign submission. Payload holds the raw form
// fields; the store never interprets them.
type Draft struct {
	ID        string          `json:"id"`
	Creator   common.Address  `json:"creator"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store is a sqlite-backed draft cache keyed by creator address.
type Store struct {
	db *sql.DB
}

// Open creates or opens the draft database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create draft dir: %w", err)
	}
	dbPath := filepath.Join(dir, "drafts.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open draft db: %w", err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init draft schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS drafts (
		id TEXT PRIMARY KEY,
		creator TEXT NOT NULL,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_drafts_creator ON drafts(creator);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put inserts or replaces a draft. An empty id gets a fresh uuid; the
// stored draft is returned with id and timestamp filled in.
func (s *Store) Put(d Draft) (Draft, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.UpdatedAt = time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO drafts (id, creator, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		d.ID, d.Creator.Hex(), string(d.Payload), d.UpdatedAt.Unix(),
	)
	if err != nil {
		return Draft{}, fmt.Errorf("put draft: %w", err)
	}
	return d, nil
}

// Get fetches one draft by id.
func (s *Store) Get(id string) (Draft, error) {
	row := s.db.QueryRow(`SELECT id, creator, payload, updated_at FROM drafts WHERE id = ?`, id)
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, ErrNotFound
	}
	return d, err
}

// ListByCreator returns a creator's drafts, newest first.
func (s *Store) ListByCreator(creator common.Address) ([]Draft, error) {
	rows, err := s.db.Query(
		`SELECT id, creator, payload, updated_at FROM drafts
		 WHERE creator = ? ORDER BY updated_at DESC`, creator.Hex())
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var out []Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete drops a draft, e.g. after the submission landed on-chain.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (Draft, error) {
	var (
		d       Draft
		creator string
		payload string
		updated int64
	)
	if err := row.Scan(&d.ID, &creator, &payload, &updated); err != nil {
		return Draft{}, err
	}
	d.Creator = common.HexToAddress(creator)
	d.Payload = json.RawMessage(payload)
	d.UpdatedAt = time.Unix(updated, 0).UTC()
	return d, nil
}
