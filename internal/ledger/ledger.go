// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists the set of processed block IDs in SQLite.
// The marker flip is the primary idempotency mechanism; the ledger is an
// opt-in second line of defense against the partial-failure case where a
// page was created but the source marker could not be flipped.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store records processed blocks in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS processed_blocks (
		block_id TEXT PRIMARY KEY,
		created_page_id TEXT NOT NULL,
		processed_at TEXT NOT NULL
	)`)
	return err
}

// Seen reports whether blockID was already recorded.
func (s *Store) Seen(blockID string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT count(*) FROM processed_blocks WHERE block_id = ?`, blockID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying ledger: %w", err)
	}
	return n > 0, nil
}

// Record stores blockID with the page it produced. Recording the same
// block twice is not an error; the first entry wins.
func (s *Store) Record(blockID, createdPageID string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO processed_blocks (block_id, created_page_id, processed_at) VALUES (?, ?, ?)`,
		blockID, createdPageID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording block: %w", err)
	}
	return nil
}
