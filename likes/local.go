package likes

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// LocalStore keeps the like document in an embedded SQLite database, one
// row per slug. It gives single-node deployments durable likes without
// any remote credentials.
type LocalStore struct {
	db *sql.DB
}

// NewLocalStore opens (or creates) the database at path, ensures the
// data directory exists, and sets up the schema.
func NewLocalStore(path string) (*LocalStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets a Fetch proceed during a Save rewrite, and the busy
	// timeout makes a second writer wait instead of failing with
	// SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &LocalStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS likes (
    slug TEXT PRIMARY KEY,
    count INTEGER NOT NULL DEFAULT 0,
    users TEXT NOT NULL DEFAULT '[]'
);
`)
	return err
}

// Fetch assembles the full document from all rows.
func (s *LocalStore) Fetch(ctx context.Context) (LikeStore, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug, count, users FROM likes`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	all := LikeStore{}
	for rows.Next() {
		var slug, users string
		var count int
		if err := rows.Scan(&slug, &count, &users); err != nil {
			return nil, err
		}
		var ids []string
		if err := json.Unmarshal([]byte(users), &ids); err != nil {
			return nil, fmt.Errorf("decode users for %s: %w", slug, err)
		}
		all[slug] = LikeRecord{Count: count, Users: ids}
	}
	return all, rows.Err()
}

// Save rewrites every row inside one transaction, keeping the
// whole-document contract of the remote backends.
func (s *LocalStore) Save(ctx context.Context, all LikeStore) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM likes`); err != nil {
		return err
	}
	for slug, rec := range all {
		users := []byte("[]")
		if len(rec.Users) > 0 {
			users, err = json.Marshal(rec.Users)
			if err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO likes (slug, count, users) VALUES (?, ?, ?)`,
			slug, rec.Count, string(users)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close closes the underlying database connection.
func (s *LocalStore) Close() error {
	return s.db.Close()
}
