// Package sqlite provides a SQLite-backed implementation of kvstore.Store.
//
// WAL mode is enabled on Open so HTTP handlers reading one browser's cart do
// not block writes coming from another browser's checkout.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/maison-storefront/internal/pkg/kvstore"

	// Pure-Go driver, no CGO needed in the container image.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_records (
    namespace   TEXT NOT NULL,
    owner       TEXT NOT NULL DEFAULT '',
    value       BLOB NOT NULL,
    -- RFC3339 text, SQLite has no datetime type.
    updated_at  TEXT NOT NULL,
    PRIMARY KEY (namespace, owner)
);
`

var _ kvstore.Store = (*Store)(nil)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
//
//	store, err := sqlite.Open("./data/storefront.db")
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Get(ctx context.Context, key kvstore.Key) ([]byte, error) {
	const q = `SELECT value FROM kv_records WHERE namespace = ? AND owner = ?`

	var value []byte
	err := s.db.QueryRowContext(ctx, q, string(key.Namespace), key.Owner).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kvstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key kvstore.Key, value []byte) error {
	const q = `
		INSERT INTO kv_records (namespace, owner, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, owner) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, q,
		string(key.Namespace),
		key.Owner,
		value,
		formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("sqlite: set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key kvstore.Key) error {
	const q = `DELETE FROM kv_records WHERE namespace = ? AND owner = ?`

	if _, err := s.db.ExecContext(ctx, q, string(key.Namespace), key.Owner); err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", key, err)
	}
	return nil
}

// applySchema is idempotent due to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
