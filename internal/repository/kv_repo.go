package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVSQLite backs the opaque get/set capability for cached reference data
// (last-known schemes, market prices). The core never interprets values.
type KVSQLite struct {
	db *sql.DB
}

func NewKVSQLite(db *sql.DB) *KVSQLite { return &KVSQLite{db: db} }

const (
	upsertKVSQL = `
		INSERT INTO kv_cache (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`
	selectKVSQL = `SELECT value FROM kv_cache WHERE key = ?`
)

// Get returns the cached value and whether it exists.
func (r *KVSQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	if err := r.db.QueryRowContext(ctx, selectKVSQL, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores or replaces the value for key.
func (r *KVSQLite) Set(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, upsertKVSQL, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}
