package repository

import (
	"context"
	"database/sql"
	"time"

	"krishimitra/internal/models"

	"github.com/google/uuid"
)

type QueueSQLite struct {
	db *sql.DB
}

func NewQueueSQLite(db *sql.DB) *QueueSQLite { return &QueueSQLite{db: db} }

// Enqueue inserts a pending request. If ID or QueuedAt are empty, they're set.
func (r *QueueSQLite) Enqueue(ctx context.Context, q models.QueuedRequest) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.QueuedAt.IsZero() {
		q.QueuedAt = time.Now().UTC()
	} else {
		q.QueuedAt = q.QueuedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_queue (id, queued_at, method, path, body, attempts)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		q.ID,
		q.QueuedAt.Format("2006-01-02 15:04:05"), // SQLite TIMESTAMP format
		q.Method,
		q.Path,
		q.Body,
		q.Attempts,
	)
	return err
}

// ListFIFO returns all pending requests in arrival order. seq is assigned
// by sqlite on insert, so the order is exact even when queued_at ties.
func (r *QueueSQLite) ListFIFO(ctx context.Context) ([]models.QueuedRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, queued_at, method, path, body, attempts
		FROM sync_queue ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.QueuedRequest, 0, 16)
	for rows.Next() {
		var q models.QueuedRequest
		if err := rows.Scan(&q.ID, &q.QueuedAt, &q.Method, &q.Path, &q.Body, &q.Attempts); err != nil {
			return nil, err
		}
		q.QueuedAt = q.QueuedAt.UTC()
		out = append(out, q)
	}
	return out, rows.Err()
}

// Remove deletes a replayed request.
func (r *QueueSQLite) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id)
	return err
}

// Requeue bumps the attempt counter after a failed replay. The row keeps
// its original seq so FIFO order is preserved.
func (r *QueueSQLite) Requeue(ctx context.Context, q models.QueuedRequest) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sync_queue SET attempts = ? WHERE id = ?`,
		q.Attempts+1, q.ID)
	return err
}

// Depth returns the number of pending requests.
func (r *QueueSQLite) Depth(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n)
	return n, err
}
