package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/profile-extractor/internal/jobstore"
)

// KV is a jobstore.KV backed by the job_state table. Expired rows are hidden
// from Get and removed by Purge.
type KV struct {
	db *DB
}

// NewKV returns a KV using db's pool.
func NewKV(db *DB) *KV {
	return &KV{db: db}
}

// Set upserts value under key. A non-positive ttl never expires.
func (k *KV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}
	_, err := k.db.pool.Exec(ctx,
		`INSERT INTO job_state (key, value, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = $2, expires_at = $3`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Get returns the value under key, or jobstore.ErrNotFound when it is absent
// or expired.
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := k.db.pool.QueryRow(ctx,
		`SELECT value FROM job_state
		 WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jobstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Purge deletes expired rows and reports how many were removed.
func (k *KV) Purge(ctx context.Context) (int, error) {
	tag, err := k.db.pool.Exec(ctx, `DELETE FROM job_state WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge job state: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
