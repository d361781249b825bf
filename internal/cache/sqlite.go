package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pep299/leeai-studio/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS generations (
	key           TEXT PRIMARY KEY,
	tool          TEXT NOT NULL,
	question_type TEXT NOT NULL DEFAULT '',
	count         INTEGER NOT NULL DEFAULT 0,
	content       TEXT NOT NULL,
	created_at    INTEGER NOT NULL,
	expires_at    INTEGER NOT NULL,
	accessed_at   INTEGER NOT NULL,
	access_count  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_generations_expires ON generations(expires_at);
`

// SQLiteCache persists generated results in a local SQLite file, so a
// restarted server keeps its cache.
type SQLiteCache struct {
	db        *sql.DB
	duration  time.Duration
	hitCount  atomic.Int64
	missCount atomic.Int64
}

// NewSQLiteCache opens (or creates) the database at path. ":memory:" gives a
// private in-memory database.
func NewSQLiteCache(path string, duration time.Duration) (*SQLiteCache, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite cache path is empty")
	}

	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("creating db directory: %w", err)
			}
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteCache{db: db, duration: duration}, nil
}

// Get retrieves an entry and bumps its access statistics
func (c *SQLiteCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	var (
		entry                      CacheEntry
		created, expires, accessed int64
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT key, tool, question_type, count, content, created_at, expires_at, accessed_at, access_count
		FROM generations WHERE key = ?`, key).
		Scan(&entry.Key, &entry.Tool, &entry.QuestionType, &entry.Count, &entry.Content,
			&created, &expires, &accessed, &entry.AccessCount)
	if errors.Is(err, sql.ErrNoRows) {
		c.missCount.Add(1)
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("querying entry: %w", err)
	}

	entry.CreatedAt = time.Unix(0, created)
	entry.ExpiresAt = time.Unix(0, expires)
	if time.Now().After(entry.ExpiresAt) {
		if err := c.Delete(ctx, key); err != nil {
			return nil, err
		}
		c.missCount.Add(1)
		return nil, ErrCacheMiss
	}

	now := time.Now()
	if _, err := c.db.ExecContext(ctx,
		`UPDATE generations SET accessed_at = ?, access_count = access_count + 1 WHERE key = ?`,
		now.UnixNano(), key); err != nil {
		return nil, fmt.Errorf("updating access info: %w", err)
	}
	entry.AccessedAt = now
	entry.AccessCount++
	c.hitCount.Add(1)

	return &entry, nil
}

// Set stores an entry, replacing any previous one under key
func (c *SQLiteCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	now := time.Now()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO generations (key, tool, question_type, count, content, created_at, expires_at, accessed_at, access_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(key) DO UPDATE SET
			tool = excluded.tool,
			question_type = excluded.question_type,
			count = excluded.count,
			content = excluded.content,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at,
			accessed_at = excluded.accessed_at,
			access_count = 0
	`, key, string(entry.Tool), entry.QuestionType, entry.Count, entry.Content,
		now.UnixNano(), now.Add(c.duration).UnixNano(), now.UnixNano())
	if err != nil {
		return fmt.Errorf("storing entry: %w", err)
	}
	return nil
}

// Delete removes an entry
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM generations WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

// Exists checks if an unexpired entry exists
func (c *SQLiteCache) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM generations WHERE key = ? AND expires_at >= ?`,
		key, time.Now().UnixNano()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking entry: %w", err)
	}
	return n > 0, nil
}

// Clear removes all entries and resets the hit counters
func (c *SQLiteCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM generations`); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	c.hitCount.Store(0)
	c.missCount.Store(0)
	return nil
}

// GetStats returns cache statistics
func (c *SQLiteCache) GetStats(ctx context.Context) (*Stats, error) {
	now := time.Now().UnixNano()
	var (
		total, expired   int
		size             sql.NullInt64
		oldest, avgStart sql.NullFloat64
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN expires_at < ? THEN 1 ELSE 0 END), 0),
		       SUM(LENGTH(key) + LENGTH(content)),
		       MIN(created_at),
		       AVG(created_at)
		FROM generations`, now).Scan(&total, &expired, &size, &oldest, &avgStart)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}

	stats := &Stats{
		Backend:        "sqlite",
		TotalEntries:   total,
		HitCount:       c.hitCount.Load(),
		MissCount:      c.missCount.Load(),
		MemoryUsage:    size.Int64,
		ExpiredEntries: expired,
	}
	stats.HitRate = hitRate(stats.HitCount, stats.MissCount)
	if oldest.Valid {
		stats.OldestEntry = time.Unix(0, int64(oldest.Float64))
	}
	if avgStart.Valid {
		stats.AverageAge = time.Duration(float64(now) - avgStart.Float64)
	}

	rows, err := c.db.QueryContext(ctx, `SELECT tool, COUNT(*) FROM generations GROUP BY tool`)
	if err != nil {
		return nil, fmt.Errorf("querying tool counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			tool model.ToolType
			n    int
		)
		if err := rows.Scan(&tool, &n); err != nil {
			return nil, fmt.Errorf("scanning tool count: %w", err)
		}
		stats.countTool(tool, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tool counts: %w", err)
	}
	return stats, nil
}

// Purge removes expired entries
func (c *SQLiteCache) Purge(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM generations WHERE expires_at < ?`, time.Now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purging entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close closes the underlying database connection
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
