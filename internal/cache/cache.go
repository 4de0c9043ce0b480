package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache stores raw API response bodies keyed by request URL.
type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	c := &Cache{writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}

	// The read handle is opened after the schema exists so mode=ro never races table creation.
	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	c.readDB = readDB
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS responses (
			key        TEXT PRIMARY KEY,
			body       BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_responses_fetched ON responses(fetched_at);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	return errors.Join(errs...)
}

// Get returns the body stored under key if it was fetched within maxAge.
// A non-positive maxAge never hits.
func (c *Cache) Get(key string, maxAge time.Duration) ([]byte, bool) {
	if maxAge <= 0 {
		return nil, false
	}
	var (
		body      []byte
		fetchedAt int64
	)
	err := c.readDB.QueryRow(`SELECT body, fetched_at FROM responses WHERE key = ?`, key).Scan(&body, &fetchedAt)
	if err != nil {
		return nil, false
	}
	if time.Since(time.Unix(fetchedAt, 0)) > maxAge {
		return nil, false
	}
	return body, true
}

func (c *Cache) Put(key string, body []byte) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO responses (key, body, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, key, body, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("storing response %s: %w", key, err)
	}
	return nil
}

// Prune deletes responses fetched more than olderThan ago and reclaims space.
// A negative olderThan is rejected since its cutoff would lie in the future.
func (c *Cache) Prune(olderThan time.Duration) (int64, error) {
	if olderThan < 0 {
		return 0, fmt.Errorf("prune window must not be negative, got %s", olderThan)
	}
	cutoff := time.Now().Add(-olderThan).Unix()
	res, err := c.writeDB.Exec(`DELETE FROM responses WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting responses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if _, err := c.writeDB.Exec(`VACUUM`); err != nil {
			return n, fmt.Errorf("vacuum: %w", err)
		}
	}
	return n, nil
}

// Stats returns the number of cached responses and the on-disk size of dbPath.
func (c *Cache) Stats(dbPath string) (int64, int64, error) {
	var count int64
	if err := c.readDB.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting responses: %w", err)
	}
	fi, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat cache file: %w", err)
	}
	return count, fi.Size(), nil
}
