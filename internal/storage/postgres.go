package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/bubbles39/AINews/internal/logger"
)

// PostgresCache stores translations in Postgres, for deployments where runs
// happen on ephemeral hosts and a local cache file would not survive.
type PostgresCache struct {
	db  *sql.DB
	ttl time.Duration
}

func NewPostgresCache(databaseURL string, ttlHours int) (*PostgresCache, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pc := &PostgresCache{db: db, ttl: time.Duration(ttlHours) * time.Hour}
	if err := pc.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return pc, nil
}

func (pc *PostgresCache) ensureSchema() error {
	_, err := pc.db.Exec(`
		CREATE TABLE IF NOT EXISTS translation_cache (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create translation_cache table: %w", err)
	}
	return nil
}

func (pc *PostgresCache) Get(key string) (string, bool) {
	var value string
	err := pc.db.QueryRow(
		`SELECT value FROM translation_cache WHERE key = $1 AND created_at > $2`,
		key, time.Now().Add(-pc.ttl),
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		logger.Warn("translation cache read failed", "error", err)
		return "", false
	}
	return value, true
}

func (pc *PostgresCache) Put(key, value string) error {
	_, err := pc.db.Exec(`
		INSERT INTO translation_cache (key, value, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, created_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to store translation: %w", err)
	}
	return nil
}

// Cleanup deletes expired rows. Called once per run; failures only cost disk.
func (pc *PostgresCache) Cleanup() {
	res, err := pc.db.Exec(`DELETE FROM translation_cache WHERE created_at <= $1`, time.Now().Add(-pc.ttl))
	if err != nil {
		logger.Warn("translation cache cleanup failed", "error", err)
		return
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		logger.Debug("translation cache cleanup", "removed", n)
	}
}

func (pc *PostgresCache) Close() error {
	return pc.db.Close()
}
