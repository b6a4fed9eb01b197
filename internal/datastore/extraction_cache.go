package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/config"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// ExtractionCache stores extraction results in SQLite, keyed by content hash.
type ExtractionCache struct {
	db     *sql.DB
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewExtractionCache opens (or creates) the cache database and ensures its schema.
func NewExtractionCache(cfg config.StorageConfig, logger zerolog.Logger) (*ExtractionCache, error) {
	logger = logger.With().Str("component", "ExtractionCache").Logger()

	if cfg.SQLiteDBPath == "" {
		return nil, errorwrapper.NewValidationError("sqlite_db_path", cfg.SQLiteDBPath, "cache database path is required")
	}

	dbDir := filepath.Dir(cfg.SQLiteDBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error().Err(err).Str("directory", dbDir).Msg("Failed to create cache database directory")
		return nil, fmt.Errorf("failed to create cache database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", cfg.SQLiteDBPath)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.SQLiteDBPath).Msg("Failed to open cache database")
		return nil, fmt.Errorf("sql.Open failed for %s: %w", cfg.SQLiteDBPath, err)
	}
	// SQLite allows a single writer.
	dbInstance.SetMaxOpenConns(1)

	cache := &ExtractionCache{
		db:     dbInstance,
		ttl:    time.Duration(cfg.CacheTTLHours) * time.Hour,
		now:    time.Now,
		logger: logger,
	}

	if err := cache.InitSchema(); err != nil {
		cache.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info().Str("path", cfg.SQLiteDBPath).Dur("ttl", cache.ttl).Msg("Extraction cache initialized")
	return cache, nil
}

// Close closes the database connection.
func (c *ExtractionCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// InitSchema creates the extraction_cache table if it doesn't already exist.
func (c *ExtractionCache) InitSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS extraction_cache (
			cache_key TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_extraction_cache_created_at ON extraction_cache(created_at)`,
	}
	for _, query := range statements {
		if _, err := c.db.Exec(query); err != nil {
			c.logger.Error().Err(err).Msg("Failed to initialize schema")
			return err
		}
	}
	return nil
}

// Get returns the cached result for key. The boolean is false on a miss or when
// the entry is older than the TTL.
func (c *ExtractionCache) Get(ctx context.Context, key string) (*models.ExtractionResult, bool, error) {
	query := `SELECT payload, created_at FROM extraction_cache WHERE cache_key = ?`

	var payload string
	var createdAt int64
	err := c.db.QueryRowContext(ctx, query, key).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query extraction cache: %w", err)
	}

	if c.expired(createdAt) {
		c.logger.Debug().Str("key", key).Msg("Cache entry expired")
		return nil, false, nil
	}

	var result models.ExtractionResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached extraction: %w", err)
	}
	result.FromCache = true
	return &result, true, nil
}

// Put stores result under key, replacing any previous entry.
func (c *ExtractionCache) Put(ctx context.Context, key string, result *models.ExtractionResult) error {
	if result == nil {
		return errorwrapper.NewValidationError("result", nil, "cannot cache a nil extraction result")
	}

	stored := *result
	stored.FromCache = false
	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode extraction for cache: %w", err)
	}

	query := `INSERT OR REPLACE INTO extraction_cache (cache_key, provider, payload, created_at) VALUES (?, ?, ?, ?)`
	if _, err := c.db.ExecContext(ctx, query, key, result.Provider, string(payload), c.now().Unix()); err != nil {
		return fmt.Errorf("failed to write extraction cache: %w", err)
	}
	return nil
}

// PurgeExpired deletes entries older than the TTL and returns how many were removed.
func (c *ExtractionCache) PurgeExpired(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}

	cutoff := c.now().Add(-c.ttl).Unix()
	res, err := c.db.ExecContext(ctx, `DELETE FROM extraction_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge extraction cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged rows: %w", err)
	}
	if n > 0 {
		c.logger.Info().Int64("removed", n).Msg("Purged expired cache entries")
	}
	return n, nil
}

func (c *ExtractionCache) expired(createdAt int64) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(time.Unix(createdAt, 0)) > c.ttl
}
