// Package sqlitecache keeps a local price history cache in SQLite so
// sync runs survive FinMind outages.
package sqlitecache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tsen1220/tw-stock-analyst/internal/core/domain"
)

// schema holds the price cache table. The primary key makes saves
// insert-or-replace per trading day.
const schema = `
CREATE TABLE IF NOT EXISTS daily_prices (
	stock_id TEXT NOT NULL,
	date     TEXT NOT NULL,
	open     REAL NOT NULL,
	high     REAL NOT NULL,
	low      REAL NOT NULL,
	close    REAL NOT NULL,
	volume   INTEGER NOT NULL,
	PRIMARY KEY (stock_id, date)
);
`

// Cache is a SQLite-backed store of daily candles.
type Cache struct {
	db   *sql.DB
	path string
}

// Open creates the cache database at path, creating parent directories
// as needed. If path is empty, defaults to ~/.twstock/data/prices.db.
func Open(path string) (*Cache, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".twstock", "data", "prices.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Save writes the candles for the stock, replacing any cached rows for
// the same trading days.
func (c *Cache) Save(ctx context.Context, stockID string, candles []domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO daily_prices (stock_id, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, candle := range candles {
		_, err := stmt.ExecContext(ctx, stockID, candle.Date,
			candle.Open, candle.High, candle.Low, candle.Close, candle.Volume)
		if err != nil {
			return fmt.Errorf("insert %s %s: %w", stockID, candle.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load returns the cached candles for the stock in [startDate, endDate],
// oldest first. An empty result is not an error.
func (c *Cache) Load(ctx context.Context, stockID, startDate, endDate string) ([]domain.Candle, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT date, open, high, low, close, volume
		FROM daily_prices
		WHERE stock_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`, stockID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var candles []domain.Candle
	for rows.Next() {
		var candle domain.Candle
		err := rows.Scan(&candle.Date, &candle.Open, &candle.High,
			&candle.Low, &candle.Close, &candle.Volume)
		if err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		candles = append(candles, candle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price rows: %w", err)
	}

	return candles, nil
}
