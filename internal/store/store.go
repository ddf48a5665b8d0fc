// Package store persists daily bars in SQLite. It is the data-access
// collaborator the analysis engine reads from; computed results are never
// written back.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"ChipLens/internal/model"
)

// Store wraps a SQLite database of daily bars keyed by (symbol, date).
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.SugaredLogger
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(path string, log *zap.SugaredLogger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so analysis reads don't block imports.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infow("bar store opened", "path", path)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol        TEXT NOT NULL,
			date          TEXT NOT NULL,
			open          REAL NOT NULL,
			high          REAL NOT NULL,
			low           REAL NOT NULL,
			close         REAL NOT NULL,
			volume        REAL NOT NULL,
			turnover_rate REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (symbol, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bars_date ON bars(date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// SaveBars upserts a batch of bars for one symbol in a single transaction.
func (s *Store) SaveBars(symbol string, bars []model.Bar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO bars
		(symbol, date, open, high, low, close, volume, turnover_rate)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume, b.TurnoverRate); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert bar %s %s: %w", symbol, b.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Infow("bars saved", "symbol", symbol, "count", len(bars))
	return nil
}

// LoadBars returns all bars for a symbol in ascending date order.
func (s *Store) LoadBars(symbol string) ([]model.Bar, error) {
	rows, err := s.db.Query(`SELECT date, open, high, low, close, volume, turnover_rate
		FROM bars WHERE symbol = ? ORDER BY date ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.TurnoverRate); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// Symbols lists every symbol present in the store.
func (s *Store) Symbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT symbol FROM bars ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.log.Info("closing bar store")
	return s.db.Close()
}
