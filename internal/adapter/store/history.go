package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"

	_ "modernc.org/sqlite"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS query_history (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	query        TEXT NOT NULL,
	query_type   TEXT NOT NULL,
	sql_text     TEXT NOT NULL DEFAULT '',
	duration_ms  INTEGER NOT NULL,
	cache_hit    INTEGER NOT NULL DEFAULT 0,
	result_count INTEGER NOT NULL DEFAULT 0,
	created_at   TEXT NOT NULL
)`

// HistoryStore persists the query log in a service-local SQLite file,
// independent of whichever customer database is connected.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory opens (and initializes) the history database at path.
// Use ":memory:" for an ephemeral store.
func OpenHistory(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// Close closes the history database.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// Write appends one entry to the query log.
func (h *HistoryStore) Write(e domain.HistoryEntry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := h.db.Exec(`
		INSERT INTO query_history (query, query_type, sql_text, duration_ms, cache_hit, result_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Query, e.QueryType, e.SQL, e.DurationMs, boolToInt(e.CacheHit), e.ResultCount,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (h *HistoryStore) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, query, query_type, sql_text, duration_ms, cache_hit, result_count, created_at
		FROM query_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var cacheHit int
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Query, &e.QueryType, &e.SQL, &e.DurationMs, &cacheHit, &e.ResultCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.CacheHit = cacheHit != 0
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
