package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStoreWriteAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := OpenHistory(path)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Write(domain.HistoryEntry{
		Query:       "How many employees do we have?",
		QueryType:   "sql",
		SQL:         `SELECT COUNT(*) AS count FROM "employees"`,
		DurationMs:  12,
		ResultCount: 1,
	}))
	require.NoError(t, h.Write(domain.HistoryEntry{
		Query:       "Find resumes mentioning Python",
		QueryType:   "document",
		DurationMs:  80,
		CacheHit:    true,
		ResultCount: 4,
	}))

	entries, err := h.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first
	assert.Equal(t, "Find resumes mentioning Python", entries[0].Query)
	assert.True(t, entries[0].CacheHit)
	assert.Equal(t, 4, entries[0].ResultCount)
	assert.False(t, entries[0].CreatedAt.IsZero())

	assert.Equal(t, "sql", entries[1].QueryType)
	assert.Contains(t, entries[1].SQL, "COUNT(*)")
}

func TestHistoryStoreListLimit(t *testing.T) {
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer h.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, h.Write(domain.HistoryEntry{Query: "q", QueryType: "sql"}))
	}

	entries, err := h.List(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		entries, err := h.List(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, entries, 5)
	})
}
