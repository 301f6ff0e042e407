package store

import (
	"context"
	"testing"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(file string, idx int, vec []float32) domain.Chunk {
	return domain.Chunk{
		DocumentID: "doc-1",
		FileName:   file,
		DocType:    domain.DocTypeResume,
		ChunkIndex: idx,
		Content:    "content of " + file,
		Vector:     vec,
	}
}

func TestMemoryIndexSearch(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Add(ctx, []domain.Chunk{
		chunk("a.txt", 0, []float32{1, 0}),
		chunk("b.txt", 0, []float32{0, 1}),
		chunk("c.txt", 0, []float32{0.9, 0.1}),
	}))

	results, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a.txt", results[0].FileName)
	assert.Equal(t, "c.txt", results[1].FileName)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)

	t.Run("limit larger than index", func(t *testing.T) {
		all, err := idx.Search(ctx, []float32{0, 1}, 10)
		require.NoError(t, err)
		assert.Len(t, all, 3)
		assert.Equal(t, "b.txt", all[0].FileName)
	})

	t.Run("ids assigned on add", func(t *testing.T) {
		results, err := idx.Search(ctx, []float32{1, 0}, 1)
		require.NoError(t, err)
		assert.NotEmpty(t, results[0].ID)
	})
}

func TestMemoryIndexDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Add(ctx, []domain.Chunk{chunk("a.txt", 0, []float32{1, 0, 0})}))

	err := idx.Add(ctx, []domain.Chunk{chunk("b.txt", 0, []float32{1, 0})})
	assert.Error(t, err)

	_, err = idx.Search(ctx, []float32{1, 0}, 5)
	assert.Error(t, err)
}

func TestMemoryIndexEmptyVector(t *testing.T) {
	err := NewMemoryIndex().Add(context.Background(), []domain.Chunk{chunk("a.txt", 0, nil)})
	assert.Error(t, err)
}

func TestMemoryIndexCountAndReset(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, idx.Add(ctx, []domain.Chunk{
		chunk("a.txt", 0, []float32{1, 0}),
		chunk("a.txt", 1, []float32{0, 1}),
	}))

	n, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, idx.Reset(ctx))

	n, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Dimension constraint resets too.
	require.NoError(t, idx.Add(ctx, []domain.Chunk{chunk("b.txt", 0, []float32{1, 2, 3})}))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
