package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
	"github.com/google/uuid"
)

// PgVectorIndex implements port.VectorIndex on a service-owned Postgres
// database with the pgvector extension.
type PgVectorIndex struct {
	db        *sql.DB
	dimension int
}

// NewPgVectorIndex connects to the vector database and ensures the chunk
// table exists.
func NewPgVectorIndex(databaseURL string, dimension int) (*PgVectorIndex, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open vector database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping vector database: %w", err)
	}

	schema := fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS document_chunks (
			id          UUID PRIMARY KEY,
			document_id UUID NOT NULL,
			file_name   TEXT NOT NULL,
			doc_type    TEXT NOT NULL,
			chunk_index INT  NOT NULL,
			content     TEXT NOT NULL,
			vector      vector(%d) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, dimension)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init vector schema: %w", err)
	}

	return &PgVectorIndex{db: db, dimension: dimension}, nil
}

// Close closes the vector database connection.
func (v *PgVectorIndex) Close() error {
	return v.db.Close()
}

// Add persists chunks with their vectors in one transaction.
func (v *PgVectorIndex) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO document_chunks (id, document_id, file_name, doc_type, chunk_index, content, vector)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::vector)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx,
			id, c.DocumentID, c.FileName, c.DocType, c.ChunkIndex, c.Content, vectorToString(c.Vector),
		); err != nil {
			return fmt.Errorf("insert chunk: %w", err)
		}
	}

	return tx.Commit()
}

// Search performs a cosine similarity search over all indexed chunks.
func (v *PgVectorIndex) Search(ctx context.Context, vector []float32, limit int) ([]domain.SimilarChunk, error) {
	vectorStr := vectorToString(vector)
	query := `SELECT id, document_id, file_name, doc_type, chunk_index, content, created_at,
	                 1 - (vector <=> $1::vector) AS similarity
	          FROM document_chunks
	          ORDER BY vector <=> $1::vector
	          LIMIT $2`

	rows, err := v.db.QueryContext(ctx, query, vectorStr, limit)
	if err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}
	defer rows.Close()

	var results []domain.SimilarChunk
	for rows.Next() {
		var sc domain.SimilarChunk
		if err := rows.Scan(
			&sc.ID, &sc.DocumentID, &sc.FileName, &sc.DocType, &sc.ChunkIndex,
			&sc.Content, &sc.CreatedAt, &sc.Similarity,
		); err != nil {
			return nil, fmt.Errorf("scan similar: %w", err)
		}
		results = append(results, sc)
	}
	return results, rows.Err()
}

// Count returns the number of indexed chunks.
func (v *PgVectorIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// Reset removes all indexed chunks.
func (v *PgVectorIndex) Reset(ctx context.Context) error {
	_, err := v.db.ExecContext(ctx, `DELETE FROM document_chunks`)
	return err
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
