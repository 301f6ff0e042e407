package domain

import "time"

// Document type guesses assigned during ingestion.
const (
	DocTypeResume   = "resume"
	DocTypePolicy   = "policy"
	DocTypeContract = "contract"
	DocTypeOther    = "other"
)

// Chunk represents a vectorized slice of an uploaded document.
type Chunk struct {
	ID         string    `json:"id"          db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	FileName   string    `json:"file_name"   db:"file_name"`
	DocType    string    `json:"doc_type"    db:"doc_type"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	Content    string    `json:"content"     db:"content"`
	Vector     []float32 `json:"-"           db:"vector"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
}

// SimilarChunk is returned by semantic search, including similarity score.
type SimilarChunk struct {
	Chunk
	Similarity float64 `json:"similarity"`
}
