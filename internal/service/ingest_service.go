package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/port"
	"github.com/google/uuid"
)

// IngestService runs the document pipeline: extract text, chunk, embed,
// index.
type IngestService struct {
	parser     port.DocumentParser
	ai         port.AIProvider
	index      port.VectorIndex
	chunkWords int
}

// NewIngestService creates an ingest service. chunkWords is the word budget
// per chunk.
func NewIngestService(parser port.DocumentParser, ai port.AIProvider, index port.VectorIndex, chunkWords int) *IngestService {
	if chunkWords <= 0 {
		chunkWords = 300
	}
	return &IngestService{parser: parser, ai: ai, index: index, chunkWords: chunkWords}
}

// Supported reports whether the parser can handle the extension.
func (s *IngestService) Supported(ext string) bool {
	return s.parser.Supported(ext)
}

// IndexedChunks returns the number of chunks currently in the index.
func (s *IngestService) IndexedChunks(ctx context.Context) (int, error) {
	return s.index.Count(ctx)
}

// ProcessFile extracts, chunks, embeds and indexes a single stored upload.
// originalName is the client-side filename kept as chunk metadata. Returns
// the number of chunks indexed.
func (s *IngestService) ProcessFile(ctx context.Context, path, originalName string) (int, error) {
	text, err := s.parser.Extract(path)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", originalName, err)
	}
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%s: %w", originalName, port.ErrEmptyDocument)
	}

	pieces := chunkText(text, s.chunkWords)
	if len(pieces) == 0 {
		return 0, fmt.Errorf("%s: %w", originalName, port.ErrEmptyDocument)
	}

	vectors, err := s.ai.EmbedBatch(ctx, pieces)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", originalName, err)
	}

	docID := uuid.NewString()
	docType := classifyDocType(originalName, text)
	now := time.Now()

	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = domain.Chunk{
			ID:         uuid.NewString(),
			DocumentID: docID,
			FileName:   originalName,
			DocType:    docType,
			ChunkIndex: i,
			Content:    piece,
			Vector:     vectors[i],
			CreatedAt:  now,
		}
	}

	if err := s.index.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("index %s: %w", originalName, err)
	}

	slog.Info("document indexed",
		"file", originalName, "doc_type", docType, "chunks", len(chunks),
	)
	return len(chunks), nil
}

// chunkText splits text into chunks of approximately maxWords words,
// keeping a short trailing-line overlap between consecutive chunks.
func chunkText(text string, maxWords int) []string {
	lines := strings.Split(text, "\n")
	var chunks []string
	var current []string
	currentLen := 0

	for _, line := range lines {
		wordCount := len(strings.Fields(line))
		if currentLen+wordCount > maxWords && len(current) > 0 {
			if piece := strings.TrimSpace(strings.Join(current, "\n")); piece != "" {
				chunks = append(chunks, piece)
			}
			// Keep last 2 lines for overlap
			overlap := 2
			if len(current) < overlap {
				overlap = len(current)
			}
			current = current[len(current)-overlap:]
			currentLen = 0
			for _, l := range current {
				currentLen += len(strings.Fields(l))
			}
		}
		current = append(current, line)
		currentLen += wordCount
	}

	if piece := strings.TrimSpace(strings.Join(current, "\n")); piece != "" {
		chunks = append(chunks, piece)
	}
	return chunks
}

// classifyDocType guesses the document category from filename and content.
func classifyDocType(name, text string) string {
	sample := strings.ToLower(name)
	if len(text) > 800 {
		sample += " " + strings.ToLower(text[:800])
	} else {
		sample += " " + strings.ToLower(text)
	}

	switch {
	case strings.Contains(sample, "resume") || strings.Contains(sample, "curriculum vitae") || strings.Contains(sample, "cv"):
		return domain.DocTypeResume
	case strings.Contains(sample, "policy") || strings.Contains(sample, "handbook"):
		return domain.DocTypePolicy
	case strings.Contains(sample, "contract") || strings.Contains(sample, "agreement"):
		return domain.DocTypeContract
	default:
		return domain.DocTypeOther
	}
}
