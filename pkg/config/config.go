package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string

	// Customer database auto-connected at startup (optional; usually
	// attached at runtime via POST /api/connect-database).
	DefaultDatabaseURL string

	// Vector index. When VectorDatabaseURL is empty the in-memory index
	// is used.
	VectorDatabaseURL  string
	EmbeddingDimension int

	// Ollama — Embed endpoint
	OllamaEmbedURL   string
	OllamaEmbedModel string
	OllamaEmbedToken string // Bearer token for Ollama Cloud (empty = local)

	// Ingestion
	UploadDir  string
	ChunkWords int

	// Query engine
	CacheTTLSeconds int
	MaxResultRows   int

	// Query history (service-local sqlite; ":memory:" for ephemeral)
	HistoryPath string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envOrDefault("PORT", "8000"),
		AppName: envOrDefault("APP_NAME", "NLQ Employee Engine"),

		DefaultDatabaseURL: os.Getenv("DATABASE_URL"),

		VectorDatabaseURL:  os.Getenv("VECTOR_DATABASE_URL"),
		EmbeddingDimension: envOrDefaultInt("EMBEDDING_DIMENSION", 1024),

		OllamaEmbedURL:   envOrDefault("OLLAMA_EMBED_URL", envOrDefault("OLLAMA_BASE_URL", "http://localhost:11434")),
		OllamaEmbedModel: envOrDefault("OLLAMA_EMBED_MODEL", "bge-m3"),
		OllamaEmbedToken: os.Getenv("OLLAMA_EMBED_TOKEN"),

		UploadDir:  envOrDefault("UPLOAD_DIR", "/tmp/nlq-uploads"),
		ChunkWords: envOrDefaultInt("CHUNK_WORDS", 300),

		CacheTTLSeconds: envOrDefaultInt("CACHE_TTL_SECONDS", 300),
		MaxResultRows:   envOrDefaultInt("MAX_RESULT_ROWS", 100),

		HistoryPath: envOrDefault("HISTORY_PATH", "nlq_history.db"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}
