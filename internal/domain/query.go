package domain

import "time"

// QueryType classifies how a natural-language query gets answered.
type QueryType string

const (
	QueryTypeSQL      QueryType = "sql"
	QueryTypeDocument QueryType = "document"
	QueryTypeHybrid   QueryType = "hybrid"
)

// QueryRequest is the body of a natural-language query call. Page is
// 1-based; zero values fall back to the service defaults.
type QueryRequest struct {
	Query    string `json:"query"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// CacheStats carries the lifetime hit/miss counters of the result cache.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// QueryResponse is the merged answer to a natural-language query.
type QueryResponse struct {
	Query     string           `json:"query"`
	QueryType QueryType        `json:"query_type"`
	SQL       string           `json:"sql,omitempty"`
	Results   []map[string]any `json:"results,omitempty"`
	Documents []SimilarChunk   `json:"documents,omitempty"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	Cached    bool             `json:"cached"`
	Cache     CacheStats       `json:"cache_stats"`
	Ms        int64            `json:"ms"`
}

// HistoryEntry is one row of the persisted query log.
type HistoryEntry struct {
	ID          int64     `json:"id"           db:"id"`
	Query       string    `json:"query"        db:"query"`
	QueryType   string    `json:"query_type"   db:"query_type"`
	SQL         string    `json:"sql,omitempty" db:"sql"`
	DurationMs  int64     `json:"duration_ms"  db:"duration_ms"`
	CacheHit    bool      `json:"cache_hit"    db:"cache_hit"`
	ResultCount int       `json:"result_count" db:"result_count"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}
