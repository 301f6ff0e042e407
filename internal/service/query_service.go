package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/port"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/schema"
	"github.com/jellydator/ttlcache/v3"
)

// documentKeywords route a query toward the semantic document index.
var documentKeywords = []string{
	"resume", "resumes", "cv", "cvs", "document", "documents",
	"policy", "policies", "contract", "contracts", "agreement", "agreements",
	"mention", "mentions", "mentioning", "skill", "skills",
	"experience", "certification", "certifications",
}

// sqlKeywords route a query toward the relational store.
var sqlKeywords = []string{
	"how many", "count", "average", "avg", "mean", "sum", "total",
	"salary", "salaries", "department", "departments", "hired", "hire",
	"list", "top", "highest", "lowest", "employee", "employees",
	"who", "show", "manager", "managers",
}

// HistoryWriter persists query-log entries.
type HistoryWriter interface {
	Write(e domain.HistoryEntry) error
}

// QueryService turns free-text queries into SQL statements, vector lookups,
// or both, and caches merged results.
type QueryService struct {
	state   *AppState
	ai      port.AIProvider
	index   port.VectorIndex
	disc    *schema.Discovery
	cache   *ttlcache.Cache[string, *domain.QueryResponse]
	history HistoryWriter

	maxRows  int
	docLimit int
}

// NewQueryService creates a query service. history may be nil to disable
// the persistent query log.
func NewQueryService(
	state *AppState,
	ai port.AIProvider,
	index port.VectorIndex,
	disc *schema.Discovery,
	history HistoryWriter,
	cacheTTL time.Duration,
	maxRows int,
) *QueryService {
	cache := ttlcache.New[string, *domain.QueryResponse](
		ttlcache.WithTTL[string, *domain.QueryResponse](cacheTTL),
	)
	go cache.Start()

	return &QueryService{
		state:    state,
		ai:       ai,
		index:    index,
		disc:     disc,
		cache:    cache,
		history:  history,
		maxRows:  maxRows,
		docLimit: 10,
	}
}

// Classify routes a query by keyword membership: "sql", "document", or
// "hybrid" when both keyword sets hit. Queries matching neither set default
// to SQL.
func (s *QueryService) Classify(query string) domain.QueryType {
	q := strings.ToLower(query)
	tokens := tokenize(q)

	docHit := matchesAny(q, tokens, documentKeywords)
	sqlHit := matchesAny(q, tokens, sqlKeywords)

	switch {
	case docHit && sqlHit:
		return domain.QueryTypeHybrid
	case docHit:
		return domain.QueryTypeDocument
	default:
		return domain.QueryTypeSQL
	}
}

// Process answers a natural-language query, consulting the TTL cache first.
func (s *QueryService) Process(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	start := time.Now()

	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 || size > s.maxRows {
		size = s.maxRows
	}
	key := cacheKey(req.Query, page, size)

	if item := s.cache.Get(key); item != nil {
		cached := *item.Value()
		cached.Cached = true
		cached.Cache = s.cacheStats()
		cached.Ms = time.Since(start).Milliseconds()
		s.record(&cached)
		return &cached, nil
	}

	qtype := s.Classify(req.Query)
	resp := &domain.QueryResponse{
		Query:     req.Query,
		QueryType: qtype,
		Page:      page,
		PageSize:  size,
	}

	if qtype == domain.QueryTypeSQL || qtype == domain.QueryTypeHybrid {
		if err := s.runSQL(ctx, req.Query, size, (page-1)*size, resp); err != nil {
			return nil, err
		}
	}

	if qtype == domain.QueryTypeDocument || qtype == domain.QueryTypeHybrid {
		if err := s.runDocuments(ctx, req.Query, page, size, resp); err != nil {
			// The SQL half of a hybrid query is still useful on its own.
			if qtype != domain.QueryTypeHybrid {
				return nil, err
			}
			slog.Warn("document search failed for hybrid query", "query", req.Query, "error", err)
		}
	}

	resp.Cache = s.cacheStats()
	resp.Ms = time.Since(start).Milliseconds()
	s.cache.Set(key, resp, ttlcache.DefaultTTL)
	s.record(resp)
	return resp, nil
}

// PurgeCache drops all cached responses. Called when a new database
// connection is established.
func (s *QueryService) PurgeCache() {
	s.cache.DeleteAll()
}

func (s *QueryService) cacheStats() domain.CacheStats {
	metrics := s.cache.Metrics()
	return domain.CacheStats{Hits: metrics.Hits, Misses: metrics.Misses}
}

func (s *QueryService) runSQL(ctx context.Context, query string, limit, offset int, resp *domain.QueryResponse) error {
	db, dbSchema, err := s.state.Connection()
	if err != nil {
		return err
	}

	mapping := s.disc.MapQuery(query, dbSchema)
	if mapping == nil || mapping.Table == "" {
		return port.ErrNoEmployeeTable
	}

	stmt, args := generateSQL(query, mapping, db.Dialect(), limit, offset)
	slog.Info("generated sql", "query", query, "sql", stmt, "args", args)

	rows, err := db.QueryRows(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("execute generated sql: %w", err)
	}

	resp.SQL = stmt
	resp.Results = rows
	return nil
}

func (s *QueryService) runDocuments(ctx context.Context, query string, page, size int, resp *domain.QueryResponse) error {
	vector, err := s.ai.Embed(ctx, query)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}

	perPage := size
	if perPage > s.docLimit {
		perPage = s.docLimit
	}
	offset := (page - 1) * perPage

	chunks, err := s.index.Search(ctx, vector, offset+perPage)
	if err != nil {
		return fmt.Errorf("search documents: %w", err)
	}
	if offset >= len(chunks) {
		chunks = nil
	} else {
		chunks = chunks[offset:]
	}

	resp.Documents = chunks
	return nil
}

func (s *QueryService) record(resp *domain.QueryResponse) {
	if s.history == nil {
		return
	}
	entry := domain.HistoryEntry{
		Query:       resp.Query,
		QueryType:   string(resp.QueryType),
		SQL:         resp.SQL,
		DurationMs:  resp.Ms,
		CacheHit:    resp.Cached,
		ResultCount: len(resp.Results) + len(resp.Documents),
	}
	go func() {
		if err := s.history.Write(entry); err != nil {
			slog.Error("failed to write query history", "error", err)
		}
	}()
}

// cacheKey normalizes the query text (lowercased, whitespace collapsed) and
// scopes it to the requested page.
func cacheKey(query string, page, size int) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return fmt.Sprintf("%s|p%d|s%d", normalized, page, size)
}

// matchesAny reports whether any keyword occurs in the query. Multi-word
// phrases match as substrings; single words must match a whole token, so
// "sum" never fires inside "resumes".
func matchesAny(q string, tokens map[string]bool, keywords []string) bool {
	for _, kw := range keywords {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(q, kw) {
				return true
			}
		} else if tokens[kw] {
			return true
		}
	}
	return false
}

func tokenize(q string) map[string]bool {
	words := strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make(map[string]bool, len(words))
	for _, w := range words {
		tokens[w] = true
	}
	return tokens
}
