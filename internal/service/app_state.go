package service

import (
	"sync"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/adapter/store"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/port"
)

// AppState holds the active customer database connection and its discovered
// schema. A single connection is active at a time; re-connecting closes the
// previous one.
type AppState struct {
	mu      sync.RWMutex
	db      *store.SQLDB
	schema  *domain.DatabaseSchema
	connStr string
}

// NewAppState creates an empty application state.
func NewAppState() *AppState {
	return &AppState{}
}

// SetConnection swaps in a new connection and schema, closing any previous
// connection.
func (a *AppState) SetConnection(db *store.SQLDB, schema *domain.DatabaseSchema, connStr string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db != nil {
		_ = a.db.Close()
	}
	a.db = db
	a.schema = schema
	a.connStr = connStr
}

// Connection returns the active database and schema, or ErrNotConnected.
func (a *AppState) Connection() (*store.SQLDB, *domain.DatabaseSchema, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.db == nil {
		return nil, nil, port.ErrNotConnected
	}
	return a.db, a.schema, nil
}

// Schema returns the discovered schema, or ErrNotConnected.
func (a *AppState) Schema() (*domain.DatabaseSchema, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.schema == nil {
		return nil, port.ErrNotConnected
	}
	return a.schema, nil
}

// Connected reports whether a database is attached.
func (a *AppState) Connected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.db != nil
}
