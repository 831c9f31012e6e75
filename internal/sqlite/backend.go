// Package sqlite implements the SQLite store behind the memory manager's
// symbol table and outcome history.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// DatabaseFile is the database name inside the data directory.
const DatabaseFile = "memmgr.db"

// Backend errors.
var (
	ErrAlreadyAttached = errors.New("backend already attached")
	ErrDetached        = errors.New("backend not attached")
)

// Backend owns the SQLite connection. Symbols and History hand out views
// over its tables; both fail with ErrDetached once Detach has run.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	dataDir  string
	now      func() time.Time
	log      zerolog.Logger

	symbols *SymbolTable
	history *HistoryTable
	banks   *BankTable
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(log zerolog.Logger) *Backend {
	b := &Backend{
		now: time.Now,
		log: log.With().Str("component", "sqlite").Logger(),
	}
	b.symbols = &SymbolTable{backend: b}
	b.history = &HistoryTable{backend: b}
	b.banks = &BankTable{backend: b}
	return b
}

// Attach opens <DataDir>/memmgr.db, creating the data directory and schema
// when needed, and seeds the symbol table from config.Symbols. Seeded
// symbols overwrite stored ones with the same name.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	// One writer at a time; the manager is single threaded anyway.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	b.db = db
	b.dataDir = dataDir
	if err := b.symbols.upsertLocked(config.Symbols); err != nil {
		db.Close()
		b.db = nil
		return fmt.Errorf("seeding symbols: %w", err)
	}

	b.attached = true
	b.log.Debug().Str("db", dbPath).Int("seeded", len(config.Symbols)).Msg("attached")
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// DataDir returns the directory holding the database.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dataDir
}

// Symbols returns the symbol table.
func (b *Backend) Symbols() *SymbolTable { return b.symbols }

// History returns the outcome history.
func (b *Backend) History() *HistoryTable { return b.history }

// Banks returns the stored protected-bank states.
func (b *Backend) Banks() *BankTable { return b.banks }

// generateUUID generates a new UUID v7 for outcome ids.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
