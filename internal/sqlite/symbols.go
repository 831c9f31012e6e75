package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// ErrSymbolNotFound is returned by LookupSymbol for an unknown name.
var ErrSymbolNotFound = errors.New("symbol not found")

// SymbolTable maps symbol names to addresses. It implements
// types.SymbolResolver.
type SymbolTable struct {
	backend *Backend
}

var _ types.SymbolResolver = (*SymbolTable)(nil)

func validSymbol(s types.Symbol) error {
	if s.Name == "" {
		return fmt.Errorf("%w: empty symbol name", types.ErrSymbolTable)
	}
	if len(s.Name) >= types.MaxSymbolName {
		return fmt.Errorf("%w: symbol name %q longer than %d bytes", types.ErrSymbolTable, s.Name, types.MaxSymbolName-1)
	}
	return nil
}

// LookupSymbol returns the address of name.
func (s *SymbolTable) LookupSymbol(name string) (uint64, error) {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return 0, ErrDetached
	}

	var addr int64
	err := b.db.QueryRow(`SELECT address FROM symbols WHERE name = ?`, name).Scan(&addr)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrSymbolNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("query symbol %q: %w", name, err)
	}
	return uint64(addr), nil
}

// Set creates or replaces one symbol.
func (s *SymbolTable) Set(sym types.Symbol) error {
	return s.Import([]types.Symbol{sym})
}

// Import creates or replaces symbols in one transaction. Nothing is
// written if any symbol is invalid.
func (s *SymbolTable) Import(syms []types.Symbol) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return ErrDetached
	}
	return s.upsertLocked(syms)
}

// upsertLocked writes syms. The caller holds b.mu and b.db is open.
func (s *SymbolTable) upsertLocked(syms []types.Symbol) error {
	for _, sym := range syms {
		if err := validSymbol(sym); err != nil {
			return err
		}
	}
	if len(syms) == 0 {
		return nil
	}

	b := s.backend
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO symbols (name, address, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET address = excluded.address, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := b.now().UTC().Format(time.RFC3339)
	for _, sym := range syms {
		if _, err := stmt.Exec(sym.Name, int64(sym.Address), now); err != nil {
			return fmt.Errorf("insert symbol %q: %w", sym.Name, err)
		}
	}
	return tx.Commit()
}

// Delete removes a symbol. Deleting an unknown name is not an error.
func (s *SymbolTable) Delete(name string) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return ErrDetached
	}
	if _, err := b.db.Exec(`DELETE FROM symbols WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete symbol %q: %w", name, err)
	}
	return nil
}

// List returns every symbol ordered by name.
func (s *SymbolTable) List() ([]types.Symbol, error) {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, ErrDetached
	}

	rows, err := b.db.Query(`SELECT name, address FROM symbols ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var out []types.Symbol
	for rows.Next() {
		var (
			name string
			addr int64
		)
		if err := rows.Scan(&name, &addr); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		out = append(out, types.Symbol{Name: name, Address: uint64(addr)})
	}
	return out, rows.Err()
}

// SaveSymbols writes the whole table to path on fs and returns the number
// of symbols written. The format follows the file extension; see
// WriteSymbolFile.
func (s *SymbolTable) SaveSymbols(fs afero.Fs, path string) (int, error) {
	syms, err := s.List()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrSymbolTable, err)
	}
	if err := WriteSymbolFile(fs, path, syms); err != nil {
		return 0, err
	}
	return len(syms), nil
}

// LoadSymbols imports the symbols in the file at path.
func (s *SymbolTable) LoadSymbols(fs afero.Fs, path string) (int, error) {
	syms, err := ReadSymbolFile(fs, path)
	if err != nil {
		return 0, err
	}
	if err := s.Import(syms); err != nil {
		return 0, err
	}
	return len(syms), nil
}
