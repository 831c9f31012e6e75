package manager

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// LookupSymbol resolves a symbol name and reports its address.
func (m *Manager) LookupSymbol(msg []byte) (types.CommandOutcome, error) {
	c, err := command.DecodeLookupSymbol(msg)
	if err != nil {
		return m.fail(err)
	}
	if c.Name == "" {
		return m.fail(fmt.Errorf("%w: empty symbol name", types.ErrSymbolResolution))
	}
	addr, err := types.Named(c.Name, 0).Resolve(m.resolver())
	if err != nil {
		return m.fail(err)
	}

	m.info(notice.SymbolLookupInfo, "Symbol Lookup Command: Name = '%s' Addr = 0x%08X", c.Name, addr)
	return types.CommandOutcome{Action: types.ActionSymbolLookup, Address: addr}, nil
}

// SaveSymbolTable writes the symbol table to a file.
func (m *Manager) SaveSymbolTable(msg []byte) (types.CommandOutcome, error) {
	c, err := command.DecodeSaveSymbolTable(msg)
	if err != nil {
		return m.fail(err)
	}
	if c.FileName == "" {
		return m.fail(fmt.Errorf("%w: empty file name", types.ErrInvalidFileName))
	}
	if m.symbols == nil {
		return m.fail(fmt.Errorf("%w: no symbol table attached", types.ErrSymbolTable))
	}

	n, err := m.symbols.SaveSymbols(m.fs, c.FileName)
	if err != nil {
		if !errors.Is(err, types.ErrSymbolTable) {
			err = fmt.Errorf("%w: %w", types.ErrSymbolTable, err)
		}
		return m.fail(err)
	}

	m.info(notice.SymbolTableSaveInfo, "Symbol Table Dump to File Command: Wrote %d symbols to '%s'", n, c.FileName)
	return types.CommandOutcome{Action: types.ActionSymbolTableSave, FileName: c.FileName}, nil
}
