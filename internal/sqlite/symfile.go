package sqlite

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// symbolFile is the TOML layout:
//
//	[[symbol]]
//	name = "table"
//	address = 1052672
type symbolFile struct {
	Symbols []types.Symbol `toml:"symbol"`
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// ReadSymbolFile reads symbols from a .toml file or, for any other
// extension, a JSONL file with one {"name", "address"} object per line.
// Malformed JSONL lines are skipped.
func ReadSymbolFile(fs afero.Fs, path string) ([]types.Symbol, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrFileRead, path, err)
	}

	if isTOML(path) {
		var f symbolFile
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %w", types.ErrSymbolTable, path, err)
		}
		return f.Symbols, nil
	}

	var out []types.Symbol
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var sym types.Symbol
		if err := json.Unmarshal(line, &sym); err != nil {
			continue
		}
		out = append(out, sym)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanning %s: %w", types.ErrFileRead, path, err)
	}
	return out, nil
}

// WriteSymbolFile writes syms to path atomically, as TOML for a .toml path
// and JSONL otherwise.
func WriteSymbolFile(fs afero.Fs, path string, syms []types.Symbol) error {
	return writeAtomic(fs, path, func(w io.Writer) error {
		if isTOML(path) {
			return toml.NewEncoder(w).Encode(symbolFile{Symbols: syms})
		}
		enc := json.NewEncoder(w)
		for _, sym := range syms {
			if err := enc.Encode(sym); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeAtomic writes a file using the temp-file, fsync, rename pattern.
func writeAtomic(fs afero.Fs, path string, write func(io.Writer) error) error {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), ".symbols-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", types.ErrFileOpen, err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if err := write(w); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", types.ErrFileWrite, path, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("%w: flushing buffer: %w", types.ErrFileWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("%w: syncing temp file: %w", types.ErrFileWrite, err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %w", types.ErrFileClose, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("%w: renaming temp file: %w", types.ErrFileWrite, err)
	}
	return nil
}
