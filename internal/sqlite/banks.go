package sqlite

import (
	"fmt"
	"time"
)

// BankTable remembers the write-enable state of protected banks between
// mmctl runs.
type BankTable struct {
	backend *Backend
}

// Save stores the state of one bank.
func (t *BankTable) Save(bank uint32, enabled bool) error {
	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return ErrDetached
	}

	_, err := b.db.Exec(`INSERT INTO banks (bank, enabled, updated_at) VALUES (?, ?, ?)
ON CONFLICT(bank) DO UPDATE SET enabled = excluded.enabled, updated_at = excluded.updated_at`,
		int64(bank), enabled, b.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save bank %d: %w", bank, err)
	}
	return nil
}

// Load returns every stored bank state.
func (t *BankTable) Load() (map[uint32]bool, error) {
	b := t.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, ErrDetached
	}

	rows, err := b.db.Query(`SELECT bank, enabled FROM banks`)
	if err != nil {
		return nil, fmt.Errorf("query banks: %w", err)
	}
	defer rows.Close()

	out := make(map[uint32]bool)
	for rows.Next() {
		var (
			bank    int64
			enabled bool
		)
		if err := rows.Scan(&bank, &enabled); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		out[uint32(bank)] = enabled
	}
	return out, rows.Err()
}
