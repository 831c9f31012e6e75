package sqlite

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// timeLayout has a fixed width so that recorded_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Record is one stored outcome.
type Record struct {
	ID         string               `json:"id"`
	RecordedAt time.Time            `json:"recorded_at"`
	Outcome    types.CommandOutcome `json:"outcome"`
}

// HistoryTable stores every successful command outcome. It implements
// types.OutcomeCollector.
type HistoryTable struct {
	backend *Backend
}

var _ types.OutcomeCollector = (*HistoryTable)(nil)

// Collect appends o with a fresh v7 id.
func (h *HistoryTable) Collect(o types.CommandOutcome) error {
	b := h.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return ErrDetached
	}

	_, err := b.db.Exec(`INSERT INTO outcomes
    (outcome_id, recorded_at, action, class, address, data_value, bytes_processed, file_name)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		generateUUID(),
		b.now().UTC().Format(timeLayout),
		int(o.Action),
		int(o.Class),
		int64(o.Address),
		int64(o.DataValue),
		int64(o.BytesProcessed),
		o.FileName,
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// Recent returns up to limit outcomes, newest first. A limit of zero or
// less returns everything.
func (h *HistoryTable) Recent(limit int) ([]Record, error) {
	b := h.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, ErrDetached
	}
	if limit <= 0 {
		limit = -1
	}

	// v7 ids sort by creation time, so they break ties within one timestamp.
	rows, err := b.db.Query(`SELECT outcome_id, recorded_at, action, class, address, data_value, bytes_processed, file_name
    FROM outcomes ORDER BY recorded_at DESC, outcome_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r                      Record
			recordedAt             string
			action, class          int
			addr, value, processed int64
		)
		if err := rows.Scan(&r.ID, &recordedAt, &action, &class, &addr, &value, &processed, &r.Outcome.FileName); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		r.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
		}
		r.Outcome.Action = types.ActionKind(action)
		r.Outcome.Class = types.MemoryClass(class)
		r.Outcome.Address = uint64(addr)
		r.Outcome.DataValue = uint32(value)
		r.Outcome.BytesProcessed = uint32(processed)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Clear removes all stored outcomes.
func (h *HistoryTable) Clear() error {
	b := h.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return ErrDetached
	}
	if _, err := b.db.Exec(`DELETE FROM outcomes`); err != nil {
		return fmt.Errorf("clear outcomes: %w", err)
	}
	return nil
}
