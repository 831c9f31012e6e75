package types

import "fmt"

// ActionKind records which command produced a CommandOutcome.
type ActionKind uint8

// Action kinds.
const (
	ActionNone ActionKind = iota
	ActionPeek
	ActionPoke
	ActionLoadFromFile
	ActionUninterruptibleLoad
	ActionDumpToFile
	ActionDumpInEvent
	ActionFill
	ActionSymbolLookup
	ActionSymbolTableSave
	ActionProtectedWriteEnable
	ActionProtectedWriteDisable
	ActionNoOp
	ActionReset
)

var actionNames = [...]string{
	ActionNone:                  "none",
	ActionPeek:                  "peek",
	ActionPoke:                  "poke",
	ActionLoadFromFile:          "load-from-file",
	ActionUninterruptibleLoad:   "uninterruptible-load",
	ActionDumpToFile:            "dump-to-file",
	ActionDumpInEvent:           "dump-in-event",
	ActionFill:                  "fill",
	ActionSymbolLookup:          "symbol-lookup",
	ActionSymbolTableSave:       "symbol-table-save",
	ActionProtectedWriteEnable:  "protected-write-enable",
	ActionProtectedWriteDisable: "protected-write-disable",
	ActionNoOp:                  "noop",
	ActionReset:                 "reset",
}

func (a ActionKind) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// CommandOutcome describes the last command that completed successfully.
// Handlers return a fresh value on success and the zero value on failure;
// the dispatch layer decides what to keep.
type CommandOutcome struct {
	Action         ActionKind  `json:"action"`
	Class          MemoryClass `json:"class"`
	Address        uint64      `json:"address"`
	DataValue      uint32      `json:"data_value"`
	BytesProcessed uint32      `json:"bytes_processed"`
	FileName       string      `json:"file_name,omitempty"`
}

// IsZero reports whether o is the zero outcome.
func (o CommandOutcome) IsZero() bool {
	return o == CommandOutcome{}
}
