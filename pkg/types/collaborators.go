package types

// SymbolResolver maps a symbol name to its address.
type SymbolResolver interface {
	LookupSymbol(name string) (uint64, error)
}

// RangeValidator checks an address range against the platform memory map.
type RangeValidator interface {
	ValidateRange(address uint64, size uint32, class MemoryClass) error
}

// RawMemory is the platform's single-unit memory access layer. Block
// operations copy bytes without regard to unit width.
type RawMemory interface {
	Read8(address uint64) (uint8, error)
	Read16(address uint64) (uint16, error)
	Read32(address uint64) (uint32, error)
	Write8(address uint64, value uint8) error
	Write16(address uint64, value uint16) error
	Write32(address uint64, value uint32) error
	ReadBlock(address uint64, dst []byte) error
	WriteBlock(address uint64, src []byte) error
}

// ProtectedMemory is the distinct write path for write-protected memory.
// Reads of protected memory go through RawMemory.
type ProtectedMemory interface {
	ProtectedWrite8(address uint64, value uint8) error
	ProtectedWrite16(address uint64, value uint16) error
	ProtectedWrite32(address uint64, value uint32) error
	EnableWrite(bank uint32) error
	DisableWrite(bank uint32) error
}

// Emitter delivers notices to the ground.
type Emitter interface {
	Emit(id EventID, severity Severity, message string)
}

// Yielder lets other cooperative work run between transfer segments.
type Yielder interface {
	Yield()
}

// YieldFunc adapts a function to Yielder.
type YieldFunc func()

// Yield calls f.
func (f YieldFunc) Yield() { f() }

// OutcomeCollector receives every successful CommandOutcome.
type OutcomeCollector interface {
	Collect(o CommandOutcome) error
}
