package types

import "fmt"

// MaxSymbolName is the size of a symbol name field on the wire, including
// the terminating NUL.
const MaxSymbolName = 64

// SymbolicAddress is either a raw address or a symbol name plus an offset.
// The zero value is the raw address 0.
type SymbolicAddress struct {
	name   string
	offset uint64
}

// Raw returns a SymbolicAddress that resolves to addr verbatim.
func Raw(addr uint64) SymbolicAddress {
	return SymbolicAddress{offset: addr}
}

// Named returns a SymbolicAddress that resolves to the address of the
// symbol plus offset.
func Named(name string, offset uint64) SymbolicAddress {
	return SymbolicAddress{name: name, offset: offset}
}

// FromWire builds a SymbolicAddress from the (name, offset) pair carried in
// command messages and file headers, where an empty name marks a raw address.
func FromWire(name string, offset uint64) SymbolicAddress {
	if name == "" {
		return Raw(offset)
	}
	return Named(name, offset)
}

// IsNamed reports whether the address refers to a symbol.
func (a SymbolicAddress) IsNamed() bool { return a.name != "" }

// Name returns the symbol name, empty for a raw address.
func (a SymbolicAddress) Name() string { return a.name }

// Offset returns the raw address or the offset from the symbol.
func (a SymbolicAddress) Offset() uint64 { return a.offset }

// Resolve returns the plain address. Named addresses are looked up through r.
func (a SymbolicAddress) Resolve(r SymbolResolver) (uint64, error) {
	if !a.IsNamed() {
		return a.offset, nil
	}
	if r == nil {
		return 0, fmt.Errorf("%w: no resolver for %q", ErrSymbolResolution, a.name)
	}
	base, err := r.LookupSymbol(a.name)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrSymbolResolution, a.name, err)
	}
	return base + a.offset, nil
}

func (a SymbolicAddress) String() string {
	if !a.IsNamed() {
		return fmt.Sprintf("0x%08X", a.offset)
	}
	if a.offset == 0 {
		return a.name
	}
	return fmt.Sprintf("%s+0x%X", a.name, a.offset)
}
