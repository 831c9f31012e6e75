package command

import (
	"github.com/mesh-intelligence/memmgr/internal/wire"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// PeekCmd reads one unit of memory.
type PeekCmd struct {
	Class   types.MemoryClass
	Width   types.Width
	Address types.SymbolicAddress
}

// Encode returns the message payload.
func (c PeekCmd) Encode() []byte {
	return encode(&peekWire{Class: uint8(c.Class), Width: uint8(c.Width), Address: putAddress(c.Address)})
}

// DecodePeek parses a Peek payload.
func DecodePeek(msg []byte) (PeekCmd, error) {
	var w peekWire
	if err := decode(Peek, msg, &w); err != nil {
		return PeekCmd{}, err
	}
	return PeekCmd{Class: types.MemoryClass(w.Class), Width: types.Width(w.Width), Address: w.Address.address()}, nil
}

// PokeCmd writes one unit of memory.
type PokeCmd struct {
	Class   types.MemoryClass
	Width   types.Width
	Data    uint32
	Address types.SymbolicAddress
}

// Encode returns the message payload.
func (c PokeCmd) Encode() []byte {
	return encode(&pokeWire{Class: uint8(c.Class), Width: uint8(c.Width), Data: c.Data, Address: putAddress(c.Address)})
}

// DecodePoke parses a Poke payload.
func DecodePoke(msg []byte) (PokeCmd, error) {
	var w pokeWire
	if err := decode(Poke, msg, &w); err != nil {
		return PokeCmd{}, err
	}
	return PokeCmd{
		Class:   types.MemoryClass(w.Class),
		Width:   types.Width(w.Width),
		Data:    w.Data,
		Address: w.Address.address(),
	}, nil
}

// LoadWIDCmd carries up to types.MaxUninterruptibleData bytes to copy into
// RAM in one step. Only the first ByteCount bytes of Data are used.
type LoadWIDCmd struct {
	ByteCount uint32
	CRC       uint32
	Address   types.SymbolicAddress
	Data      [types.MaxUninterruptibleData]byte
}

// Encode returns the message payload.
func (c LoadWIDCmd) Encode() []byte {
	return encode(&loadWIDWire{ByteCount: c.ByteCount, CRC: c.CRC, Address: putAddress(c.Address), Data: c.Data})
}

// DecodeLoadWID parses an uninterruptible-load payload.
func DecodeLoadWID(msg []byte) (LoadWIDCmd, error) {
	var w loadWIDWire
	if err := decode(LoadWID, msg, &w); err != nil {
		return LoadWIDCmd{}, err
	}
	return LoadWIDCmd{ByteCount: w.ByteCount, CRC: w.CRC, Address: w.Address.address(), Data: w.Data}, nil
}

// DumpInEventCmd reads a few bytes and reports them in a notice.
type DumpInEventCmd struct {
	Class     types.MemoryClass
	ByteCount uint32
	Address   types.SymbolicAddress
}

// Encode returns the message payload.
func (c DumpInEventCmd) Encode() []byte {
	return encode(&dumpInEventWire{Class: uint8(c.Class), ByteCount: c.ByteCount, Address: putAddress(c.Address)})
}

// DecodeDumpInEvent parses a dump-in-event payload.
func DecodeDumpInEvent(msg []byte) (DumpInEventCmd, error) {
	var w dumpInEventWire
	if err := decode(DumpInEvent, msg, &w); err != nil {
		return DumpInEventCmd{}, err
	}
	return DumpInEventCmd{Class: types.MemoryClass(w.Class), ByteCount: w.ByteCount, Address: w.Address.address()}, nil
}

// LoadFileCmd loads memory from a file. Destination, size and class come
// from the file's transfer header.
type LoadFileCmd struct {
	FileName string
}

// Encode returns the message payload.
func (c LoadFileCmd) Encode() []byte {
	var w fileNameWire
	wire.PutCString(w.FileName[:], c.FileName)
	return encode(&w)
}

// DecodeLoadFile parses a load-from-file payload.
func DecodeLoadFile(msg []byte) (LoadFileCmd, error) {
	var w fileNameWire
	if err := decode(LoadFile, msg, &w); err != nil {
		return LoadFileCmd{}, err
	}
	return LoadFileCmd{FileName: wire.CString(w.FileName[:])}, nil
}

// DumpFileCmd dumps memory to a file.
type DumpFileCmd struct {
	Class     types.MemoryClass
	ByteCount uint32
	Address   types.SymbolicAddress
	FileName  string
}

// Encode returns the message payload.
func (c DumpFileCmd) Encode() []byte {
	w := dumpFileWire{Class: uint8(c.Class), ByteCount: c.ByteCount, Address: putAddress(c.Address)}
	wire.PutCString(w.FileName[:], c.FileName)
	return encode(&w)
}

// DecodeDumpFile parses a dump-to-file payload.
func DecodeDumpFile(msg []byte) (DumpFileCmd, error) {
	var w dumpFileWire
	if err := decode(DumpFile, msg, &w); err != nil {
		return DumpFileCmd{}, err
	}
	return DumpFileCmd{
		Class:     types.MemoryClass(w.Class),
		ByteCount: w.ByteCount,
		Address:   w.Address.address(),
		FileName:  wire.CString(w.FileName[:]),
	}, nil
}

// FillCmd fills memory with a repeated 32-bit pattern.
type FillCmd struct {
	Class     types.MemoryClass
	ByteCount uint32
	Pattern   uint32
	Address   types.SymbolicAddress
}

// Encode returns the message payload.
func (c FillCmd) Encode() []byte {
	return encode(&fillWire{Class: uint8(c.Class), ByteCount: c.ByteCount, Pattern: c.Pattern, Address: putAddress(c.Address)})
}

// DecodeFill parses a fill payload.
func DecodeFill(msg []byte) (FillCmd, error) {
	var w fillWire
	if err := decode(Fill, msg, &w); err != nil {
		return FillCmd{}, err
	}
	return FillCmd{
		Class:     types.MemoryClass(w.Class),
		ByteCount: w.ByteCount,
		Pattern:   w.Pattern,
		Address:   w.Address.address(),
	}, nil
}

// LookupSymbolCmd resolves a symbol name.
type LookupSymbolCmd struct {
	Name string
}

// Encode returns the message payload.
func (c LookupSymbolCmd) Encode() []byte {
	var w symbolNameWire
	wire.PutCString(w.Name[:], c.Name)
	return encode(&w)
}

// DecodeLookupSymbol parses a symbol lookup payload.
func DecodeLookupSymbol(msg []byte) (LookupSymbolCmd, error) {
	var w symbolNameWire
	if err := decode(LookupSymbol, msg, &w); err != nil {
		return LookupSymbolCmd{}, err
	}
	return LookupSymbolCmd{Name: wire.CString(w.Name[:])}, nil
}

// SaveSymbolTableCmd writes the symbol table to a file.
type SaveSymbolTableCmd struct {
	FileName string
}

// Encode returns the message payload.
func (c SaveSymbolTableCmd) Encode() []byte {
	var w fileNameWire
	wire.PutCString(w.FileName[:], c.FileName)
	return encode(&w)
}

// DecodeSaveSymbolTable parses a symbol table save payload.
func DecodeSaveSymbolTable(msg []byte) (SaveSymbolTableCmd, error) {
	var w fileNameWire
	if err := decode(SaveSymbolTable, msg, &w); err != nil {
		return SaveSymbolTableCmd{}, err
	}
	return SaveSymbolTableCmd{FileName: wire.CString(w.FileName[:])}, nil
}

// BankCmd enables or disables writes to one protected memory bank. The
// same payload serves both ProtectedWriteEnable and ProtectedWriteDisable.
type BankCmd struct {
	Bank uint32
}

// Encode returns the message payload.
func (c BankCmd) Encode() []byte {
	return encode(&bankWire{Bank: c.Bank})
}

// DecodeBank parses a bank payload for code, which must be one of the
// protected-write enable/disable codes.
func DecodeBank(code Code, msg []byte) (BankCmd, error) {
	var w bankWire
	if err := decode(code, msg, &w); err != nil {
		return BankCmd{}, err
	}
	return BankCmd{Bank: w.Bank}, nil
}
