// Package command encodes and decodes the fixed-length command messages
// accepted by the memory manager. Each command code has exactly one valid
// payload length; decoding any other length fails with types.ErrLength
// before a single field is looked at.
package command

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mesh-intelligence/memmgr/internal/wire"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Code is a command function code.
type Code uint8

// Command codes.
const (
	NoOp Code = iota
	Reset
	Peek
	Poke
	LoadWID
	LoadFile
	DumpFile
	DumpInEvent
	Fill
	LookupSymbol
	SaveSymbolTable
	ProtectedWriteEnable
	ProtectedWriteDisable
)

var codeNames = [...]string{
	NoOp:                  "noop",
	Reset:                 "reset",
	Peek:                  "peek",
	Poke:                  "poke",
	LoadWID:               "load-wid",
	LoadFile:              "load-file",
	DumpFile:              "dump-file",
	DumpInEvent:           "dump-in-event",
	Fill:                  "fill",
	LookupSymbol:          "lookup-symbol",
	SaveSymbolTable:       "save-symbol-table",
	ProtectedWriteEnable:  "protected-write-enable",
	ProtectedWriteDisable: "protected-write-disable",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// MaxFileName is the size of a file name field, including the terminator.
const MaxFileName = 64

type symAddrWire struct {
	Offset uint64
	Name   [types.MaxSymbolName]byte
}

func (s symAddrWire) address() types.SymbolicAddress {
	return types.FromWire(wire.CString(s.Name[:]), s.Offset)
}

func putAddress(a types.SymbolicAddress) symAddrWire {
	var s symAddrWire
	s.Offset = a.Offset()
	wire.PutCString(s.Name[:], a.Name())
	return s
}

type peekWire struct {
	Class   uint8
	Width   uint8
	Padding [2]byte
	Address symAddrWire
}

type pokeWire struct {
	Class   uint8
	Width   uint8
	Padding [2]byte
	Data    uint32
	Address symAddrWire
}

type loadWIDWire struct {
	ByteCount uint32
	CRC       uint32
	Address   symAddrWire
	Data      [types.MaxUninterruptibleData]byte
}

type dumpInEventWire struct {
	Class     uint8
	Padding   [3]byte
	ByteCount uint32
	Address   symAddrWire
}

type fileNameWire struct {
	FileName [MaxFileName]byte
}

type dumpFileWire struct {
	Class     uint8
	Padding   [3]byte
	ByteCount uint32
	Address   symAddrWire
	FileName  [MaxFileName]byte
}

type fillWire struct {
	Class     uint8
	Padding   [3]byte
	ByteCount uint32
	Pattern   uint32
	Address   symAddrWire
}

type symbolNameWire struct {
	Name [types.MaxSymbolName]byte
}

type bankWire struct {
	Bank uint32
}

var lengths = map[Code]int{
	NoOp:                  0,
	Reset:                 0,
	Peek:                  binary.Size(peekWire{}),
	Poke:                  binary.Size(pokeWire{}),
	LoadWID:               binary.Size(loadWIDWire{}),
	LoadFile:              binary.Size(fileNameWire{}),
	DumpFile:              binary.Size(dumpFileWire{}),
	DumpInEvent:           binary.Size(dumpInEventWire{}),
	Fill:                  binary.Size(fillWire{}),
	LookupSymbol:          binary.Size(symbolNameWire{}),
	SaveSymbolTable:       binary.Size(fileNameWire{}),
	ProtectedWriteEnable:  binary.Size(bankWire{}),
	ProtectedWriteDisable: binary.Size(bankWire{}),
}

// Length returns the expected payload length for code.
func Length(code Code) (int, bool) {
	n, ok := lengths[code]
	return n, ok
}

// CheckLength verifies msg against the expected length for code.
func CheckLength(code Code, msg []byte) error {
	want, ok := lengths[code]
	if !ok {
		return fmt.Errorf("%w: %d", types.ErrUnknownCommand, uint8(code))
	}
	if len(msg) != want {
		return fmt.Errorf("%w: %s expected %d bytes, got %d", types.ErrLength, code, want, len(msg))
	}
	return nil
}

func decode(code Code, msg []byte, v any) error {
	if err := CheckLength(code, msg); err != nil {
		return err
	}
	return binary.Read(bytes.NewReader(msg), wire.Order, v)
}

func encode(v any) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, wire.Order, v)
	return buf.Bytes()
}
