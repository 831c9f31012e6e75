package testutil

import (
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// FaultyMemory wraps RawMemory and fails the Nth read or write primitive
// call (1-based, counting unit and block calls together). Zero disables
// the fault.
type FaultyMemory struct {
	types.RawMemory
	FailReadAt  int
	FailWriteAt int

	Reads  int
	Writes int
}

func (f *FaultyMemory) read(addr uint64) error {
	f.Reads++
	if f.Reads == f.FailReadAt {
		return &types.PrimitiveError{Op: "injected-read", Address: addr, Status: types.StatusError}
	}
	return nil
}

func (f *FaultyMemory) write(addr uint64) error {
	f.Writes++
	if f.Writes == f.FailWriteAt {
		return &types.PrimitiveError{Op: "injected-write", Address: addr, Status: types.StatusError}
	}
	return nil
}

func (f *FaultyMemory) Read8(addr uint64) (uint8, error) {
	if err := f.read(addr); err != nil {
		return 0, err
	}
	return f.RawMemory.Read8(addr)
}

func (f *FaultyMemory) Read16(addr uint64) (uint16, error) {
	if err := f.read(addr); err != nil {
		return 0, err
	}
	return f.RawMemory.Read16(addr)
}

func (f *FaultyMemory) Read32(addr uint64) (uint32, error) {
	if err := f.read(addr); err != nil {
		return 0, err
	}
	return f.RawMemory.Read32(addr)
}

func (f *FaultyMemory) ReadBlock(addr uint64, dst []byte) error {
	if err := f.read(addr); err != nil {
		return err
	}
	return f.RawMemory.ReadBlock(addr, dst)
}

func (f *FaultyMemory) Write8(addr uint64, v uint8) error {
	if err := f.write(addr); err != nil {
		return err
	}
	return f.RawMemory.Write8(addr, v)
}

func (f *FaultyMemory) Write16(addr uint64, v uint16) error {
	if err := f.write(addr); err != nil {
		return err
	}
	return f.RawMemory.Write16(addr, v)
}

func (f *FaultyMemory) Write32(addr uint64, v uint32) error {
	if err := f.write(addr); err != nil {
		return err
	}
	return f.RawMemory.Write32(addr, v)
}

func (f *FaultyMemory) WriteBlock(addr uint64, src []byte) error {
	if err := f.write(addr); err != nil {
		return err
	}
	return f.RawMemory.WriteBlock(addr, src)
}
