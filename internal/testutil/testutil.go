// Package testutil builds the platform fixture shared by package tests: one
// region of every memory class, sized to the compiled transfer maxima.
package testutil

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/memmgr/internal/logging"
	"github.com/mesh-intelligence/memmgr/internal/platform"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Fixture memory map.
const (
	RAMBase       = 0x00100000
	RAMSize       = types.MaxRAMFileData
	ProtectedBase = 0x00300000
	ProtectedSize = types.MaxProtectedFileData
	ProtectedBank = 1
	Mem8Base      = 0x00400000
	Mem16Base     = 0x00500000
	Mem32Base     = 0x00600000
	MemSize       = types.MaxMemFileData
)

// MemoryMap returns the fixture memory map.
func MemoryMap() []types.Region {
	return []types.Region{
		{Name: "ram", Class: "ram", Base: RAMBase, Size: RAMSize},
		{Name: "eeprom", Class: "protected", Base: ProtectedBase, Size: ProtectedSize, Bank: ProtectedBank},
		{Name: "mem8", Class: "mem8", Base: Mem8Base, Size: MemSize},
		{Name: "mem16", Class: "mem16", Base: Mem16Base, Size: MemSize},
		{Name: "mem32", Class: "mem32", Base: Mem32Base, Size: MemSize},
	}
}

// Base returns the fixture base address of class.
func Base(class types.MemoryClass) uint64 {
	switch class {
	case types.ClassRAM:
		return RAMBase
	case types.ClassProtected:
		return ProtectedBase
	case types.ClassMem8:
		return Mem8Base
	case types.ClassMem16:
		return Mem16Base
	case types.ClassMem32:
		return Mem32Base
	default:
		return 0
	}
}

// Logger configures test logging and returns a logger bound to t.
func Logger(t testing.TB) zerolog.Logger {
	t.Helper()
	logging.ConfigureTests()
	return zerolog.New(zerolog.NewTestWriter(t)).With().Str("test", t.Name()).Logger()
}

// NewPlatform returns the fixture platform with protected writes enabled.
func NewPlatform(t testing.TB) *platform.Platform {
	t.Helper()
	p, err := platform.New(MemoryMap(), true, Logger(t))
	if err != nil {
		t.Fatalf("platform.New: %v", err)
	}
	return p
}
