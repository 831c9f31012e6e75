package types

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// MemoryClass identifies the kind of memory a command targets. The numeric
// values appear in command messages and in the transfer header of every
// load/dump file, so they must not be renumbered.
type MemoryClass uint8

// Memory classes.
const (
	ClassNone      MemoryClass = 0
	ClassRAM       MemoryClass = 1
	ClassProtected MemoryClass = 2
	ClassMem8      MemoryClass = 3
	ClassMem16     MemoryClass = 4
	ClassMem32     MemoryClass = 5
)

var classNames = map[MemoryClass]string{
	ClassNone:      "none",
	ClassRAM:       "ram",
	ClassProtected: "protected",
	ClassMem8:      "mem8",
	ClassMem16:     "mem16",
	ClassMem32:     "mem32",
}

func (c MemoryClass) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// ParseMemoryClass maps a class name to a MemoryClass. "eeprom" is accepted
// as an alias for protected memory.
func ParseMemoryClass(s string) (MemoryClass, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "eeprom" {
		return ClassProtected, nil
	}
	for c, name := range classNames {
		if c != ClassNone && name == s {
			return c, nil
		}
	}
	return ClassNone, fmt.Errorf("%w: %q", ErrMemoryType, s)
}

// WidthRestricted reports whether the class only accepts accesses of one
// fixed width.
func (c MemoryClass) WidthRestricted() bool {
	return c == ClassMem8 || c == ClassMem16 || c == ClassMem32
}

// UnitWidth returns the fixed access width of a width-restricted class, or
// zero for the others.
func (c MemoryClass) UnitWidth() Width {
	switch c {
	case ClassMem8:
		return Width8
	case ClassMem16:
		return Width16
	case ClassMem32:
		return Width32
	default:
		return 0
	}
}

// MemoryOrder is the byte order of multi-byte memory units when they are
// laid out in buffers and load/dump file payloads.
var MemoryOrder = binary.LittleEndian

// Width is an access width in bits.
type Width uint8

// Access widths.
const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
)

// Valid reports whether w is one of 8, 16 or 32.
func (w Width) Valid() bool {
	return w == Width8 || w == Width16 || w == Width32
}

// Bytes returns the width in bytes.
func (w Width) Bytes() uint32 {
	return uint32(w) / 8
}

// Capabilities is the set of width-restricted classes the platform was
// configured with. RAM and protected memory are always present.
type Capabilities struct {
	Mem8  bool
	Mem16 bool
	Mem32 bool
}

// AllClasses enables every width-restricted class.
func AllClasses() Capabilities {
	return Capabilities{Mem8: true, Mem16: true, Mem32: true}
}

// ParseCapabilities builds a capability set from class names.
func ParseCapabilities(names []string) (Capabilities, error) {
	var caps Capabilities
	for _, name := range names {
		c, err := ParseMemoryClass(name)
		if err != nil {
			return Capabilities{}, err
		}
		switch c {
		case ClassMem8:
			caps.Mem8 = true
		case ClassMem16:
			caps.Mem16 = true
		case ClassMem32:
			caps.Mem32 = true
		case ClassRAM, ClassProtected:
		default:
			return Capabilities{}, fmt.Errorf("%w: %q", ErrMemoryType, name)
		}
	}
	return caps, nil
}

// Supports reports whether commands may target class c.
func (c Capabilities) Supports(class MemoryClass) bool {
	switch class {
	case ClassRAM, ClassProtected:
		return true
	case ClassMem8:
		return c.Mem8
	case ClassMem16:
		return c.Mem16
	case ClassMem32:
		return c.Mem32
	default:
		return false
	}
}

// Classes lists the supported classes in numeric order.
func (c Capabilities) Classes() []MemoryClass {
	out := []MemoryClass{ClassRAM, ClassProtected}
	for _, class := range []MemoryClass{ClassMem8, ClassMem16, ClassMem32} {
		if c.Supports(class) {
			out = append(out, class)
		}
	}
	return out
}
