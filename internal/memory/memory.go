// Package memory dispatches single-unit and block memory accesses by
// memory class. RAM and protected memory accept any access width; the
// width-restricted classes force their own width and move blocks one unit
// at a time. Writes to protected memory always go through the protected
// write primitives.
package memory

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Accessor is the class-aware view of platform memory.
type Accessor struct {
	raw  types.RawMemory
	prot types.ProtectedMemory
	caps types.Capabilities
	log  zerolog.Logger
}

// NewAccessor returns an Accessor over the given primitives.
func NewAccessor(raw types.RawMemory, prot types.ProtectedMemory, caps types.Capabilities, log zerolog.Logger) *Accessor {
	return &Accessor{
		raw:  raw,
		prot: prot,
		caps: caps,
		log:  log.With().Str("component", "memory").Logger(),
	}
}

// Capabilities returns the supported width-restricted classes.
func (a *Accessor) Capabilities() types.Capabilities { return a.caps }

// unitWidth returns the width an access to class will use.
func (a *Accessor) unitWidth(class types.MemoryClass, width types.Width) (types.Width, error) {
	switch class {
	case types.ClassRAM, types.ClassProtected:
		if !width.Valid() {
			return 0, fmt.Errorf("%w: %d", types.ErrDataSizeBits, width)
		}
		return width, nil
	case types.ClassMem8, types.ClassMem16, types.ClassMem32:
		if !a.caps.Supports(class) {
			return 0, fmt.Errorf("%w: %s not supported", types.ErrMemoryType, class)
		}
		return class.UnitWidth(), nil
	default:
		return 0, fmt.Errorf("%w: %s", types.ErrMemoryType, class)
	}
}

// ReadUnit reads one unit and returns its value and size in bytes. width
// is ignored for the width-restricted classes.
func (a *Accessor) ReadUnit(class types.MemoryClass, addr uint64, width types.Width) (uint32, uint32, error) {
	w, err := a.unitWidth(class, width)
	if err != nil {
		return 0, 0, err
	}
	var v uint32
	switch w {
	case types.Width8:
		var b uint8
		b, err = a.raw.Read8(addr)
		v = uint32(b)
	case types.Width16:
		var h uint16
		h, err = a.raw.Read16(addr)
		v = uint32(h)
	default:
		v, err = a.raw.Read32(addr)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s read%d: %w", types.ErrMemoryRead, class, w, err)
	}
	return v, w.Bytes(), nil
}

// WriteUnit writes one unit and returns its size in bytes. value is
// truncated to the access width.
func (a *Accessor) WriteUnit(class types.MemoryClass, addr uint64, width types.Width, value uint32) (uint32, error) {
	w, err := a.unitWidth(class, width)
	if err != nil {
		return 0, err
	}
	if class == types.ClassProtected {
		if err := a.protectedWrite(addr, w, value); err != nil {
			return 0, err
		}
		return w.Bytes(), nil
	}
	switch w {
	case types.Width8:
		err = a.raw.Write8(addr, uint8(value))
	case types.Width16:
		err = a.raw.Write16(addr, uint16(value))
	default:
		err = a.raw.Write32(addr, value)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s write%d: %w", types.ErrMemoryWrite, class, w, err)
	}
	return w.Bytes(), nil
}

func (a *Accessor) protectedWrite(addr uint64, w types.Width, value uint32) error {
	start := time.Now()
	var err error
	switch w {
	case types.Width8:
		err = a.prot.ProtectedWrite8(addr, uint8(value))
	case types.Width16:
		err = a.prot.ProtectedWrite16(addr, uint16(value))
	default:
		err = a.prot.ProtectedWrite32(addr, value)
	}
	a.log.Debug().
		Str("op", fmt.Sprintf("protected-write%d", w)).
		Uint64("addr", addr).
		Dur("elapsed", time.Since(start)).
		Msg("protected write")
	if err != nil {
		return fmt.Errorf("%w: write%d: %w", types.ErrProtectedWrite, w, err)
	}
	return nil
}

// ReadBlock fills dst from memory starting at addr. RAM and protected
// memory are copied as raw bytes; the width-restricted classes are read
// one unit at a time and stored in platform byte order.
func (a *Accessor) ReadBlock(class types.MemoryClass, addr uint64, dst []byte) error {
	switch class {
	case types.ClassRAM, types.ClassProtected:
		if err := a.raw.ReadBlock(addr, dst); err != nil {
			return fmt.Errorf("%w: %s read %d bytes: %w", types.ErrMemoryRead, class, len(dst), err)
		}
		return nil
	}
	w, err := a.unitWidth(class, 0)
	if err != nil {
		return err
	}
	n := w.Bytes()
	if uint32(len(dst))%n != 0 {
		return fmt.Errorf("%w: %d bytes is not a whole number of %s units", types.ErrAlignment, len(dst), class)
	}
	for off := uint32(0); off < uint32(len(dst)); off += n {
		v, _, err := a.ReadUnit(class, addr+uint64(off), w)
		if err != nil {
			return err
		}
		putUnit(dst[off:off+n], w, v)
	}
	return nil
}

// WriteBlock copies src into memory starting at addr. RAM takes a raw
// byte copy, protected memory is written through the protected byte
// primitive, and the width-restricted classes take one unit at a time.
// The first failing unit aborts the block.
func (a *Accessor) WriteBlock(class types.MemoryClass, addr uint64, src []byte) error {
	switch class {
	case types.ClassRAM:
		if err := a.raw.WriteBlock(addr, src); err != nil {
			return fmt.Errorf("%w: ram write %d bytes: %w", types.ErrMemoryWrite, len(src), err)
		}
		return nil
	case types.ClassProtected:
		start := time.Now()
		for i, b := range src {
			if err := a.prot.ProtectedWrite8(addr+uint64(i), b); err != nil {
				return fmt.Errorf("%w: byte %d of %d: %w", types.ErrProtectedWrite, i, len(src), err)
			}
		}
		a.log.Debug().Uint64("addr", addr).Int("bytes", len(src)).Dur("elapsed", time.Since(start)).Msg("protected block write")
		return nil
	}
	w, err := a.unitWidth(class, 0)
	if err != nil {
		return err
	}
	n := w.Bytes()
	if uint32(len(src))%n != 0 {
		return fmt.Errorf("%w: %d bytes is not a whole number of %s units", types.ErrAlignment, len(src), class)
	}
	for off := uint32(0); off < uint32(len(src)); off += n {
		if _, err := a.WriteUnit(class, addr+uint64(off), w, getUnit(src[off:off+n], w)); err != nil {
			return err
		}
	}
	return nil
}

func putUnit(b []byte, w types.Width, v uint32) {
	switch w {
	case types.Width8:
		b[0] = uint8(v)
	case types.Width16:
		types.MemoryOrder.PutUint16(b, uint16(v))
	default:
		types.MemoryOrder.PutUint32(b, v)
	}
}

func getUnit(b []byte, w types.Width) uint32 {
	switch w {
	case types.Width8:
		return uint32(b[0])
	case types.Width16:
		return uint32(types.MemoryOrder.Uint16(b))
	default:
		return types.MemoryOrder.Uint32(b)
	}
}
