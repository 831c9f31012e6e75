// Package validate checks command parameters before any memory is touched.
//
// Each request runs through an ordered list of rules; the first rule that
// fails decides the error and the rest are skipped.
package validate

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Validator checks peek/poke and load/dump/fill parameters against the
// supported classes, the transfer limits and the platform memory map.
type Validator struct {
	ranges types.RangeValidator
	caps   types.Capabilities
	limits types.Limits
}

// New returns a Validator.
func New(ranges types.RangeValidator, caps types.Capabilities, limits types.Limits) *Validator {
	return &Validator{ranges: ranges, caps: caps, limits: limits}
}

// Limits returns the transfer limits the validator enforces.
func (v *Validator) Limits() types.Limits { return v.limits }

type request struct {
	addr  uint64
	class types.MemoryClass
	width types.Width
	count uint32
	op    types.OperationKind
}

type rule func(v *Validator, r request) error

func (v *Validator) run(r request, rules []rule) error {
	for _, check := range rules {
		if err := check(v, r); err != nil {
			return err
		}
	}
	return nil
}

var peekPokeRules = []rule{
	supportedClass,
	bitWidth,
	unitInRange,
	unitAligned,
}

var loadDumpFillRules = []rule{
	knownOperation,
	supportedClass,
	byteCount,
	blockInRange,
	blockAligned,
}

// PeekPoke validates a single-unit access of width bits at addr.
func (v *Validator) PeekPoke(addr uint64, class types.MemoryClass, width types.Width) error {
	return v.run(request{addr: addr, class: class, width: width}, peekPokeRules)
}

// LoadDumpFill validates a count-byte transfer of kind op at addr. An
// unknown op fails with types.ErrUnsupportedOperation, which callers treat
// as a programming error rather than a command failure.
func (v *Validator) LoadDumpFill(addr uint64, class types.MemoryClass, count uint32, op types.OperationKind) error {
	return v.run(request{addr: addr, class: class, count: count, op: op}, loadDumpFillRules)
}

func knownOperation(_ *Validator, r request) error {
	switch r.op {
	case types.OpLoad, types.OpDump, types.OpFill, types.OpEventDump, types.OpUninterruptibleLoad:
		return nil
	default:
		return fmt.Errorf("%w: %v", types.ErrUnsupportedOperation, r.op)
	}
}

func supportedClass(v *Validator, r request) error {
	if !v.caps.Supports(r.class) {
		return fmt.Errorf("%w: %s", types.ErrMemoryType, r.class)
	}
	if r.op == types.OpUninterruptibleLoad && r.class != types.ClassRAM {
		return fmt.Errorf("%w: %s can't be loaded uninterruptibly", types.ErrMemoryType, r.class)
	}
	return nil
}

func bitWidth(_ *Validator, r request) error {
	if !r.width.Valid() {
		return fmt.Errorf("%w: %d", types.ErrDataSizeBits, r.width)
	}
	if fixed := r.class.UnitWidth(); fixed != 0 && r.width != fixed {
		return fmt.Errorf("%w: %s requires %d bits, got %d", types.ErrDataSizeBits, r.class, fixed, r.width)
	}
	return nil
}

func unitInRange(v *Validator, r request) error {
	return inRange(v, r.addr, r.width.Bytes(), r.class)
}

func unitAligned(_ *Validator, r request) error {
	if n := uint64(r.width.Bytes()); n > 1 && r.addr%n != 0 {
		return fmt.Errorf("%w: address 0x%08X for %d-bit access", types.ErrAlignment, r.addr, r.width)
	}
	return nil
}

func byteCount(v *Validator, r request) error {
	max, err := v.limits.MaxBytes(r.op, r.class)
	if err != nil {
		return err
	}
	if r.count == 0 || r.count > max {
		return fmt.Errorf("%w: %d, want 1..%d for %s %s", types.ErrDataSizeBytes, r.count, max, r.class, r.op)
	}
	return nil
}

func blockInRange(v *Validator, r request) error {
	return inRange(v, r.addr, r.count, r.class)
}

func blockAligned(_ *Validator, r request) error {
	n := r.class.UnitWidth().Bytes()
	if n <= 1 {
		return nil
	}
	if r.addr%uint64(n) != 0 || r.count%n != 0 {
		return fmt.Errorf("%w: address 0x%08X, %d bytes for %s", types.ErrAlignment, r.addr, r.count, r.class)
	}
	return nil
}

func inRange(v *Validator, addr uint64, size uint32, class types.MemoryClass) error {
	err := v.ranges.ValidateRange(addr, size, class)
	if err == nil || errors.Is(err, types.ErrRangeValidation) {
		return err
	}
	return fmt.Errorf("%w: %v", types.ErrRangeValidation, err)
}
