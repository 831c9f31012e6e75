package types

import "fmt"

// OperationKind selects which byte-count limits apply to a load, dump or
// fill request.
type OperationKind uint8

// Operation kinds.
const (
	OpLoad OperationKind = iota + 1
	OpDump
	OpFill
	OpEventDump
	OpUninterruptibleLoad
)

func (o OperationKind) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpDump:
		return "dump"
	case OpFill:
		return "fill"
	case OpEventDump:
		return "event-dump"
	case OpUninterruptibleLoad:
		return "uninterruptible-load"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Compiled transfer maxima. Configuration may lower these but never raise them.
const (
	MaxRAMFileData       = 0x100000
	MaxProtectedFileData = 0x20000
	MaxMemFileData       = 0x20000

	// MaxUninterruptibleData is also the size of the data array carried in
	// the uninterruptible-load command message.
	MaxUninterruptibleData = 200

	MaxLoadSegment = 200
	MaxDumpSegment = 200
	MaxFillSegment = 200

	// MaxNoticeMessage is the notice text budget. A dump-in-event notice
	// spends 46 characters on its fixed text and 5 per dumped byte.
	MaxNoticeMessage  = 122
	MaxEventDumpBytes = (MaxNoticeMessage - (13 + 33)) / 5
)

// ClassLimits holds one maximum byte count per memory class.
type ClassLimits struct {
	RAM       uint32 `mapstructure:"ram" yaml:"ram"`
	Protected uint32 `mapstructure:"protected" yaml:"protected"`
	Mem8      uint32 `mapstructure:"mem8" yaml:"mem8"`
	Mem16     uint32 `mapstructure:"mem16" yaml:"mem16"`
	Mem32     uint32 `mapstructure:"mem32" yaml:"mem32"`
}

// For returns the maximum for class, or zero for an unknown class.
func (c ClassLimits) For(class MemoryClass) uint32 {
	switch class {
	case ClassRAM:
		return c.RAM
	case ClassProtected:
		return c.Protected
	case ClassMem8:
		return c.Mem8
	case ClassMem16:
		return c.Mem16
	case ClassMem32:
		return c.Mem32
	default:
		return 0
	}
}

func fileLimits() ClassLimits {
	return ClassLimits{
		RAM:       MaxRAMFileData,
		Protected: MaxProtectedFileData,
		Mem8:      MaxMemFileData,
		Mem16:     MaxMemFileData,
		Mem32:     MaxMemFileData,
	}
}

// Limits holds the byte-count maxima per operation and class, and the
// segment sizes used by the transfer engine.
type Limits struct {
	Load ClassLimits `mapstructure:"load" yaml:"load"`
	Dump ClassLimits `mapstructure:"dump" yaml:"dump"`
	Fill ClassLimits `mapstructure:"fill" yaml:"fill"`

	LoadSegment uint32 `mapstructure:"load_segment" yaml:"load_segment"`
	DumpSegment uint32 `mapstructure:"dump_segment" yaml:"dump_segment"`
	FillSegment uint32 `mapstructure:"fill_segment" yaml:"fill_segment"`
}

// DefaultLimits returns the compiled maxima.
func DefaultLimits() Limits {
	return Limits{
		Load:        fileLimits(),
		Dump:        fileLimits(),
		Fill:        fileLimits(),
		LoadSegment: MaxLoadSegment,
		DumpSegment: MaxDumpSegment,
		FillSegment: MaxFillSegment,
	}
}

// MaxBytes returns the largest byte count op may move for class. Event
// dumps are capped by the notice budget rounded down to the class width so
// that the maximum is always an aligned count. Uninterruptible loads only
// target RAM.
func (l Limits) MaxBytes(op OperationKind, class MemoryClass) (uint32, error) {
	switch op {
	case OpLoad:
		return l.Load.For(class), nil
	case OpDump:
		return l.Dump.For(class), nil
	case OpFill:
		return l.Fill.For(class), nil
	case OpEventDump:
		max := uint32(MaxEventDumpBytes)
		if w := class.UnitWidth().Bytes(); w > 1 {
			max -= max % w
		}
		return max, nil
	case OpUninterruptibleLoad:
		if class != ClassRAM {
			return 0, nil
		}
		return MaxUninterruptibleData, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedOperation, op)
	}
}

// Segment returns the segment size the transfer engine uses for op.
func (l Limits) Segment(op OperationKind) uint32 {
	switch op {
	case OpLoad:
		return l.LoadSegment
	case OpDump:
		return l.DumpSegment
	case OpFill:
		return l.FillSegment
	default:
		return 0
	}
}

// Validate checks that every limit is positive and within the compiled
// maxima, and that segment sizes hold a whole number of 32-bit units.
func (l Limits) Validate() error {
	defaults := DefaultLimits()
	sets := []struct {
		name string
		got  ClassLimits
		max  ClassLimits
	}{
		{"load", l.Load, defaults.Load},
		{"dump", l.Dump, defaults.Dump},
		{"fill", l.Fill, defaults.Fill},
	}
	for _, s := range sets {
		for _, class := range AllClasses().Classes() {
			got, max := s.got.For(class), s.max.For(class)
			if got == 0 || got > max {
				return fmt.Errorf("%w: %s limit for %s is %d, want 1..%d", ErrInvalidLimits, s.name, class, got, max)
			}
			if w := class.UnitWidth().Bytes(); w > 1 && got%w != 0 {
				return fmt.Errorf("%w: %s limit for %s is not a multiple of %d", ErrInvalidLimits, s.name, class, w)
			}
		}
	}
	segs := []struct {
		name string
		got  uint32
		max  uint32
	}{
		{"load_segment", l.LoadSegment, MaxLoadSegment},
		{"dump_segment", l.DumpSegment, MaxDumpSegment},
		{"fill_segment", l.FillSegment, MaxFillSegment},
	}
	for _, s := range segs {
		if s.got == 0 || s.got > s.max || s.got%4 != 0 {
			return fmt.Errorf("%w: %s is %d, want a multiple of 4 in 4..%d", ErrInvalidLimits, s.name, s.got, s.max)
		}
	}
	return nil
}
