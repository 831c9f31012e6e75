package transfer

import (
	"fmt"
	"io"

	"github.com/mesh-intelligence/memmgr/internal/memory"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Engine runs load, dump and fill transfers against class-aware memory.
type Engine struct {
	mem     *memory.Accessor
	limits  types.Limits
	yield   types.Yielder
	notices types.Emitter
}

// NewEngine returns an Engine. yield may be nil.
func NewEngine(mem *memory.Accessor, limits types.Limits, yield types.Yielder, notices types.Emitter) *Engine {
	return &Engine{mem: mem, limits: limits, yield: yield, notices: notices}
}

func (e *Engine) segmenter(op types.OperationKind) Segmenter {
	return Segmenter{Max: e.limits.Segment(op), Yield: e.yield}
}

// Load copies total bytes from r into memory at addr, one segment at a
// time through a reusable buffer.
func (e *Engine) Load(class types.MemoryClass, addr uint64, r io.Reader, total uint32) (uint32, error) {
	seg := e.segmenter(types.OpLoad)
	buf := make([]byte, seg.Max)
	return seg.Run(total, func(off, size uint32) error {
		n, err := io.ReadFull(r, buf[:size])
		if err != nil {
			return fmt.Errorf("%w: read %d of %d bytes at payload offset %d: %v", types.ErrFileRead, n, size, off, err)
		}
		return e.mem.WriteBlock(class, addr+uint64(off), buf[:size])
	})
}

// Dump copies total bytes from memory at addr to w. A short write is a
// failure even when w reports no error.
func (e *Engine) Dump(class types.MemoryClass, addr uint64, w io.Writer, total uint32) (uint32, error) {
	seg := e.segmenter(types.OpDump)
	buf := make([]byte, seg.Max)
	return seg.Run(total, func(off, size uint32) error {
		if err := e.mem.ReadBlock(class, addr+uint64(off), buf[:size]); err != nil {
			return err
		}
		n, err := w.Write(buf[:size])
		if err != nil {
			return fmt.Errorf("%w: wrote %d of %d bytes at payload offset %d: %v", types.ErrFileWrite, n, size, off, err)
		}
		if n != int(size) {
			return fmt.Errorf("%w: wrote %d of %d bytes at payload offset %d", types.ErrFileWrite, n, size, off)
		}
		return nil
	})
}

// Fill writes pattern over total bytes at addr. For mem16 and mem32 a
// count that is not a whole number of units is truncated to the lower
// multiple and one informational notice is emitted; the returned count is
// the truncated one.
func (e *Engine) Fill(class types.MemoryClass, addr uint64, pattern uint32, total uint32) (uint32, error) {
	if w := class.UnitWidth().Bytes(); w > 1 && total%w != 0 {
		truncated := total - total%w
		e.notices.Emit(notice.FillTruncatedInfo, types.SeverityInfo,
			fmt.Sprintf("Fill %s byte count not a multiple of %d. Reducing from %d to %d", class, w, total, truncated))
		total = truncated
	}

	seg := e.segmenter(types.OpFill)
	buf := PatternBuffer(class, pattern, seg.Max)
	return seg.Run(total, func(off, size uint32) error {
		return e.mem.WriteBlock(class, addr+uint64(off), buf[:size])
	})
}

// PatternBuffer returns size bytes of pattern laid out for class: one byte
// per unit for mem8, the low 16 bits per unit for mem16, and the full
// 32-bit pattern otherwise, all in memory byte order.
func PatternBuffer(class types.MemoryClass, pattern uint32, size uint32) []byte {
	buf := make([]byte, size)
	switch class {
	case types.ClassMem8:
		for i := range buf {
			buf[i] = uint8(pattern)
		}
	case types.ClassMem16:
		for i := 0; i+2 <= len(buf); i += 2 {
			types.MemoryOrder.PutUint16(buf[i:], uint16(pattern))
		}
	default:
		var unit [4]byte
		types.MemoryOrder.PutUint32(unit[:], pattern)
		for i := range buf {
			buf[i] = unit[i%4]
		}
	}
	return buf
}
