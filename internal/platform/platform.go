// Package platform simulates the flight computer the memory manager runs
// on: a memory map of byte-addressed regions, the raw single-unit memory
// primitives, and the write path for protected memory with per-bank write
// enables. Region contents can be persisted as image files so that a
// ground console session survives between invocations.
package platform

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Order is the byte order of multi-byte memory units.
var Order = types.MemoryOrder

var (
	_ types.RawMemory       = (*Platform)(nil)
	_ types.ProtectedMemory = (*Platform)(nil)
	_ types.RangeValidator  = (*Platform)(nil)
)

type region struct {
	types.Region
	class types.MemoryClass
	data  []byte
}

// Platform is an in-memory flight computer. It is not safe for concurrent
// use; the manager processes one command at a time.
type Platform struct {
	regions []*region
	banks   map[uint32]bool
	log     zerolog.Logger
}

// New builds a platform from a memory map. Every bank used by a protected
// region starts enabled or disabled according to banksEnabled.
func New(memoryMap []types.Region, banksEnabled bool, log zerolog.Logger) (*Platform, error) {
	if err := types.ValidateMemoryMap(memoryMap); err != nil {
		return nil, err
	}

	p := &Platform{
		banks: make(map[uint32]bool),
		log:   log.With().Str("component", "platform").Logger(),
	}
	for _, r := range memoryMap {
		class, _ := types.ParseMemoryClass(r.Class)
		p.regions = append(p.regions, &region{Region: r, class: class, data: make([]byte, r.Size)})
		if class == types.ClassProtected {
			p.banks[r.Bank] = banksEnabled
		}
	}
	sort.Slice(p.regions, func(i, j int) bool { return p.regions[i].Base < p.regions[j].Base })
	return p, nil
}

// Regions returns the memory map in address order.
func (p *Platform) Regions() []types.Region {
	out := make([]types.Region, len(p.regions))
	for i, r := range p.regions {
		out[i] = r.Region
	}
	return out
}

// find returns the region holding all of [addr, addr+size) and the offset
// of addr within it.
func (p *Platform) find(addr uint64, size uint64) (*region, uint64, bool) {
	if size == 0 || addr+size < addr {
		return nil, 0, false
	}
	i := sort.Search(len(p.regions), func(i int) bool { return p.regions[i].End() > addr })
	if i == len(p.regions) {
		return nil, 0, false
	}
	r := p.regions[i]
	if addr < r.Base || addr+size > r.End() {
		return nil, 0, false
	}
	return r, addr - r.Base, true
}

// ValidateRange reports whether [address, address+size) lies inside a
// single region of the given class.
func (p *Platform) ValidateRange(address uint64, size uint32, class types.MemoryClass) error {
	r, _, ok := p.find(address, uint64(size))
	if !ok {
		return fmt.Errorf("%w: 0x%08X+%d is outside the memory map", types.ErrRangeValidation, address, size)
	}
	if r.class != class {
		return fmt.Errorf("%w: 0x%08X+%d is %s memory, not %s", types.ErrRangeValidation, address, size, r.class, class)
	}
	return nil
}

// BankEnabled reports whether writes to the protected bank are enabled.
func (p *Platform) BankEnabled(bank uint32) bool {
	return p.banks[bank]
}

// Banks returns the write-enable state of every protected bank.
func (p *Platform) Banks() map[uint32]bool {
	out := make(map[uint32]bool, len(p.banks))
	for bank, enabled := range p.banks {
		out[bank] = enabled
	}
	return out
}

// EnableWrite enables writes to a protected memory bank.
func (p *Platform) EnableWrite(bank uint32) error {
	return p.setBank("enable-write", bank, true)
}

// DisableWrite disables writes to a protected memory bank.
func (p *Platform) DisableWrite(bank uint32) error {
	return p.setBank("disable-write", bank, false)
}

func (p *Platform) setBank(op string, bank uint32, enabled bool) error {
	if _, ok := p.banks[bank]; !ok {
		return &types.PrimitiveError{Op: op, Address: uint64(bank), Status: types.StatusInvalidBank}
	}
	p.banks[bank] = enabled
	p.log.Debug().Uint32("bank", bank).Bool("enabled", enabled).Msg("protected bank")
	return nil
}
