package platform

import (
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// locate finds n bytes at addr for op, checking natural alignment of
// multi-byte units.
func (p *Platform) locate(op string, addr uint64, n uint64, unit bool) ([]byte, *region, error) {
	if unit && n > 1 && addr%n != 0 {
		return nil, nil, &types.PrimitiveError{Op: op, Address: addr, Status: types.StatusMisaligned}
	}
	r, off, ok := p.find(addr, n)
	if !ok {
		return nil, nil, &types.PrimitiveError{Op: op, Address: addr, Status: types.StatusInvalidAddress}
	}
	return r.data[off : off+n], r, nil
}

// writable locates bytes for a plain (unprotected) write.
func (p *Platform) writable(op string, addr uint64, n uint64, unit bool) ([]byte, error) {
	b, r, err := p.locate(op, addr, n, unit)
	if err != nil {
		return nil, err
	}
	if r.class == types.ClassProtected {
		return nil, &types.PrimitiveError{Op: op, Address: addr, Status: types.StatusWriteProtected}
	}
	return b, nil
}

// protected locates bytes for a protected write and checks the bank enable.
func (p *Platform) protected(op string, addr uint64, n uint64) ([]byte, error) {
	b, r, err := p.locate(op, addr, n, true)
	if err != nil {
		return nil, err
	}
	if r.class != types.ClassProtected {
		return nil, &types.PrimitiveError{Op: op, Address: addr, Status: types.StatusInvalidAddress}
	}
	if !p.banks[r.Bank] {
		return nil, &types.PrimitiveError{Op: op, Address: addr, Status: types.StatusBankDisabled}
	}
	return b, nil
}

func (p *Platform) Read8(addr uint64) (uint8, error) {
	b, _, err := p.locate("read8", addr, 1, true)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *Platform) Read16(addr uint64) (uint16, error) {
	b, _, err := p.locate("read16", addr, 2, true)
	if err != nil {
		return 0, err
	}
	return Order.Uint16(b), nil
}

func (p *Platform) Read32(addr uint64) (uint32, error) {
	b, _, err := p.locate("read32", addr, 4, true)
	if err != nil {
		return 0, err
	}
	return Order.Uint32(b), nil
}

func (p *Platform) Write8(addr uint64, v uint8) error {
	b, err := p.writable("write8", addr, 1, true)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func (p *Platform) Write16(addr uint64, v uint16) error {
	b, err := p.writable("write16", addr, 2, true)
	if err != nil {
		return err
	}
	Order.PutUint16(b, v)
	return nil
}

func (p *Platform) Write32(addr uint64, v uint32) error {
	b, err := p.writable("write32", addr, 4, true)
	if err != nil {
		return err
	}
	Order.PutUint32(b, v)
	return nil
}

// ReadBlock copies len(dst) bytes starting at addr.
func (p *Platform) ReadBlock(addr uint64, dst []byte) error {
	b, _, err := p.locate("read-block", addr, uint64(len(dst)), false)
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// WriteBlock copies src to addr. Protected memory is rejected.
func (p *Platform) WriteBlock(addr uint64, src []byte) error {
	b, err := p.writable("write-block", addr, uint64(len(src)), false)
	if err != nil {
		return err
	}
	copy(b, src)
	return nil
}

func (p *Platform) ProtectedWrite8(addr uint64, v uint8) error {
	b, err := p.protected("protected-write8", addr, 1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func (p *Platform) ProtectedWrite16(addr uint64, v uint16) error {
	b, err := p.protected("protected-write16", addr, 2)
	if err != nil {
		return err
	}
	Order.PutUint16(b, v)
	return nil
}

func (p *Platform) ProtectedWrite32(addr uint64, v uint32) error {
	b, err := p.protected("protected-write32", addr, 4)
	if err != nil {
		return err
	}
	Order.PutUint32(b, v)
	return nil
}
