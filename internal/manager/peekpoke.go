package manager

import (
	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Peek reads one unit of memory and reports it in a notice.
func (m *Manager) Peek(msg []byte) (types.CommandOutcome, error) {
	c, err := command.DecodePeek(msg)
	if err != nil {
		return m.fail(err)
	}
	addr, err := c.Address.Resolve(m.resolver())
	if err != nil {
		return m.fail(err)
	}
	if err := m.validator.PeekPoke(addr, c.Class, c.Width); err != nil {
		return m.fail(err)
	}

	value, size, err := m.mem.ReadUnit(c.Class, addr, c.Width)
	if err != nil {
		return m.fail(err)
	}

	m.info(notice.PeekInfo, "Peek Command: Addr = 0x%08X Size = %d bits Data = 0x%0*X", addr, size*8, int(size*2), value)
	return types.CommandOutcome{
		Action:         types.ActionPeek,
		Class:          c.Class,
		Address:        addr,
		DataValue:      value,
		BytesProcessed: size,
	}, nil
}

// Poke writes one unit of memory. Protected memory goes through the
// protected write path.
func (m *Manager) Poke(msg []byte) (types.CommandOutcome, error) {
	c, err := command.DecodePoke(msg)
	if err != nil {
		return m.fail(err)
	}
	addr, err := c.Address.Resolve(m.resolver())
	if err != nil {
		return m.fail(err)
	}
	if err := m.validator.PeekPoke(addr, c.Class, c.Width); err != nil {
		return m.fail(err)
	}

	value := c.Data
	if c.Width != types.Width32 {
		value &= 1<<uint(c.Width) - 1
	}
	size, err := m.mem.WriteUnit(c.Class, addr, c.Width, value)
	if err != nil {
		return m.fail(err)
	}

	if c.Class == types.ClassProtected {
		m.info(notice.ProtectedPokeInfo, "Protected Poke Command: Addr = 0x%08X, Size = %d bits, Data = 0x%0*X", addr, size*8, int(size*2), value)
	} else {
		m.info(notice.PokeInfo, "Poke Command: Addr = 0x%08X, Size = %d bits, Data = 0x%0*X", addr, size*8, int(size*2), value)
	}
	return types.CommandOutcome{
		Action:         types.ActionPoke,
		Class:          c.Class,
		Address:        addr,
		DataValue:      value,
		BytesProcessed: size,
	}, nil
}
