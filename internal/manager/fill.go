package manager

import (
	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Fill writes a repeated pattern over a memory range.
func (m *Manager) Fill(msg []byte) (types.CommandOutcome, error) {
	c, err := command.DecodeFill(msg)
	if err != nil {
		return m.fail(err)
	}
	addr, err := c.Address.Resolve(m.resolver())
	if err != nil {
		return m.fail(err)
	}
	if err := m.validator.LoadDumpFill(addr, c.Class, c.ByteCount, types.OpFill); err != nil {
		return m.fail(err)
	}

	n, err := m.engine.Fill(c.Class, addr, c.Pattern, c.ByteCount)
	if err != nil {
		return m.fail(err)
	}

	m.info(notice.FillInfo, "Fill Memory Command: Filled %d bytes at address: 0x%08X with pattern: 0x%08X", n, addr, c.Pattern)
	return types.CommandOutcome{
		Action:         types.ActionFill,
		Class:          c.Class,
		Address:        addr,
		DataValue:      c.Pattern,
		BytesProcessed: n,
	}, nil
}
