package manager

import (
	"fmt"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// EnableProtectedWrite allows writes to one protected memory bank.
func (m *Manager) EnableProtectedWrite(msg []byte) (types.CommandOutcome, error) {
	return m.bankControl(command.ProtectedWriteEnable, msg)
}

// DisableProtectedWrite blocks writes to one protected memory bank.
func (m *Manager) DisableProtectedWrite(msg []byte) (types.CommandOutcome, error) {
	return m.bankControl(command.ProtectedWriteDisable, msg)
}

func (m *Manager) bankControl(code command.Code, msg []byte) (types.CommandOutcome, error) {
	c, err := command.DecodeBank(code, msg)
	if err != nil {
		return m.fail(err)
	}

	enable := code == command.ProtectedWriteEnable
	if enable {
		err = m.protect.EnableWrite(c.Bank)
	} else {
		err = m.protect.DisableWrite(c.Bank)
	}
	if err != nil {
		return m.fail(fmt.Errorf("%w: bank %d: %w", types.ErrBankControl, c.Bank, err))
	}

	if enable {
		m.info(notice.ProtectedWriteEnableInfo, "Protected write enabled on bank %d", c.Bank)
		return types.CommandOutcome{Action: types.ActionProtectedWriteEnable, Class: types.ClassProtected, DataValue: c.Bank}, nil
	}
	m.info(notice.ProtectedWriteDisableInfo, "Protected write disabled on bank %d", c.Bank)
	return types.CommandOutcome{Action: types.ActionProtectedWriteDisable, Class: types.ClassProtected, DataValue: c.Bank}, nil
}
