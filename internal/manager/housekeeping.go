package manager

import (
	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// NoOp reports the version.
func (m *Manager) NoOp(msg []byte) (types.CommandOutcome, error) {
	if err := command.CheckLength(command.NoOp, msg); err != nil {
		return m.fail(err)
	}
	m.info(notice.NoOpInfo, "No-op command. Version %s", Version)
	return types.CommandOutcome{Action: types.ActionNoOp}, nil
}

// Reset acknowledges a counter reset. The counters themselves live in the
// Dispatcher.
func (m *Manager) Reset(msg []byte) (types.CommandOutcome, error) {
	if err := command.CheckLength(command.Reset, msg); err != nil {
		return m.fail(err)
	}
	m.info(notice.ResetInfo, "Reset counters command received")
	return types.CommandOutcome{Action: types.ActionReset}, nil
}
