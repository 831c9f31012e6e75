package manager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/internal/testutil"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

type collector struct {
	outcomes []types.CommandOutcome
	err      error
}

func (c *collector) Collect(o types.CommandOutcome) error {
	c.outcomes = append(c.outcomes, o)
	return c.err
}

func TestDispatcherCounters(t *testing.T) {
	f := newFixture(t)
	col := &collector{}
	d := NewDispatcher(f.mgr, col, testutil.Logger(t))

	_, err := d.Dispatch(command.NoOp, nil)
	require.NoError(t, err)
	peek := command.PeekCmd{Class: types.ClassRAM, Width: types.Width8, Address: types.Raw(testutil.RAMBase)}.Encode()
	_, err = d.Dispatch(command.Peek, peek)
	require.NoError(t, err)

	hk := d.Housekeeping()
	assert.Equal(t, uint16(2), hk.CmdCounter)
	assert.Zero(t, hk.ErrCounter)
	assert.Equal(t, types.ActionPeek, hk.Last.Action)

	_, err = d.Dispatch(command.Peek, peek[:10])
	assert.ErrorIs(t, err, types.ErrLength)
	hk = d.Housekeeping()
	assert.Equal(t, uint16(2), hk.CmdCounter)
	assert.Equal(t, uint16(1), hk.ErrCounter)
	assert.Equal(t, types.ActionPeek, hk.Last.Action, "a failure leaves the last outcome alone")

	_, err = d.Dispatch(command.Reset, nil)
	require.NoError(t, err)
	assert.Equal(t, Housekeeping{Last: types.CommandOutcome{Action: types.ActionReset}}, d.Housekeeping())

	require.Len(t, col.outcomes, 3)
	assert.Equal(t, types.ActionNoOp, col.outcomes[0].Action)
	assert.Equal(t, types.ActionReset, col.outcomes[2].Action)
}

func TestDispatcherUnknownCommand(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.mgr, nil, testutil.Logger(t))

	out, err := d.Dispatch(command.Code(99), []byte{1, 2})
	assert.ErrorIs(t, err, types.ErrUnknownCommand)
	assert.True(t, out.IsZero())
	assert.Equal(t, uint16(1), d.Housekeeping().ErrCounter)
	assert.Equal(t, 1, f.notices.Count(notice.UnknownCommandErr))
}

func TestDispatcherCollectorFailureIsNotCommandFailure(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.mgr, &collector{err: errors.New("disk full")}, testutil.Logger(t))

	_, err := d.Dispatch(command.NoOp, nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), d.Housekeeping().CmdCounter)
	assert.Zero(t, d.Housekeeping().ErrCounter)
}
