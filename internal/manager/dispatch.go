package manager

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Housekeeping is the state reported to the ground after every command.
type Housekeeping struct {
	CmdCounter uint16               `json:"cmd_counter"`
	ErrCounter uint16               `json:"err_counter"`
	Last       types.CommandOutcome `json:"last"`
}

type handler func(msg []byte) (types.CommandOutcome, error)

// Dispatcher routes commands by code to the Manager's handlers and keeps
// the housekeeping counters. A successful command bumps CmdCounter and
// replaces Last; a failed one bumps ErrCounter and leaves Last alone.
// Reset clears both counters.
type Dispatcher struct {
	mgr       *Manager
	handlers  map[command.Code]handler
	collector types.OutcomeCollector
	hk        Housekeeping
	log       zerolog.Logger
}

// NewDispatcher returns a Dispatcher for m. collector may be nil; when set
// it receives every successful outcome.
func NewDispatcher(m *Manager, collector types.OutcomeCollector, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		mgr:       m,
		collector: collector,
		log:       log.With().Str("component", "dispatcher").Logger(),
	}
	d.handlers = map[command.Code]handler{
		command.NoOp:                  m.NoOp,
		command.Reset:                 m.Reset,
		command.Peek:                  m.Peek,
		command.Poke:                  m.Poke,
		command.LoadWID:               m.LoadWID,
		command.LoadFile:              m.LoadFromFile,
		command.DumpFile:              m.DumpToFile,
		command.DumpInEvent:           m.DumpInEvent,
		command.Fill:                  m.Fill,
		command.LookupSymbol:          m.LookupSymbol,
		command.SaveSymbolTable:       m.SaveSymbolTable,
		command.ProtectedWriteEnable:  m.EnableProtectedWrite,
		command.ProtectedWriteDisable: m.DisableProtectedWrite,
	}
	return d
}

// Dispatch runs the command identified by code.
func (d *Dispatcher) Dispatch(code command.Code, msg []byte) (types.CommandOutcome, error) {
	h, ok := d.handlers[code]
	if !ok {
		d.hk.ErrCounter++
		return d.mgr.fail(fmt.Errorf("%w: code %d", types.ErrUnknownCommand, uint8(code)))
	}

	outcome, err := h(msg)
	if err != nil {
		d.hk.ErrCounter++
		d.log.Debug().Err(err).Stringer("code", code).Msg("command failed")
		return types.CommandOutcome{}, err
	}

	if code == command.Reset {
		d.hk = Housekeeping{Last: outcome}
	} else {
		d.hk.CmdCounter++
		d.hk.Last = outcome
	}
	if d.collector != nil {
		if err := d.collector.Collect(outcome); err != nil {
			d.log.Warn().Err(err).Stringer("action", outcome.Action).Msg("outcome not recorded")
		}
	}
	return outcome, nil
}

// Housekeeping returns the current counters and last outcome.
func (d *Dispatcher) Housekeeping() Housekeeping { return d.hk }
