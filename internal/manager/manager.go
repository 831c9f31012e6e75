// Package manager implements the memory manager's command handlers and the
// dispatch layer that feeds them.
//
// Every handler follows the same shape: decode the fixed-length message,
// resolve the symbolic address, validate parameters, then perform the
// access through the class-aware memory layer or the transfer engine. On
// success it emits one informational notice and returns a CommandOutcome;
// on failure it emits exactly one error notice naming the failure and
// returns the zero outcome. Handlers never touch command counters.
package manager

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/mesh-intelligence/memmgr/internal/memory"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/internal/transfer"
	"github.com/mesh-intelligence/memmgr/internal/validate"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Version is reported by the no-op command.
const Version = "1.2.0"

// SymbolStore resolves symbols and can write the whole symbol table to a file.
type SymbolStore interface {
	types.SymbolResolver
	SaveSymbols(fs afero.Fs, path string) (int, error)
}

// Deps collects the collaborators a Manager needs.
type Deps struct {
	Raw       types.RawMemory
	Protected types.ProtectedMemory
	Ranges    types.RangeValidator
	Symbols   SymbolStore
	Fs        afero.Fs
	Notices   types.Emitter
	Yield     types.Yielder
	Caps      types.Capabilities
	Limits    types.Limits

	// ProcessorID is stamped into the primary header of dump files.
	ProcessorID uint32
	// Now defaults to time.Now.
	Now func() time.Time
	Log zerolog.Logger
}

// Manager runs memory manager commands. It is not safe for concurrent
// use: commands are processed one at a time, each to completion.
type Manager struct {
	mem       *memory.Accessor
	engine    *transfer.Engine
	validator *validate.Validator
	symbols   SymbolStore
	protect   types.ProtectedMemory
	fs        afero.Fs
	notices   types.Emitter
	limits    types.Limits
	procID    uint32
	now       func() time.Time
	log       zerolog.Logger
}

// Dependency errors.
var (
	ErrMissingDependency = errors.New("missing manager dependency")
)

// New builds a Manager.
func New(d Deps) (*Manager, error) {
	switch {
	case d.Raw == nil:
		return nil, fmt.Errorf("%w: raw memory", ErrMissingDependency)
	case d.Protected == nil:
		return nil, fmt.Errorf("%w: protected memory", ErrMissingDependency)
	case d.Ranges == nil:
		return nil, fmt.Errorf("%w: range validator", ErrMissingDependency)
	case d.Fs == nil:
		return nil, fmt.Errorf("%w: file system", ErrMissingDependency)
	case d.Notices == nil:
		return nil, fmt.Errorf("%w: notice emitter", ErrMissingDependency)
	}
	if err := d.Limits.Validate(); err != nil {
		return nil, err
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	log := d.Log.With().Str("component", "manager").Logger()
	mem := memory.NewAccessor(d.Raw, d.Protected, d.Caps, d.Log)
	m := &Manager{
		mem:       mem,
		engine:    transfer.NewEngine(mem, d.Limits, d.Yield, d.Notices),
		validator: validate.New(d.Ranges, d.Caps, d.Limits),
		symbols:   d.Symbols,
		protect:   d.Protected,
		fs:        d.Fs,
		notices:   d.Notices,
		limits:    d.Limits,
		procID:    d.ProcessorID,
		now:       d.Now,
		log:       log,
	}
	return m, nil
}

// resolver returns the symbol resolver, nil when no store is attached.
func (m *Manager) resolver() types.SymbolResolver {
	if m.symbols == nil {
		return nil
	}
	return m.symbols
}

func (m *Manager) info(id types.EventID, format string, args ...any) {
	m.notices.Emit(id, types.SeverityInfo, fmt.Sprintf(format, args...))
}

// emitError emits the one error notice describing err. Unsupported
// operation kinds are caller bugs and produce no notice.
func (m *Manager) emitError(err error) {
	if errors.Is(err, types.ErrUnsupportedOperation) {
		m.log.Error().Err(err).Msg("unsupported operation kind")
		return
	}
	m.notices.Emit(notice.ErrorID(err), types.SeverityError, err.Error())
}

// fail emits the error notice for err and returns the zero outcome.
func (m *Manager) fail(err error) (types.CommandOutcome, error) {
	m.emitError(err)
	return types.CommandOutcome{}, err
}
