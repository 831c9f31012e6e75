package cli

import (
	"runtime"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/logging"
	"github.com/mesh-intelligence/memmgr/internal/manager"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/internal/paths"
	"github.com/mesh-intelligence/memmgr/internal/platform"
	"github.com/mesh-intelligence/memmgr/internal/sqlite"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// session is one mmctl run against the simulated flight computer.
type session struct {
	opts       *options
	cfg        types.Config
	dataDir    string
	log        zerolog.Logger
	platform   *platform.Platform
	backend    *sqlite.Backend
	notices    *notice.Recorder
	dispatcher *manager.Dispatcher
}

// openStore loads the config and attaches the SQLite backend. It is all
// the symbol and history commands need.
func openStore(opts *options) (*session, error) {
	configDir, err := paths.ResolveConfigDir(opts.configDir)
	if err != nil {
		return nil, sysErrorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, &sysError{err: err}
	}
	dataDir, err := paths.ResolveDataDir(opts.dataDir, cfg.DataDir)
	if err != nil {
		return nil, sysErrorf("resolve data dir: %w", err)
	}
	cfg.DataDir = dataDir

	log := logging.ConfigureRuntime()
	if lvl, ok := logging.ParseLevel(cfg.LogLevel); ok {
		zerolog.SetGlobalLevel(lvl)
		log = log.Level(lvl)
	}

	backend := sqlite.NewBackend(log)
	if err := backend.Attach(cfg); err != nil {
		return nil, sysErrorf("attach storage: %w", err)
	}
	return &session{
		opts:    opts,
		cfg:     cfg,
		dataDir: dataDir,
		log:     log,
		backend: backend,
	}, nil
}

// openSession builds the whole manager stack: platform with its stored
// images and bank states, SQLite symbol table and history, and the
// dispatcher.
func openSession(opts *options) (*session, error) {
	s, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	if err := s.build(); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) build() error {
	caps, err := s.cfg.Capabilities()
	if err != nil {
		return &sysError{err: err}
	}

	p, err := platform.New(s.cfg.MemoryMap, s.cfg.ProtectedBanksEnabled, s.log)
	if err != nil {
		return sysErrorf("build platform: %w", err)
	}
	if err := p.LoadImages(s.opts.fs, s.dataDir); err != nil {
		return sysErrorf("load images: %w", err)
	}
	stored, err := s.backend.Banks().Load()
	if err != nil {
		return sysErrorf("load bank states: %w", err)
	}
	for bank, enabled := range stored {
		if _, known := p.Banks()[bank]; !known {
			continue
		}
		if enabled {
			err = p.EnableWrite(bank)
		} else {
			err = p.DisableWrite(bank)
		}
		if err != nil {
			return sysErrorf("restore bank %d: %w", bank, err)
		}
	}

	s.notices = &notice.Recorder{}
	mgr, err := manager.New(manager.Deps{
		Raw:       p,
		Protected: p,
		Ranges:    p,
		Symbols:   s.backend.Symbols(),
		Fs:        s.opts.fs,
		Notices:   notice.Tee{notice.NewLogger(s.log), s.notices},
		Yield:     types.YieldFunc(runtime.Gosched),
		Caps:      caps,
		Limits:    s.cfg.Limits,
		Log:       s.log,
	})
	if err != nil {
		return &sysError{err: err}
	}

	s.platform = p
	s.dispatcher = manager.NewDispatcher(mgr, s.backend.History(), s.log)
	return nil
}

// dispatch runs one command and persists whatever it changed.
func (s *session) dispatch(code command.Code, msg []byte) (types.CommandOutcome, error) {
	outcome, err := s.dispatcher.Dispatch(code, msg)
	if err != nil {
		return outcome, err
	}

	switch code {
	case command.Poke, command.LoadWID, command.LoadFile, command.Fill:
		if err := s.platform.SaveImages(s.opts.fs, s.dataDir); err != nil {
			return outcome, sysErrorf("save images: %w", err)
		}
	case command.ProtectedWriteEnable, command.ProtectedWriteDisable:
		bank := outcome.DataValue
		if err := s.backend.Banks().Save(bank, s.platform.BankEnabled(bank)); err != nil {
			return outcome, sysErrorf("save bank state: %w", err)
		}
	}
	return outcome, nil
}

func (s *session) close() error {
	return s.backend.Detach()
}
