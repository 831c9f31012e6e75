package manager

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/crc"
	"github.com/mesh-intelligence/memmgr/internal/filehdr"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// LoadWID copies the data carried in the command into RAM in one step,
// without yielding. The checksum covers the first ByteCount bytes of the
// data array.
func (m *Manager) LoadWID(msg []byte) (types.CommandOutcome, error) {
	c, err := command.DecodeLoadWID(msg)
	if err != nil {
		return m.fail(err)
	}
	addr, err := c.Address.Resolve(m.resolver())
	if err != nil {
		return m.fail(err)
	}
	if err := m.validator.LoadDumpFill(addr, types.ClassRAM, c.ByteCount, types.OpUninterruptibleLoad); err != nil {
		return m.fail(err)
	}

	data := c.Data[:c.ByteCount]
	if err := crc.Verify(crc.LoadWID, data, c.CRC); err != nil {
		return m.fail(err)
	}
	if err := m.mem.WriteBlock(types.ClassRAM, addr, data); err != nil {
		return m.fail(err)
	}

	m.info(notice.LoadWIDInfo, "Load Memory WID Command: Wrote %d bytes to address: 0x%08X", c.ByteCount, addr)
	return types.CommandOutcome{
		Action:         types.ActionUninterruptibleLoad,
		Class:          types.ClassRAM,
		Address:        addr,
		BytesProcessed: c.ByteCount,
	}, nil
}

// LoadFromFile loads memory from a load/dump file. The destination, size
// and class come from the file's transfer header. Nothing is written to
// memory until the headers, file size and payload checksum all check out.
func (m *Manager) LoadFromFile(msg []byte) (types.CommandOutcome, error) {
	c, err := command.DecodeLoadFile(msg)
	if err != nil {
		return m.fail(err)
	}
	if c.FileName == "" {
		return m.fail(fmt.Errorf("%w: empty file name", types.ErrInvalidFileName))
	}

	f, err := m.fs.Open(c.FileName)
	if err != nil {
		return m.fail(fmt.Errorf("%w: %s: %w", types.ErrFileOpen, c.FileName, err))
	}
	outcome, err := m.loadFile(f, c.FileName)
	return m.finishFile(f, c.FileName, outcome, err, func(o types.CommandOutcome) {
		m.info(notice.LoadFileInfo, "Load Memory From File Command: Loaded %d bytes to address 0x%08X from file '%s'",
			o.BytesProcessed, o.Address, c.FileName)
	})
}

func (m *Manager) loadFile(f afero.File, name string) (types.CommandOutcome, error) {
	_, hdr, err := filehdr.Read(f)
	if err != nil {
		return types.CommandOutcome{}, err
	}

	info, err := f.Stat()
	if err != nil {
		return types.CommandOutcome{}, fmt.Errorf("%w: %s: %w", types.ErrFileStat, name, err)
	}
	if want := int64(hdr.ByteCount) + types.HeaderOverhead; info.Size() != want {
		return types.CommandOutcome{}, fmt.Errorf("%w: %s is %d bytes, header says %d",
			types.ErrFileSizeMismatch, name, info.Size(), want)
	}

	sum, err := crc.FromReader(crc.LoadFile, f, int64(hdr.ByteCount), int(m.limits.LoadSegment))
	if err != nil {
		return types.CommandOutcome{}, err
	}
	if sum != hdr.CRC {
		return types.CommandOutcome{}, fmt.Errorf("%w: %s: header 0x%08X, computed 0x%08X",
			types.ErrChecksumMismatch, name, hdr.CRC, sum)
	}

	addr, err := hdr.Address.Resolve(m.resolver())
	if err != nil {
		return types.CommandOutcome{}, err
	}
	if err := m.validator.LoadDumpFill(addr, hdr.Class, hdr.ByteCount, types.OpLoad); err != nil {
		return types.CommandOutcome{}, err
	}

	if _, err := f.Seek(types.HeaderOverhead, io.SeekStart); err != nil {
		return types.CommandOutcome{}, fmt.Errorf("%w: %s: %w", types.ErrFileSeek, name, err)
	}
	n, err := m.engine.Load(hdr.Class, addr, f, hdr.ByteCount)
	if err != nil {
		return types.CommandOutcome{}, err
	}

	return types.CommandOutcome{
		Action:         types.ActionLoadFromFile,
		Class:          hdr.Class,
		Address:        addr,
		BytesProcessed: n,
		FileName:       name,
	}, nil
}

// finishFile closes f after a file command. A close failure is reported
// with its own notice even when the command had already failed, and the
// success notice is only emitted once the file is closed.
func (m *Manager) finishFile(f afero.File, name string, outcome types.CommandOutcome, err error,
	success func(types.CommandOutcome)) (types.CommandOutcome, error) {
	if err != nil {
		m.emitError(err)
	}
	if cerr := f.Close(); cerr != nil {
		cerr = fmt.Errorf("%w: %s: %w", types.ErrFileClose, name, cerr)
		m.emitError(cerr)
		return types.CommandOutcome{}, errors.Join(err, cerr)
	}
	if err != nil {
		return types.CommandOutcome{}, err
	}
	success(outcome)
	return outcome, nil
}
