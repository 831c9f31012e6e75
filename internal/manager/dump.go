package manager

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/crc"
	"github.com/mesh-intelligence/memmgr/internal/filehdr"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// DumpDescription is written into the primary header of dump files.
const DumpDescription = "Memory Manager dump file"

// DumpToFile writes memory to a new load/dump file. The headers are
// written first with a zero checksum, the payload is streamed out, then
// the payload is read back to compute the checksum and the headers are
// rewritten.
func (m *Manager) DumpToFile(msg []byte) (types.CommandOutcome, error) {
	c, err := command.DecodeDumpFile(msg)
	if err != nil {
		return m.fail(err)
	}
	if c.FileName == "" {
		return m.fail(fmt.Errorf("%w: empty file name", types.ErrInvalidFileName))
	}
	addr, err := c.Address.Resolve(m.resolver())
	if err != nil {
		return m.fail(err)
	}
	if err := m.validator.LoadDumpFill(addr, c.Class, c.ByteCount, types.OpDump); err != nil {
		return m.fail(err)
	}

	f, err := m.fs.OpenFile(c.FileName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return m.fail(fmt.Errorf("%w: %s: %w", types.ErrFileOpen, c.FileName, err))
	}
	outcome, err := m.dumpFile(f, c, addr)
	return m.finishFile(f, c.FileName, outcome, err, func(o types.CommandOutcome) {
		m.info(notice.DumpFileInfo, "Dump Memory To File Command: Dumped %d bytes from address 0x%08X to file '%s'",
			o.BytesProcessed, o.Address, c.FileName)
	})
}

func (m *Manager) dumpFile(f afero.File, c command.DumpFileCmd, addr uint64) (types.CommandOutcome, error) {
	primary := types.PrimaryHeader{
		ContentType: types.ContentTypeCFE1,
		SubType:     types.SubTypeMemoryMgr,
		ProcessorID: m.procID,
		Created:     m.now(),
		Description: DumpDescription,
	}
	hdr := types.TransferHeader{
		Address:   types.Raw(addr),
		ByteCount: c.ByteCount,
		Class:     c.Class,
	}
	if err := filehdr.Write(f, primary, hdr); err != nil {
		return types.CommandOutcome{}, err
	}

	n, err := m.engine.Dump(c.Class, addr, f, c.ByteCount)
	if err != nil {
		return types.CommandOutcome{}, err
	}

	if _, err := f.Seek(types.HeaderOverhead, io.SeekStart); err != nil {
		return types.CommandOutcome{}, fmt.Errorf("%w: %s: %w", types.ErrFileSeek, c.FileName, err)
	}
	hdr.CRC, err = crc.FromReader(crc.DumpFile, f, int64(n), int(m.limits.DumpSegment))
	if err != nil {
		return types.CommandOutcome{}, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return types.CommandOutcome{}, fmt.Errorf("%w: %s: %w", types.ErrFileSeek, c.FileName, err)
	}
	if err := filehdr.Write(f, primary, hdr); err != nil {
		return types.CommandOutcome{}, err
	}

	return types.CommandOutcome{
		Action:         types.ActionDumpToFile,
		Class:          c.Class,
		Address:        addr,
		BytesProcessed: n,
		FileName:       c.FileName,
	}, nil
}

// DumpInEvent reads a few bytes of memory and reports them as hex in the
// text of a single notice.
func (m *Manager) DumpInEvent(msg []byte) (types.CommandOutcome, error) {
	c, err := command.DecodeDumpInEvent(msg)
	if err != nil {
		return m.fail(err)
	}
	addr, err := c.Address.Resolve(m.resolver())
	if err != nil {
		return m.fail(err)
	}
	if err := m.validator.LoadDumpFill(addr, c.Class, c.ByteCount, types.OpEventDump); err != nil {
		return m.fail(err)
	}

	buf := make([]byte, c.ByteCount)
	if err := m.mem.ReadBlock(c.Class, addr, buf); err != nil {
		return m.fail(err)
	}

	m.notices.Emit(notice.DumpInEventInfo, types.SeverityInfo, formatEventDump(buf, addr))
	return types.CommandOutcome{
		Action:         types.ActionDumpInEvent,
		Class:          c.Class,
		Address:        addr,
		BytesProcessed: c.ByteCount,
	}, nil
}

func formatEventDump(data []byte, addr uint64) string {
	var b strings.Builder
	b.WriteString("Memory Dump: ")
	for _, v := range data {
		fmt.Fprintf(&b, "0x%02X ", v)
	}
	fmt.Fprintf(&b, "from address: 0x%08X", addr)
	return b.String()
}
