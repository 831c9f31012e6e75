package manager

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/crc"
	"github.com/mesh-intelligence/memmgr/internal/filehdr"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/internal/platform"
	"github.com/mesh-intelligence/memmgr/internal/testutil"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type symbolMap map[string]uint64

func (s symbolMap) LookupSymbol(name string) (uint64, error) {
	addr, ok := s[name]
	if !ok {
		return 0, fmt.Errorf("unknown symbol %q", name)
	}
	return addr, nil
}

func (s symbolMap) SaveSymbols(fs afero.Fs, path string) (int, error) {
	var out []byte
	for name, addr := range s {
		out = fmt.Appendf(out, "%s=0x%08X\n", name, addr)
	}
	return len(s), afero.WriteFile(fs, path, out, 0o644)
}

type fixture struct {
	platform *platform.Platform
	faulty   *testutil.FaultyMemory
	fs       afero.Fs
	notices  *notice.Recorder
	mgr      *Manager
}

type option func(*Deps)

func withFs(fs afero.Fs) option { return func(d *Deps) { d.Fs = fs } }

func withoutSymbols() option { return func(d *Deps) { d.Symbols = nil } }

func newFixture(t *testing.T, opts ...option) *fixture {
	t.Helper()
	p := testutil.NewPlatform(t)
	f := &fixture{
		platform: p,
		faulty:   &testutil.FaultyMemory{RawMemory: p},
		fs:       afero.NewMemMapFs(),
		notices:  &notice.Recorder{},
	}
	d := Deps{
		Raw:       f.faulty,
		Protected: p,
		Ranges:    p,
		Symbols:   symbolMap{"table": testutil.RAMBase + 0x1000, "nvram": testutil.ProtectedBase},
		Fs:        f.fs,
		Notices:   f.notices,
		Caps:      types.AllClasses(),
		Limits:    types.DefaultLimits(),
		Now:       func() time.Time { return fixedTime },
		Log:       testutil.Logger(t),
	}
	for _, o := range opts {
		o(&d)
	}
	f.fs = d.Fs
	mgr, err := New(d)
	require.NoError(t, err)
	f.mgr = mgr
	return f
}

func sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*13 + 1)
	}
	return b
}

// writeLoadFile builds a load file by hand. payload may differ in length
// from hdr.ByteCount.
func writeLoadFile(t *testing.T, fs afero.Fs, name string, hdr types.TransferHeader, payload []byte) {
	t.Helper()
	f, err := fs.Create(name)
	require.NoError(t, err)
	primary := types.PrimaryHeader{ContentType: types.ContentTypeCFE1, SubType: types.SubTypeMemoryMgr}
	require.NoError(t, filehdr.Write(f, primary, hdr))
	_, err = f.Write(payload)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Deps{})
	assert.ErrorIs(t, err, ErrMissingDependency)

	p := testutil.NewPlatform(t)
	_, err = New(Deps{Raw: p, Protected: p, Ranges: p, Fs: afero.NewMemMapFs(), Notices: &notice.Recorder{}})
	assert.ErrorIs(t, err, types.ErrInvalidLimits)
}

func TestDumpThenLoadRoundTrip(t *testing.T) {
	f := newFixture(t)
	src := uint64(testutil.RAMBase + 0x100)
	dst := uint64(testutil.RAMBase + 0x8000)
	data := sequence(256)
	require.NoError(t, f.platform.WriteBlock(src, data))

	out, err := f.mgr.DumpToFile(command.DumpFileCmd{
		Class: types.ClassRAM, ByteCount: 256, Address: types.Raw(src), FileName: "/dump.dat",
	}.Encode())
	require.NoError(t, err)
	assert.Equal(t, types.CommandOutcome{
		Action: types.ActionDumpToFile, Class: types.ClassRAM, Address: src, BytesProcessed: 256, FileName: "/dump.dat",
	}, out)

	raw, err := afero.ReadFile(f.fs, "/dump.dat")
	require.NoError(t, err)
	require.Len(t, raw, types.HeaderOverhead+256)
	assert.Equal(t, data, raw[types.HeaderOverhead:])

	fh, err := f.fs.Open("/dump.dat")
	require.NoError(t, err)
	primary, hdr, err := filehdr.Read(fh)
	require.NoError(t, err)
	require.NoError(t, fh.Close())
	assert.Equal(t, types.SubTypeMemoryMgr, primary.SubType)
	assert.True(t, primary.Created.Equal(fixedTime))
	assert.Equal(t, DumpDescription, primary.Description)
	assert.Equal(t, types.Raw(src), hdr.Address)
	assert.Equal(t, crc.Checksum(crc.DumpFile, data), hdr.CRC, "header checksum must match an independent computation")

	// Retarget the file and load it somewhere else.
	hdr.Address = types.Raw(dst)
	writeLoadFile(t, f.fs, "/dump.dat", hdr, data)

	out, err = f.mgr.LoadFromFile(command.LoadFileCmd{FileName: "/dump.dat"}.Encode())
	require.NoError(t, err)
	assert.Equal(t, types.ActionLoadFromFile, out.Action)
	assert.Equal(t, dst, out.Address)
	assert.Equal(t, uint32(256), out.BytesProcessed)

	got := make([]byte, 256)
	require.NoError(t, f.platform.ReadBlock(dst, got))
	assert.Equal(t, data, got)
	assert.Equal(t, 1, f.notices.Count(notice.DumpFileInfo))
	assert.Equal(t, 1, f.notices.Count(notice.LoadFileInfo))
}

func TestDumpThenLoadEveryClass(t *testing.T) {
	for _, class := range types.AllClasses().Classes() {
		t.Run(class.String(), func(t *testing.T) {
			f := newFixture(t)
			addr := testutil.Base(class) + 0x40
			data := sequence(2*types.MaxDumpSegment + 40)

			_, err := f.mgr.Fill(command.FillCmd{
				Class: class, ByteCount: uint32(len(data)), Pattern: 0, Address: types.Raw(addr),
			}.Encode())
			require.NoError(t, err)
			hdr := types.TransferHeader{
				Address:   types.Raw(addr),
				ByteCount: uint32(len(data)),
				CRC:       crc.Checksum(crc.LoadFile, data),
				Class:     class,
			}
			writeLoadFile(t, f.fs, "/in.dat", hdr, data)
			_, err = f.mgr.LoadFromFile(command.LoadFileCmd{FileName: "/in.dat"}.Encode())
			require.NoError(t, err)

			_, err = f.mgr.DumpToFile(command.DumpFileCmd{
				Class: class, ByteCount: uint32(len(data)), Address: types.Raw(addr), FileName: "/out.dat",
			}.Encode())
			require.NoError(t, err)
			raw, err := afero.ReadFile(f.fs, "/out.dat")
			require.NoError(t, err)
			assert.Equal(t, data, raw[types.HeaderOverhead:])
		})
	}
}

func TestLoadFromFileRejectsBeforeWriting(t *testing.T) {
	data := sequence(64)
	good := types.TransferHeader{
		Address:   types.Raw(testutil.RAMBase),
		ByteCount: 64,
		CRC:       crc.Checksum(crc.LoadFile, data),
		Class:     types.ClassRAM,
	}
	tests := []struct {
		name    string
		hdr     func(types.TransferHeader) types.TransferHeader
		payload []byte
		wantErr error
		wantID  types.EventID
	}{
		{
			name:    "payload longer than header",
			hdr:     func(h types.TransferHeader) types.TransferHeader { return h },
			payload: append(sequence(64), 0xFF),
			wantErr: types.ErrFileSizeMismatch,
			wantID:  notice.FileSizeErr,
		},
		{
			name:    "payload shorter than header",
			hdr:     func(h types.TransferHeader) types.TransferHeader { return h },
			payload: data[:60],
			wantErr: types.ErrFileSizeMismatch,
			wantID:  notice.FileSizeErr,
		},
		{
			name:    "checksum mismatch",
			hdr:     func(h types.TransferHeader) types.TransferHeader { h.CRC ^= 1; return h },
			payload: data,
			wantErr: types.ErrChecksumMismatch,
			wantID:  notice.ChecksumErr,
		},
		{
			name:    "unknown symbol",
			hdr:     func(h types.TransferHeader) types.TransferHeader { h.Address = types.Named("nope", 0); return h },
			payload: data,
			wantErr: types.ErrSymbolResolution,
			wantID:  notice.SymbolResolutionErr,
		},
		{
			name:    "class mismatch",
			hdr:     func(h types.TransferHeader) types.TransferHeader { h.Class = types.ClassMem32; return h },
			payload: data,
			wantErr: types.ErrRangeValidation,
			wantID:  notice.RangeErr,
		},
		{
			name: "too large",
			hdr: func(h types.TransferHeader) types.TransferHeader {
				h.ByteCount = types.MaxRAMFileData + 1
				h.CRC = crc.Checksum(crc.LoadFile, make([]byte, h.ByteCount))
				return h
			},
			payload: make([]byte, types.MaxRAMFileData+1),
			wantErr: types.ErrDataSizeBytes,
			wantID:  notice.DataSizeBytesErr,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			writeLoadFile(t, f.fs, "/bad.dat", tt.hdr(good), tt.payload)

			out, err := f.mgr.LoadFromFile(command.LoadFileCmd{FileName: "/bad.dat"}.Encode())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, out.IsZero())
			assert.Zero(t, f.faulty.Writes, "memory must not be touched")
			require.Len(t, f.notices.Notices, 1)
			assert.Equal(t, tt.wantID, f.notices.Notices[0].ID)
		})
	}
}

func TestLoadFromFileMissingOrTruncated(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.LoadFromFile(command.LoadFileCmd{FileName: "/missing.dat"}.Encode())
	assert.ErrorIs(t, err, types.ErrFileOpen)

	require.NoError(t, afero.WriteFile(f.fs, "/short.dat", make([]byte, 70), 0o644))
	_, err = f.mgr.LoadFromFile(command.LoadFileCmd{FileName: "/short.dat"}.Encode())
	assert.ErrorIs(t, err, types.ErrSecondaryHeader)

	_, err = f.mgr.LoadFromFile(command.LoadFileCmd{FileName: ""}.Encode())
	assert.ErrorIs(t, err, types.ErrInvalidFileName)

	assert.Equal(t, 1, f.notices.Count(notice.FileOpenErr))
	assert.Equal(t, 1, f.notices.Count(notice.SecondaryHeaderErr))
	assert.Equal(t, 1, f.notices.Count(notice.FileNameErr))
	assert.Zero(t, f.faulty.Writes)
}

// closeFailFs hands out files whose Close reports an error after closing.
type closeFailFs struct {
	afero.Fs
}

type closeFailFile struct {
	afero.File
}

var errClose = errors.New("device busy")

func (f closeFailFile) Close() error {
	_ = f.File.Close()
	return errClose
}

func (fs closeFailFs) Open(name string) (afero.File, error) {
	f, err := fs.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	return closeFailFile{f}, nil
}

func (fs closeFailFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := fs.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return closeFailFile{f}, nil
}

func TestDumpToFileCloseFailure(t *testing.T) {
	f := newFixture(t, withFs(closeFailFs{afero.NewMemMapFs()}))

	out, err := f.mgr.DumpToFile(command.DumpFileCmd{
		Class: types.ClassRAM, ByteCount: 32, Address: types.Raw(testutil.RAMBase), FileName: "/d.dat",
	}.Encode())
	assert.ErrorIs(t, err, types.ErrFileClose)
	assert.ErrorIs(t, err, errClose)
	assert.True(t, out.IsZero())
	assert.Equal(t, 1, f.notices.Count(notice.FileCloseErr))
	assert.Zero(t, f.notices.Count(notice.DumpFileInfo))
}

func TestLoadFromFileFailureAndCloseFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	f := newFixture(t, withFs(closeFailFs{base}))
	writeLoadFile(t, base, "/l.dat", types.TransferHeader{
		Address: types.Raw(testutil.RAMBase), ByteCount: 8, CRC: 0xBAD, Class: types.ClassRAM,
	}, sequence(8))

	_, err := f.mgr.LoadFromFile(command.LoadFileCmd{FileName: "/l.dat"}.Encode())
	assert.ErrorIs(t, err, types.ErrChecksumMismatch)
	assert.ErrorIs(t, err, types.ErrFileClose)
	require.Len(t, f.notices.Notices, 2)
	assert.Equal(t, notice.ChecksumErr, f.notices.Notices[0].ID)
	assert.Equal(t, notice.FileCloseErr, f.notices.Notices[1].ID)
}

func TestDumpToFileMemoryFailure(t *testing.T) {
	f := newFixture(t)
	f.faulty.FailReadAt = 2

	_, err := f.mgr.DumpToFile(command.DumpFileCmd{
		Class: types.ClassRAM, ByteCount: 3 * types.MaxDumpSegment, Address: types.Raw(testutil.RAMBase), FileName: "/d.dat",
	}.Encode())
	assert.ErrorIs(t, err, types.ErrMemoryRead)
	assert.Equal(t, 1, f.notices.Count(notice.MemoryReadErr))
	assert.Len(t, f.notices.Notices, 1)
}

func TestDumpToFileValidatesBeforeCreating(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.DumpToFile(command.DumpFileCmd{
		Class: types.ClassRAM, ByteCount: 0, Address: types.Raw(testutil.RAMBase), FileName: "/d.dat",
	}.Encode())
	assert.ErrorIs(t, err, types.ErrDataSizeBytes)
	exists, err := afero.Exists(f.fs, "/d.dat")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPokeProtectedThenPeek(t *testing.T) {
	f := newFixture(t)
	addr := uint64(testutil.ProtectedBase + 8)

	out, err := f.mgr.Poke(command.PokeCmd{
		Class: types.ClassProtected, Width: types.Width32, Data: 0xAABBCCDD, Address: types.Raw(addr),
	}.Encode())
	require.NoError(t, err)
	assert.Equal(t, types.CommandOutcome{
		Action: types.ActionPoke, Class: types.ClassProtected, Address: addr, DataValue: 0xAABBCCDD, BytesProcessed: 4,
	}, out)
	assert.Equal(t, 1, f.notices.Count(notice.ProtectedPokeInfo))

	out, err = f.mgr.Peek(command.PeekCmd{Class: types.ClassProtected, Width: types.Width32, Address: types.Raw(addr)}.Encode())
	require.NoError(t, err)
	assert.Equal(t, uint32(0xAABBCCDD), out.DataValue)
	last, _ := f.notices.Last()
	assert.Equal(t, "Peek Command: Addr = 0x00300008 Size = 32 bits Data = 0xAABBCCDD", last.Message)
}

func TestPokeTruncatesToWidth(t *testing.T) {
	f := newFixture(t)
	addr := uint64(testutil.RAMBase + 2)
	out, err := f.mgr.Poke(command.PokeCmd{Class: types.ClassRAM, Width: types.Width16, Data: 0x1234ABCD, Address: types.Raw(addr)}.Encode())
	require.NoError(t, err)
	assert.Equal(t, uint32(0xABCD), out.DataValue)

	v, err := f.platform.Read16(addr)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xABCD), v)
	b, err := f.platform.Read8(addr + 2)
	require.NoError(t, err)
	assert.Zero(t, b)
}

func TestPeekPokeRejections(t *testing.T) {
	tests := []struct {
		name    string
		cmd     command.PeekCmd
		wantErr error
		wantID  types.EventID
	}{
		{"no class", command.PeekCmd{Class: types.ClassNone, Width: types.Width8, Address: types.Raw(testutil.RAMBase)}, types.ErrMemoryType, notice.MemoryTypeErr},
		{"bad width", command.PeekCmd{Class: types.ClassRAM, Width: 12, Address: types.Raw(testutil.RAMBase)}, types.ErrDataSizeBits, notice.DataSizeBitsErr},
		{"restricted width", command.PeekCmd{Class: types.ClassMem16, Width: types.Width32, Address: types.Raw(testutil.Mem16Base)}, types.ErrDataSizeBits, notice.DataSizeBitsErr},
		{"wrong region", command.PeekCmd{Class: types.ClassRAM, Width: types.Width8, Address: types.Raw(testutil.Mem8Base)}, types.ErrRangeValidation, notice.RangeErr},
		{"misaligned", command.PeekCmd{Class: types.ClassRAM, Width: types.Width32, Address: types.Raw(testutil.RAMBase + 2)}, types.ErrAlignment, notice.AlignmentErr},
		{"unknown symbol", command.PeekCmd{Class: types.ClassRAM, Width: types.Width8, Address: types.Named("ghost", 0)}, types.ErrSymbolResolution, notice.SymbolResolutionErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			out, err := f.mgr.Peek(tt.cmd.Encode())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, out.IsZero())
			require.Len(t, f.notices.Notices, 1)
			assert.Equal(t, tt.wantID, f.notices.Notices[0].ID)
			assert.Equal(t, types.SeverityError, f.notices.Notices[0].Severity)
			assert.Zero(t, f.faulty.Reads)
		})
	}
}

func TestPeekNamedAddress(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.platform.Write32(testutil.RAMBase+0x1004, 0x01020304))

	out, err := f.mgr.Peek(command.PeekCmd{Class: types.ClassRAM, Width: types.Width32, Address: types.Named("table", 4)}.Encode())
	require.NoError(t, err)
	assert.Equal(t, uint64(testutil.RAMBase+0x1004), out.Address)
	assert.Equal(t, uint32(0x01020304), out.DataValue)
}

func TestProtectedBankControl(t *testing.T) {
	f := newFixture(t)
	poke := command.PokeCmd{Class: types.ClassProtected, Width: types.Width8, Data: 0x5A, Address: types.Named("nvram", 1)}.Encode()

	out, err := f.mgr.DisableProtectedWrite(command.BankCmd{Bank: testutil.ProtectedBank}.Encode())
	require.NoError(t, err)
	assert.Equal(t, types.ActionProtectedWriteDisable, out.Action)

	_, err = f.mgr.Poke(poke)
	assert.ErrorIs(t, err, types.ErrProtectedWrite)
	status, ok := types.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, types.StatusBankDisabled, status)

	out, err = f.mgr.EnableProtectedWrite(command.BankCmd{Bank: testutil.ProtectedBank}.Encode())
	require.NoError(t, err)
	assert.Equal(t, types.ActionProtectedWriteEnable, out.Action)
	assert.Equal(t, uint32(testutil.ProtectedBank), out.DataValue)
	_, err = f.mgr.Poke(poke)
	require.NoError(t, err)

	_, err = f.mgr.EnableProtectedWrite(command.BankCmd{Bank: 9}.Encode())
	assert.ErrorIs(t, err, types.ErrBankControl)
	assert.Equal(t, 1, f.notices.Count(notice.BankControlErr))
	assert.Equal(t, 1, f.notices.Count(notice.ProtectedWriteErr))
}

func TestLoadWID(t *testing.T) {
	data := sequence(100)
	valid := command.LoadWIDCmd{ByteCount: 100, CRC: crc.Checksum(crc.LoadWID, data), Address: types.Raw(testutil.RAMBase + 0x200)}
	copy(valid.Data[:], data)
	// Bytes past ByteCount are not covered by the checksum.
	valid.Data[150] = 0xEE

	t.Run("writes", func(t *testing.T) {
		f := newFixture(t)
		out, err := f.mgr.LoadWID(valid.Encode())
		require.NoError(t, err)
		assert.Equal(t, types.CommandOutcome{
			Action: types.ActionUninterruptibleLoad, Class: types.ClassRAM, Address: testutil.RAMBase + 0x200, BytesProcessed: 100,
		}, out)
		got := make([]byte, 101)
		require.NoError(t, f.platform.ReadBlock(testutil.RAMBase+0x200, got))
		assert.Equal(t, data, got[:100])
		assert.Zero(t, got[100])
		assert.Equal(t, 1, f.faulty.Writes)
	})

	t.Run("bad checksum", func(t *testing.T) {
		f := newFixture(t)
		bad := valid
		bad.CRC++
		_, err := f.mgr.LoadWID(bad.Encode())
		assert.ErrorIs(t, err, types.ErrChecksumMismatch)
		assert.Zero(t, f.faulty.Writes)
	})

	t.Run("not ram", func(t *testing.T) {
		f := newFixture(t)
		other := valid
		other.Address = types.Raw(testutil.ProtectedBase)
		_, err := f.mgr.LoadWID(other.Encode())
		assert.ErrorIs(t, err, types.ErrRangeValidation)
	})

	t.Run("too many bytes", func(t *testing.T) {
		f := newFixture(t)
		big := valid
		big.ByteCount = types.MaxUninterruptibleData + 1
		_, err := f.mgr.LoadWID(big.Encode())
		assert.ErrorIs(t, err, types.ErrDataSizeBytes)
	})
}

func TestDumpInEvent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.platform.WriteBlock(testutil.RAMBase+0x10, []byte{0x01, 0xAB, 0x00, 0xFF}))

	out, err := f.mgr.DumpInEvent(command.DumpInEventCmd{Class: types.ClassRAM, ByteCount: 4, Address: types.Raw(testutil.RAMBase + 0x10)}.Encode())
	require.NoError(t, err)
	assert.Equal(t, uint32(4), out.BytesProcessed)
	last, _ := f.notices.Last()
	assert.Equal(t, notice.DumpInEventInfo, last.ID)
	assert.Equal(t, "Memory Dump: 0x01 0xAB 0x00 0xFF from address: 0x00100010", last.Message)

	_, err = f.mgr.DumpInEvent(command.DumpInEventCmd{Class: types.ClassRAM, ByteCount: types.MaxEventDumpBytes, Address: types.Raw(testutil.RAMBase)}.Encode())
	require.NoError(t, err)
	last, _ = f.notices.Last()
	assert.LessOrEqual(t, len(last.Message), types.MaxNoticeMessage)

	_, err = f.mgr.DumpInEvent(command.DumpInEventCmd{Class: types.ClassRAM, ByteCount: types.MaxEventDumpBytes + 1, Address: types.Raw(testutil.RAMBase)}.Encode())
	assert.ErrorIs(t, err, types.ErrDataSizeBytes)
}

func TestFill(t *testing.T) {
	f := newFixture(t)
	out, err := f.mgr.Fill(command.FillCmd{Class: types.ClassMem16, ByteCount: 6, Pattern: 0xCAFEBEEF, Address: types.Raw(testutil.Mem16Base)}.Encode())
	require.NoError(t, err)
	assert.Equal(t, types.CommandOutcome{
		Action: types.ActionFill, Class: types.ClassMem16, Address: testutil.Mem16Base, DataValue: 0xCAFEBEEF, BytesProcessed: 6,
	}, out)
	for i := uint64(0); i < 3; i++ {
		v, err := f.platform.Read16(testutil.Mem16Base + 2*i)
		require.NoError(t, err)
		assert.Equal(t, uint16(0xBEEF), v)
	}

	_, err = f.mgr.Fill(command.FillCmd{Class: types.ClassMem32, ByteCount: 6, Address: types.Raw(testutil.Mem32Base)}.Encode())
	assert.ErrorIs(t, err, types.ErrAlignment)
}

func TestSymbolCommands(t *testing.T) {
	f := newFixture(t)

	out, err := f.mgr.LookupSymbol(command.LookupSymbolCmd{Name: "table"}.Encode())
	require.NoError(t, err)
	assert.Equal(t, types.CommandOutcome{Action: types.ActionSymbolLookup, Address: testutil.RAMBase + 0x1000}, out)

	_, err = f.mgr.LookupSymbol(command.LookupSymbolCmd{Name: "ghost"}.Encode())
	assert.ErrorIs(t, err, types.ErrSymbolResolution)
	_, err = f.mgr.LookupSymbol(command.LookupSymbolCmd{}.Encode())
	assert.ErrorIs(t, err, types.ErrSymbolResolution)

	out, err = f.mgr.SaveSymbolTable(command.SaveSymbolTableCmd{FileName: "/syms.txt"}.Encode())
	require.NoError(t, err)
	assert.Equal(t, "/syms.txt", out.FileName)
	exists, err := afero.Exists(f.fs, "/syms.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = f.mgr.SaveSymbolTable(command.SaveSymbolTableCmd{}.Encode())
	assert.ErrorIs(t, err, types.ErrInvalidFileName)
}

func TestWithoutSymbolTable(t *testing.T) {
	f := newFixture(t, withoutSymbols())

	_, err := f.mgr.SaveSymbolTable(command.SaveSymbolTableCmd{FileName: "/syms.txt"}.Encode())
	assert.ErrorIs(t, err, types.ErrSymbolTable)
	_, err = f.mgr.Peek(command.PeekCmd{Class: types.ClassRAM, Width: types.Width8, Address: types.Named("table", 0)}.Encode())
	assert.ErrorIs(t, err, types.ErrSymbolResolution)

	// Raw addresses need no resolver.
	_, err = f.mgr.Peek(command.PeekCmd{Class: types.ClassRAM, Width: types.Width8, Address: types.Raw(testutil.RAMBase)}.Encode())
	assert.NoError(t, err)
}

func TestHandlersRejectWrongLength(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.mgr, nil, testutil.Logger(t))
	for code := command.NoOp; code <= command.ProtectedWriteDisable; code++ {
		t.Run(code.String(), func(t *testing.T) {
			f.notices.Reset()
			n, ok := command.Length(code)
			require.True(t, ok)

			out, err := d.Dispatch(code, make([]byte, n+1))
			assert.ErrorIs(t, err, types.ErrLength)
			assert.True(t, out.IsZero())
			require.Len(t, f.notices.Notices, 1)
			assert.Equal(t, notice.LengthErr, f.notices.Notices[0].ID)
		})
	}
	assert.Zero(t, f.faulty.Reads+f.faulty.Writes)
}

func TestEverySuccessEmitsOneInfoNotice(t *testing.T) {
	f := newFixture(t)
	cmds := []struct {
		code command.Code
		msg  []byte
	}{
		{command.NoOp, nil},
		{command.Reset, nil},
		{command.Peek, command.PeekCmd{Class: types.ClassMem8, Width: types.Width8, Address: types.Raw(testutil.Mem8Base)}.Encode()},
		{command.Poke, command.PokeCmd{Class: types.ClassMem32, Width: types.Width32, Data: 7, Address: types.Raw(testutil.Mem32Base)}.Encode()},
		{command.DumpInEvent, command.DumpInEventCmd{Class: types.ClassMem32, ByteCount: 12, Address: types.Raw(testutil.Mem32Base)}.Encode()},
		{command.Fill, command.FillCmd{Class: types.ClassRAM, ByteCount: 500, Pattern: 1, Address: types.Raw(testutil.RAMBase)}.Encode()},
		{command.DumpFile, command.DumpFileCmd{Class: types.ClassMem8, ByteCount: 10, Address: types.Raw(testutil.Mem8Base), FileName: "/m8.dat"}.Encode()},
		{command.LoadFile, command.LoadFileCmd{FileName: "/m8.dat"}.Encode()},
		{command.LookupSymbol, command.LookupSymbolCmd{Name: "nvram"}.Encode()},
		{command.SaveSymbolTable, command.SaveSymbolTableCmd{FileName: "/s.txt"}.Encode()},
		{command.ProtectedWriteDisable, command.BankCmd{Bank: testutil.ProtectedBank}.Encode()},
		{command.ProtectedWriteEnable, command.BankCmd{Bank: testutil.ProtectedBank}.Encode()},
	}
	d := NewDispatcher(f.mgr, nil, testutil.Logger(t))
	for _, c := range cmds {
		f.notices.Reset()
		out, err := d.Dispatch(c.code, c.msg)
		require.NoError(t, err, c.code.String())
		assert.False(t, out.IsZero(), c.code.String())
		require.Len(t, f.notices.Notices, 1, c.code.String())
		assert.Equal(t, types.SeverityInfo, f.notices.Notices[0].Severity, c.code.String())
	}
}
