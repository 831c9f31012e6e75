package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

func TestLengths(t *testing.T) {
	want := map[Code]int{
		NoOp:                  0,
		Reset:                 0,
		Peek:                  76,
		Poke:                  80,
		LoadWID:               280,
		LoadFile:              64,
		DumpFile:              144,
		DumpInEvent:           80,
		Fill:                  84,
		LookupSymbol:          64,
		SaveSymbolTable:       64,
		ProtectedWriteEnable:  4,
		ProtectedWriteDisable: 4,
	}
	for code, n := range want {
		got, ok := Length(code)
		assert.True(t, ok, code.String())
		assert.Equal(t, n, got, code.String())
	}
	_, ok := Length(Code(99))
	assert.False(t, ok)
}

func TestCheckLength(t *testing.T) {
	assert.NoError(t, CheckLength(NoOp, nil))
	assert.ErrorIs(t, CheckLength(NoOp, []byte{0}), types.ErrLength)
	assert.ErrorIs(t, CheckLength(Code(42), nil), types.ErrUnknownCommand)
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	msg := PeekCmd{Class: types.ClassRAM, Width: types.Width8, Address: types.Raw(0x10)}.Encode()

	_, err := DecodePeek(msg[:len(msg)-1])
	assert.ErrorIs(t, err, types.ErrLength)

	_, err = DecodePeek(append(msg, 0))
	assert.ErrorIs(t, err, types.ErrLength)
}

func TestMessagesRoundTrip(t *testing.T) {
	peek := PeekCmd{Class: types.ClassMem16, Width: types.Width16, Address: types.Named("hk_buf", 8)}
	gotPeek, err := DecodePeek(peek.Encode())
	require.NoError(t, err)
	assert.Equal(t, peek, gotPeek)

	wid := LoadWIDCmd{ByteCount: 3, CRC: 0x1234, Address: types.Raw(0x100000)}
	copy(wid.Data[:], []byte{1, 2, 3})
	gotWID, err := DecodeLoadWID(wid.Encode())
	require.NoError(t, err)
	assert.Equal(t, wid, gotWID)

	dump := DumpFileCmd{Class: types.ClassRAM, ByteCount: 256, Address: types.Raw(0x100000), FileName: "/ram/dump.dat"}
	gotDump, err := DecodeDumpFile(dump.Encode())
	require.NoError(t, err)
	assert.Equal(t, dump, gotDump)

	bank, err := DecodeBank(ProtectedWriteDisable, BankCmd{Bank: 3}.Encode())
	require.NoError(t, err)
	assert.Equal(t, uint32(3), bank.Bank)
}

func TestEncodeIsBigEndian(t *testing.T) {
	msg := FillCmd{Class: types.ClassRAM, ByteCount: 0x01020304, Pattern: 0xAABBCCDD}.Encode()
	assert.Equal(t, byte(types.ClassRAM), msg[0])
	assert.Equal(t, []byte{1, 2, 3, 4}, msg[4:8])
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, msg[8:12])
}
