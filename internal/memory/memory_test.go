package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/memmgr/internal/platform"
	"github.com/mesh-intelligence/memmgr/internal/testutil"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

func newAccessor(t *testing.T, caps types.Capabilities) (*Accessor, *platform.Platform) {
	t.Helper()
	p := testutil.NewPlatform(t)
	return NewAccessor(p, p, caps, testutil.Logger(t)), p
}

func TestReadWriteUnitRAM(t *testing.T) {
	a, _ := newAccessor(t, types.AllClasses())

	tests := []struct {
		width types.Width
		want  uint32
	}{
		{types.Width8, 0xDD},
		{types.Width16, 0xCCDD},
		{types.Width32, 0xAABBCCDD},
	}
	for _, tt := range tests {
		size, err := a.WriteUnit(types.ClassRAM, testutil.RAMBase+8, tt.width, 0xAABBCCDD)
		require.NoError(t, err)
		assert.Equal(t, tt.width.Bytes(), size)

		v, size, err := a.ReadUnit(types.ClassRAM, testutil.RAMBase+8, tt.width)
		require.NoError(t, err)
		assert.Equal(t, tt.width.Bytes(), size)
		assert.Equal(t, tt.want, v)
	}
}

func TestWidthRestrictedForcesWidth(t *testing.T) {
	a, p := newAccessor(t, types.AllClasses())

	// The caller's width is ignored for mem16.
	size, err := a.WriteUnit(types.ClassMem16, testutil.Mem16Base, types.Width32, 0x12345678)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), size)

	v, err := p.Read32(testutil.Mem16Base)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x5678), v)
}

func TestUnsupportedClass(t *testing.T) {
	a, _ := newAccessor(t, types.Capabilities{Mem8: true})

	_, _, err := a.ReadUnit(types.ClassMem16, testutil.Mem16Base, types.Width16)
	assert.ErrorIs(t, err, types.ErrMemoryType)

	_, err = a.WriteUnit(types.ClassNone, testutil.RAMBase, types.Width8, 0)
	assert.ErrorIs(t, err, types.ErrMemoryType)

	assert.ErrorIs(t, a.WriteBlock(types.ClassMem32, testutil.Mem32Base, make([]byte, 4)), types.ErrMemoryType)
}

func TestProtectedWritePath(t *testing.T) {
	a, p := newAccessor(t, types.AllClasses())

	_, err := a.WriteUnit(types.ClassProtected, testutil.ProtectedBase, types.Width32, 0xAABBCCDD)
	require.NoError(t, err)
	v, _, err := a.ReadUnit(types.ClassProtected, testutil.ProtectedBase, types.Width32)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xAABBCCDD), v)

	require.NoError(t, p.DisableWrite(testutil.ProtectedBank))
	_, err = a.WriteUnit(types.ClassProtected, testutil.ProtectedBase, types.Width8, 1)
	assert.ErrorIs(t, err, types.ErrProtectedWrite)
	status, ok := types.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, types.StatusBankDisabled, status)

	err = a.WriteBlock(types.ClassProtected, testutil.ProtectedBase, []byte{1, 2})
	assert.ErrorIs(t, err, types.ErrProtectedWrite)
}

func TestBlockRoundTripPerClass(t *testing.T) {
	a, _ := newAccessor(t, types.AllClasses())
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	for _, class := range types.AllClasses().Classes() {
		t.Run(class.String(), func(t *testing.T) {
			addr := testutil.Base(class) + 16
			require.NoError(t, a.WriteBlock(class, addr, src))
			got := make([]byte, len(src))
			require.NoError(t, a.ReadBlock(class, addr, got))
			assert.Equal(t, src, got)
		})
	}
}

func TestBlockUnitsAreLittleEndian(t *testing.T) {
	a, p := newAccessor(t, types.AllClasses())

	require.NoError(t, a.WriteBlock(types.ClassMem32, testutil.Mem32Base, []byte{0xDD, 0xCC, 0xBB, 0xAA}))
	v, err := p.Read32(testutil.Mem32Base)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xAABBCCDD), v)
}

func TestBlockAlignment(t *testing.T) {
	a, _ := newAccessor(t, types.AllClasses())

	err := a.WriteBlock(types.ClassMem32, testutil.Mem32Base, make([]byte, 6))
	assert.ErrorIs(t, err, types.ErrAlignment)
	err = a.ReadBlock(types.ClassMem16, testutil.Mem16Base, make([]byte, 3))
	assert.ErrorIs(t, err, types.ErrAlignment)
}

func TestUnitFailureAbortsBlock(t *testing.T) {
	p := testutil.NewPlatform(t)
	faulty := &testutil.FaultyMemory{RawMemory: p, FailWriteAt: 3}
	a := NewAccessor(faulty, p, types.AllClasses(), testutil.Logger(t))

	err := a.WriteBlock(types.ClassMem16, testutil.Mem16Base, []byte{1, 0, 2, 0, 3, 0, 4, 0})
	assert.ErrorIs(t, err, types.ErrMemoryWrite)
	assert.Equal(t, 3, faulty.Writes)

	v, err := p.Read16(testutil.Mem16Base + 2)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), v)
	v, err = p.Read16(testutil.Mem16Base + 4)
	require.NoError(t, err)
	assert.Zero(t, v)
}
