package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    types.SymbolicAddress
		wantErr bool
	}{
		{in: "0x100000", want: types.Raw(0x100000)},
		{in: "4096", want: types.Raw(4096)},
		{in: "table", want: types.Named("table", 0)},
		{in: "table+0x10", want: types.Named("table", 0x10)},
		{in: " table + 8 ", want: types.Named("table", 8)},
		{in: "", wantErr: true},
		{in: "+4", wantErr: true},
		{in: "table+x", wantErr: true},
		{in: strings.Repeat("s", types.MaxSymbolName), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHexBytes(t *testing.T) {
	b, err := parseHexBytes("0xDE AD be ef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, b)

	_, err = parseHexBytes("abc")
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSysError, exitCode(sysErrorf("disk: %w", types.ErrFileWrite)))
	assert.Equal(t, exitUserError, exitCode(types.ErrAlignment))
}
