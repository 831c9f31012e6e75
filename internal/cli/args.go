package cli

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// parseAddress accepts a number ("0x100000", "1048576"), a symbol name
// ("table") or a symbol plus offset ("table+0x10").
func parseAddress(s string) (types.SymbolicAddress, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.SymbolicAddress{}, fmt.Errorf("empty address")
	}
	if name, off, ok := strings.Cut(s, "+"); ok {
		offset, err := strconv.ParseUint(strings.TrimSpace(off), 0, 64)
		if err != nil {
			return types.SymbolicAddress{}, fmt.Errorf("bad offset in %q: %w", s, err)
		}
		return namedAddress(strings.TrimSpace(name), offset)
	}
	if addr, err := strconv.ParseUint(s, 0, 64); err == nil {
		return types.Raw(addr), nil
	}
	return namedAddress(s, 0)
}

func namedAddress(name string, offset uint64) (types.SymbolicAddress, error) {
	if name == "" {
		return types.SymbolicAddress{}, fmt.Errorf("empty symbol name")
	}
	if len(name) >= types.MaxSymbolName {
		return types.SymbolicAddress{}, fmt.Errorf("symbol name %q longer than %d bytes", name, types.MaxSymbolName-1)
	}
	return types.Named(name, offset), nil
}

func parseUint32(what, s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", what, s, err)
	}
	return uint32(v), nil
}

// parseHexBytes decodes "deadbeef", "de ad be ef" or "0xdeadbeef".
func parseHexBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.Join(strings.Fields(s), "")), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("bad hex data: %w", err)
	}
	return b, nil
}

// classFlag registers --class on cmd.
func classFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "class", "c", "ram", "memory class: ram, protected (eeprom), mem8, mem16, mem32")
}

// widthFor returns the access width for class: the --width flag when set,
// otherwise the class's fixed width or 32 bits.
func widthFor(cmd *cobra.Command, class types.MemoryClass, width uint8) types.Width {
	if cmd.Flags().Changed("width") {
		return types.Width(width)
	}
	if w := class.UnitWidth(); w != 0 {
		return w
	}
	return types.Width32
}

func checkFileName(name string) error {
	if len(name) >= command.MaxFileName {
		return fmt.Errorf("file name %q longer than %d bytes", name, command.MaxFileName-1)
	}
	return nil
}
