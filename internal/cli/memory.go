package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

func newPeekCmd(opts *options) *cobra.Command {
	var (
		class string
		width uint8
	)
	cmd := &cobra.Command{
		Use:   "peek ADDRESS",
		Short: "Read one unit of memory",
		Long:  "Read one 8, 16 or 32 bit unit. ADDRESS is a number, a symbol, or symbol+offset.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := types.ParseMemoryClass(class)
			if err != nil {
				return err
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			msg := command.PeekCmd{Class: c, Width: widthFor(cmd, c, width), Address: addr}.Encode()
			return dispatch(cmd, opts, command.Peek, msg)
		},
	}
	classFlag(cmd, &class)
	cmd.Flags().Uint8VarP(&width, "width", "w", 32, "access width in bits: 8, 16 or 32")
	return cmd
}

func newPokeCmd(opts *options) *cobra.Command {
	var (
		class string
		width uint8
	)
	cmd := &cobra.Command{
		Use:   "poke ADDRESS VALUE",
		Short: "Write one unit of memory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := types.ParseMemoryClass(class)
			if err != nil {
				return err
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			value, err := parseUint32("value", args[1])
			if err != nil {
				return err
			}
			msg := command.PokeCmd{Class: c, Width: widthFor(cmd, c, width), Data: value, Address: addr}.Encode()
			return dispatch(cmd, opts, command.Poke, msg)
		},
	}
	classFlag(cmd, &class)
	cmd.Flags().Uint8VarP(&width, "width", "w", 32, "access width in bits: 8, 16 or 32")
	return cmd
}

func newFillCmd(opts *options) *cobra.Command {
	var class string
	cmd := &cobra.Command{
		Use:   "fill ADDRESS COUNT PATTERN",
		Short: "Fill memory with a repeated 32-bit pattern",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := types.ParseMemoryClass(class)
			if err != nil {
				return err
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			count, err := parseUint32("count", args[1])
			if err != nil {
				return err
			}
			pattern, err := parseUint32("pattern", args[2])
			if err != nil {
				return err
			}
			msg := command.FillCmd{Class: c, ByteCount: count, Pattern: pattern, Address: addr}.Encode()
			return dispatch(cmd, opts, command.Fill, msg)
		},
	}
	classFlag(cmd, &class)
	return cmd
}

func newDumpEventCmd(opts *options) *cobra.Command {
	var class string
	cmd := &cobra.Command{
		Use:   "dump-event ADDRESS COUNT",
		Short: "Report a few bytes of memory in a notice",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := types.ParseMemoryClass(class)
			if err != nil {
				return err
			}
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			count, err := parseUint32("count", args[1])
			if err != nil {
				return err
			}
			msg := command.DumpInEventCmd{Class: c, ByteCount: count, Address: addr}.Encode()
			return dispatch(cmd, opts, command.DumpInEvent, msg)
		},
	}
	classFlag(cmd, &class)
	return cmd
}
