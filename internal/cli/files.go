package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/crc"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

func newLoadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Load memory from a load/dump file",
		Long:  "Load memory from FILE. Destination, size and memory class come from the file's headers.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFileName(args[0]); err != nil {
				return err
			}
			return dispatch(cmd, opts, command.LoadFile, command.LoadFileCmd{FileName: args[0]}.Encode())
		},
	}
}

func newDumpCmd(opts *options) *cobra.Command {
	var class string
	cmd := &cobra.Command{
		Use:   "dump ADDRESS COUNT FILE",
		Short: "Dump memory to a load/dump file",
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
			if err := checkFileName(args[2]); err != nil {
				return err
			}
			msg := command.DumpFileCmd{Class: c, ByteCount: count, Address: addr, FileName: args[2]}.Encode()
			return dispatch(cmd, opts, command.DumpFile, msg)
		},
	}
	classFlag(cmd, &class)
	return cmd
}

func newLoadWIDCmd(opts *options) *cobra.Command {
	var crcFlag string
	cmd := &cobra.Command{
		Use:   "load-wid ADDRESS HEXDATA",
		Short: "Write up to 200 bytes to RAM in one uninterruptible step",
		Long: "Write HEXDATA to RAM without yielding. The checksum is computed from the data\n" +
			"unless --crc is given.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			data, err := parseHexBytes(args[1])
			if err != nil {
				return err
			}
			if len(data) > types.MaxUninterruptibleData {
				return fmt.Errorf("%d bytes of data, at most %d fit in one command", len(data), types.MaxUninterruptibleData)
			}

			c := command.LoadWIDCmd{ByteCount: uint32(len(data)), Address: addr}
			copy(c.Data[:], data)
			if crcFlag != "" {
				if c.CRC, err = parseUint32("crc", crcFlag); err != nil {
					return err
				}
			} else {
				c.CRC = crc.Checksum(crc.LoadWID, data)
			}
			return dispatch(cmd, opts, command.LoadWID, c.Encode())
		},
	}
	cmd.Flags().StringVar(&crcFlag, "crc", "", "checksum to send instead of the computed one")
	return cmd
}
