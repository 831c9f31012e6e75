package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/memmgr/internal/command"
)

func newProtectCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protect",
		Short: "Enable or disable writes to a protected memory bank",
	}
	for _, sub := range []struct {
		use   string
		short string
		code  command.Code
	}{
		{"enable BANK", "Allow writes to a protected bank", command.ProtectedWriteEnable},
		{"disable BANK", "Block writes to a protected bank", command.ProtectedWriteDisable},
	} {
		code := sub.code
		cmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				bank, err := parseUint32("bank", args[0])
				if err != nil {
					return err
				}
				return dispatch(cmd, opts, code, command.BankCmd{Bank: bank}.Encode())
			},
		})
	}
	return cmd
}
