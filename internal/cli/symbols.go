package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

func newLookupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup NAME",
		Short: "Resolve a symbol to its address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := namedAddress(args[0], 0); err != nil {
				return err
			}
			return dispatch(cmd, opts, command.LookupSymbol, command.LookupSymbolCmd{Name: args[0]}.Encode())
		},
	}
}

func newSaveSymbolsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "save-symbols FILE",
		Short: "Write the symbol table to a file (.toml, otherwise JSONL)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFileName(args[0]); err != nil {
				return err
			}
			return dispatch(cmd, opts, command.SaveSymbolTable, command.SaveSymbolTableCmd{FileName: args[0]}.Encode())
		},
	}
}

// newSymbolsCmd manages the symbol table directly, outside the command
// path.
func newSymbolsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "Manage the symbol table",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all symbols",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.close()

			syms, err := s.backend.Symbols().List()
			if err != nil {
				return &sysError{err: err}
			}
			if opts.jsonMode {
				if syms == nil {
					syms = []types.Symbol{}
				}
				return writeJSON(cmd.OutOrStdout(), syms)
			}
			for _, sym := range syms {
				fmt.Fprintf(cmd.OutOrStdout(), "0x%08X  %s\n", sym.Address, sym.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set NAME ADDRESS",
		Short: "Create or replace a symbol",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[1])
			if err != nil {
				return err
			}
			if addr.IsNamed() {
				return fmt.Errorf("symbol address must be numeric, got %q", args[1])
			}
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.backend.Symbols().Set(types.Symbol{Name: args[0], Address: addr.Offset()}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = 0x%08X\n", args[0], addr.Offset())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Import symbols from a .toml or JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.close()

			n, err := s.backend.Symbols().LoadSymbols(opts.fs, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d symbols from %s\n", n, args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.close()
			return s.backend.Symbols().Delete(args[0])
		},
	})
	return cmd
}
