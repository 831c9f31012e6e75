// Package cli implements mmctl, the ground console for the memory manager.
//
// Every memory command builds the fixed-length command message the flight
// software would receive and runs it through the same dispatcher, so the
// console exercises exactly the code path of a real command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// options holds global flag values accessible to all subcommands.
type options struct {
	configDir string
	dataDir   string
	jsonMode  bool

	fs afero.Fs
}

// sysError marks a failure of the environment (config, storage, images)
// rather than of the command itself.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func sysErrorf(format string, args ...any) error {
	return &sysError{err: fmt.Errorf(format, args...)}
}

// NewRootCmd creates the top-level "mmctl" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{fs: afero.NewOsFs()})
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "mmctl",
		Short: "Ground console for the flight memory manager",
		Long: "mmctl sends memory manager commands to a simulated flight computer.\n" +
			"Memory regions, the symbol table and the command history live in the data directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.mmctl)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (default: $(CWD)/.mmctl-db)")
	root.PersistentFlags().BoolVar(&opts.jsonMode, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(opts),
		newNoOpCmd(opts),
		newPeekCmd(opts),
		newPokeCmd(opts),
		newFillCmd(opts),
		newDumpEventCmd(opts),
		newLoadCmd(opts),
		newDumpCmd(opts),
		newLoadWIDCmd(opts),
		newLookupCmd(opts),
		newSaveSymbolsCmd(opts),
		newSymbolsCmd(opts),
		newProtectCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Stderr))
}

func run(root *cobra.Command, stderr io.Writer) int {
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitCode(err)
}

func exitCode(err error) int {
	var se *sysError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}
