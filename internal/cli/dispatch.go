package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/memmgr/internal/command"
)

// dispatch opens a session, runs one command message through the
// dispatcher and prints the result.
func dispatch(cmd *cobra.Command, opts *options, code command.Code, msg []byte) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	outcome, cmdErr := s.dispatch(code, msg)
	if err := printResult(cmd.OutOrStdout(), opts.jsonMode, s, outcome, cmdErr); err != nil {
		return err
	}
	return cmdErr
}
