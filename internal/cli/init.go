package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/memmgr/internal/paths"
)

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize mmctl configuration and storage",
		Long: "Create the configuration and data directories, write a default config.yaml,\n" +
			"create the database and write a zeroed image for every memory region.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			// Existing images were loaded by openSession; this writes the
			// missing ones and leaves the rest unchanged.
			if err := s.platform.SaveImages(opts.fs, s.dataDir); err != nil {
				return sysErrorf("save images: %w", err)
			}

			configDir, err := paths.ResolveConfigDir(opts.configDir)
			if err != nil {
				return &sysError{err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mmctl initialized\nconfig: %s\ndata:   %s\n", paths.ConfigFile(configDir), s.dataDir)
			return nil
		},
	}
}
