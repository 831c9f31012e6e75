package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/memmgr/internal/command"
	"github.com/mesh-intelligence/memmgr/internal/manager"
	"github.com/mesh-intelligence/memmgr/internal/sqlite"
)

const modulePath = "github.com/mesh-intelligence/memmgr"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mmctl version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "mmctl v%s\nmodule: %s\n", manager.Version, modulePath)
			return nil
		},
	}
}

func newNoOpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "noop",
		Short: "Send a no-op command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, opts, command.NoOp, nil)
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	var (
		limit    int
		clearAll bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent successful commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.close()

			if clearAll {
				return s.backend.History().Clear()
			}
			recs, err := s.backend.History().Recent(limit)
			if err != nil {
				return &sysError{err: err}
			}
			if opts.jsonMode {
				if recs == nil {
					recs = []sqlite.Record{}
				}
				return writeJSON(cmd.OutOrStdout(), recs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tACTION\tCLASS\tADDRESS\tBYTES\tVALUE\tFILE")
			for _, r := range recs {
				o := r.Outcome
				fmt.Fprintf(tw, "%s\t%s\t%s\t0x%08X\t%d\t0x%08X\t%s\n",
					r.RecordedAt.Local().Format(time.DateTime), o.Action, o.Class, o.Address, o.BytesProcessed, o.DataValue, o.FileName)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete the stored history")
	return cmd
}
