package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zsh-infinite/internal/segment"
)

func newSegmentCmd() *cobra.Command {
	var dir string
	var status int
	var format string
	var viaDaemon bool

	cmd := &cobra.Command{
		Use:   "segment <command>",
		Short: "Compute one segment and print its text",
		Long: `Compute one segment command and print the segment texts separated by spaces.

By default the command runs in process. With --daemon it is sent to the
running daemon instead; both paths produce the same output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := segment.ParseKind(args[0])
			if err != nil {
				return err
			}
			c := segment.Command{Kind: kind, Dir: dir, Status: status, Format: format}

			var segs []segment.Segment
			if viaDaemon {
				env, err := loadEnv()
				if err != nil {
					return err
				}
				segs = env.client().Get(cmd.Context(), c)
			} else {
				segs = segment.Exec(cmd.Context(), c)
			}
			fmt.Fprintln(cmd.OutOrStdout(), segment.Format(segs))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", os.Getenv("PWD"), "Working directory to compute the segment for")
	cmd.Flags().IntVar(&status, "status", 0, "Exit status for exit_code")
	cmd.Flags().StringVar(&format, "format", "", "Kind-specific format, e.g. a time layout")
	cmd.Flags().BoolVar(&viaDaemon, "daemon", false, "Ask the running daemon instead of computing in process")

	return cmd
}
