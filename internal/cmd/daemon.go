package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zsh-infinite/internal/daemon"
	"zsh-infinite/internal/termstyle"
)

// newDaemonRunCmd is the entry point of the detached daemon process.
func newDaemonRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "_daemon",
		Short:  "Run as the segment daemon (internal)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			return env.manager().RunDaemon(cmd.Context())
		},
	}
}

func newDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Manage the background segment daemon",
	}
	cmd.AddCommand(
		newDaemonStartCmd(),
		newDaemonStopCmd(),
		newDaemonRestartCmd(),
		newDaemonStatusCmd(),
	)
	return cmd
}

func newDaemonStartCmd() *cobra.Command {
	var foreground bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			m := env.manager()
			if foreground {
				return m.RunDaemon(cmd.Context())
			}
			res, err := m.Start(cmd.Context())
			if err != nil {
				if errors.Is(err, daemon.ErrAlreadyRunning) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s Daemon already running.\n", termstyle.YellowDot())
					return nil
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Daemon started (pid %d).\n", termstyle.GreenDot(), res.PID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&foreground, "foreground", false, "Run in this process instead of detaching")
	return cmd
}

func newDaemonStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			res, err := env.manager().Stop()
			if err != nil {
				return err
			}
			printStop(cmd, res)
			return nil
		},
	}
}

func newDaemonRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Stop and start the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			stopped, started, err := env.manager().Restart(cmd.Context())
			printStop(cmd, stopped)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Daemon started (pid %d).\n", termstyle.GreenDot(), started.PID)
			return nil
		},
	}
}

func printStop(cmd *cobra.Command, res daemon.StopResult) {
	out := cmd.OutOrStdout()
	switch {
	case !res.Running:
		fmt.Fprintln(out, "No running daemon.")
	case res.SignalErr != nil:
		fmt.Fprintf(out, "%s Could not signal pid %d (%v); removed stale files.\n", termstyle.YellowDot(), res.PID, res.SignalErr)
	default:
		fmt.Fprintf(out, "%s Daemon stopped (pid %d).\n", termstyle.RedDot(), res.PID)
	}
}

func newDaemonStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the daemon is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			st := env.manager().Status(cmd.Context())
			out := cmd.OutOrStdout()

			switch {
			case st.Answering:
				fmt.Fprintf(out, "%s running", termstyle.GreenDot())
			case st.Alive:
				fmt.Fprintf(out, "%s process alive, socket not answering", termstyle.YellowDot())
			default:
				fmt.Fprintf(out, "%s not running", termstyle.RedDot())
			}
			if st.PID > 0 {
				fmt.Fprintf(out, " %s", termstyle.Dim(fmt.Sprintf("(pid %d)", st.PID)))
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  socket: %s\n  log:    %s\n", env.paths.Socket, env.paths.Log)
			return nil
		},
	}
}
