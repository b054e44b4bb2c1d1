package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zsh-infinite",
		Short: "Powerline-style zsh prompt with a segment daemon",
		Long: "zsh-infinite renders a multi-row zsh prompt from configurable segments and " +
			"keeps a background daemon to compute slow segments off the shell's critical path.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newPromptCmd(),
		newSegmentCmd(),
		newDaemonCmd(),
		newDaemonRunCmd(),
		newThemeCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
