package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zsh-infinite/internal/config"
	"zsh-infinite/internal/prompt"
	"zsh-infinite/internal/termstyle"
)

func newPromptCmd() *cobra.Command {
	var status int
	var width int
	var dialect string
	var colorProfile string
	var dir string

	cmd := &cobra.Command{
		Use:       "prompt <left|right|transient|hook>",
		Short:     "Render one part of the prompt",
		Long:      "Render the prompt text zsh asks for on each redraw. Called from the shell integration, not by hand.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"left", "right", "transient", "hook"},
		RunE: func(cmd *cobra.Command, args []string) error {
			trigger, err := prompt.ParseTrigger(args[0])
			if err != nil {
				return err
			}
			env, err := loadEnv()
			if err != nil {
				return err
			}

			d := env.settings.Dialect
			if dialect != "" {
				if d, err = termstyle.ParseDialect(dialect); err != nil {
					return err
				}
			}
			if colorProfile == "" {
				colorProfile = env.settings.ColorProfile
			}
			profile, err := termstyle.ParseProfile(colorProfile)
			if err != nil {
				return err
			}

			th, err := env.loadTheme()
			if err != nil {
				return err
			}

			opts := prompt.Options{
				Themes:  prompt.Static{Theme: th},
				Client:  env.client(),
				Dir:     dir,
				Status:  status,
				Dialect: d,
				Profile: profile,
				Log:     env.log,
			}
			if width > 0 {
				opts.Width = func() int { return width }
			}

			out, err := prompt.New(opts).Render(cmd.Context(), trigger)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&status, "status", 0, "Exit status of the last command")
	cmd.Flags().IntVar(&width, "width", 0, "Terminal width (default: detect)")
	cmd.Flags().StringVar(&dialect, "dialect", "", "Escape dialect: zsh or ansi (default from $"+config.EnvDialect+")")
	cmd.Flags().StringVar(&colorProfile, "color", "", "Color profile: auto, truecolor, 256, 16 or none")
	cmd.Flags().StringVar(&dir, "dir", os.Getenv("PWD"), "Working directory of the shell")

	return cmd
}
