package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"zsh-infinite/internal/color"
	"zsh-infinite/internal/prompt"
	"zsh-infinite/internal/termstyle"
	"zsh-infinite/internal/theme"
)

func newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Inspect or reset the prompt theme",
	}
	cmd.AddCommand(
		newThemePathCmd(),
		newThemeShowCmd(),
		newThemeResetCmd(),
		newThemePreviewCmd(),
	)
	return cmd
}

func newThemePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the theme file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), env.settings.ThemePath)
			return nil
		},
	}
}

func newThemeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective theme as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			th, err := env.loadTheme()
			if err != nil {
				return err
			}
			data, err := theme.Marshal(th)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(data)
			return nil
		},
	}
}

func newThemeResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Overwrite the theme file with the default theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			if err := theme.Save(env.settings.ThemePath, theme.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %s to the default theme.\n", env.settings.ThemePath)
			return nil
		},
	}
}

func newThemePreviewCmd() *cobra.Command {
	var width int
	var watch bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the theme colors and a sample render",
		Long:  "Show the theme colors and a sample render. With --watch, render again every time the theme file changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			th, err := env.loadTheme()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !watch {
				return writePreview(cmd.Context(), out, env, prompt.Static{Theme: th}, width)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			w, err := theme.NewWatcher(ctx, env.settings.ThemePath, env.log)
			if err != nil {
				return err
			}
			defer w.Close()

			reloaded := make(chan struct{}, 1)
			w.OnReload(func(*theme.Theme) {
				select {
				case reloaded <- struct{}{}:
				default:
				}
			})

			for {
				if err := writePreview(ctx, out, env, w, width); err != nil {
					return err
				}
				fmt.Fprintln(out, termstyle.Dim("watching "+env.settings.ThemePath+", ctrl-c to stop"))
				select {
				case <-ctx.Done():
					return nil
				case <-reloaded:
					fmt.Fprintln(out)
				}
			}
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Render width (default: detect)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Render again when the theme file changes")
	return cmd
}

func writePreview(ctx context.Context, out io.Writer, env runtimeEnv, themes prompt.ThemeSource, width int) error {
	th := themes.Current()
	for i, l := range th.Lines {
		fmt.Fprintf(out, "%s\n", termstyle.Bold(fmt.Sprintf("line %d", i)))
		writeSchemeSwatches(out, l.Color)
	}
	fmt.Fprintln(out, termstyle.Bold("transient"))
	writeSchemeSwatches(out, th.Transient)
	fmt.Fprintln(out)

	opts := prompt.Options{
		Themes:  themes,
		Client:  env.client(),
		Dialect: termstyle.DialectANSI,
		Profile: termstyle.ProfileFromEnv(),
		Log:     env.log,
	}
	if width > 0 {
		opts.Width = func() int { return width }
	}
	e := prompt.New(opts)
	for _, trig := range []prompt.Trigger{prompt.TriggerLeft, prompt.TriggerRight, prompt.TriggerTransient} {
		s, err := e.Render(ctx, trig)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n%s\n", termstyle.Dim(string(trig)+":"), s)
	}
	return nil
}

// accentSamples are the progress points shown for an accent.
var accentSamples = []float64{0, 0.25, 0.5, 0.75, 1}

func writeSchemeSwatches(w io.Writer, s theme.ColorScheme) {
	named := []struct {
		label string
		c     color.Color
	}{
		{"bg", s.BG}, {"fg", s.FG}, {"pc", s.PC}, {"sc", s.SC},
	}
	parts := make([]string, 0, len(named)+1)
	for _, n := range named {
		parts = append(parts, swatch(n.label, n.c))
	}

	var accent strings.Builder
	for _, p := range accentSamples {
		accent.WriteString(lipgloss.NewStyle().Background(lipColor(s.Accent.At(p))).Render("  "))
	}
	parts = append(parts, "accent "+accent.String())
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  "))
}

func swatch(label string, c color.Color) string {
	block := lipgloss.NewStyle().Background(lipColor(c)).Render("  ")
	return fmt.Sprintf("%s %s %s", label, block, termstyle.Dim(c.String()))
}

// lipColor converts a theme color to lipgloss, keeping palette colors as
// palette indexes so the terminal's own palette is used.
func lipColor(c color.Color) lipgloss.TerminalColor {
	if c.Kind() == color.KindRGB {
		return lipgloss.Color(c.Hex())
	}
	return lipgloss.Color(strconv.Itoa(int(c.Code())))
}
