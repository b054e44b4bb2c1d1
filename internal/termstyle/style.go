// Package termstyle styles terminal text: the CLI's own status output, and
// the escape sequences of the rendered prompt.
package termstyle

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// enabled tracks whether CLI styling is active.
// Defaults to true if stdout is a TTY.
var enabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// SetEnabled overrides the auto-detected TTY check.
func SetEnabled(on bool) {
	enabled = on
}

// Enabled returns whether styling is currently active.
func Enabled() bool {
	return enabled
}

func style(s string, apply func(termenv.Style) termenv.Style) string {
	if !enabled || s == "" {
		return s
	}
	return apply(termenv.String(s)).String()
}

func fg(c termenv.ANSIColor) func(termenv.Style) termenv.Style {
	return func(st termenv.Style) termenv.Style { return st.Foreground(c) }
}

// Bold renders text in bold.
func Bold(s string) string { return style(s, termenv.Style.Bold) }

// Dim renders text in dim/faint.
func Dim(s string) string { return style(s, termenv.Style.Faint) }

func Red(s string) string    { return style(s, fg(termenv.ANSIRed)) }
func Green(s string) string  { return style(s, fg(termenv.ANSIGreen)) }
func Yellow(s string) string { return style(s, fg(termenv.ANSIYellow)) }
func Cyan(s string) string   { return style(s, fg(termenv.ANSICyan)) }

// Symbols for status indicators.
func GreenDot() string { return Green("●") }
func RedDot() string   { return Red("●") }
func YellowDot() string { return Yellow("○") }
