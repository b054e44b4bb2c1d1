package termstyle

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"zsh-infinite/internal/color"
)

// Dialect is the escape flavour of rendered prompt text.
type Dialect string

const (
	// DialectANSI emits raw SGR sequences, for terminals and tests.
	DialectANSI Dialect = "ansi"
	// DialectZsh wraps every sequence in %{ %} so zsh does not count it
	// towards the prompt width, and escapes literal % as %%.
	DialectZsh Dialect = "zsh"
)

// ParseDialect validates a dialect name.
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(s); d {
	case DialectANSI, DialectZsh:
		return d, nil
	}
	return "", fmt.Errorf("unknown dialect %q (want ansi or zsh)", s)
}

// ParseProfile maps a color profile name to a termenv profile. The empty
// string and "auto" read the environment (see ProfileFromEnv).
func ParseProfile(s string) (termenv.Profile, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ProfileFromEnv(), nil
	case "truecolor", "24bit":
		return termenv.TrueColor, nil
	case "256", "ansi256":
		return termenv.ANSI256, nil
	case "16", "ansi":
		return termenv.ANSI, nil
	case "none", "ascii":
		return termenv.Ascii, nil
	}
	return termenv.Ascii, fmt.Errorf("unknown color profile %q", s)
}

// ProfileFromEnv picks a color profile from NO_COLOR, COLORTERM and TERM.
// Prompt text is usually captured by the shell rather than written to a
// TTY, so the TTY check termenv applies to stdout would always say Ascii.
func ProfileFromEnv() termenv.Profile {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return termenv.Ascii
	}
	switch strings.ToLower(os.Getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return termenv.TrueColor
	}
	term := os.Getenv("TERM")
	switch {
	case term == "dumb":
		return termenv.Ascii
	case strings.Contains(term, "256color"), strings.Contains(term, "truecolor"):
		return termenv.ANSI256
	}
	return termenv.ANSI
}

// Builder accumulates styled prompt text.
type Builder struct {
	dialect Dialect
	profile termenv.Profile
	sb      strings.Builder
}

// NewBuilder returns an empty builder.
func NewBuilder(d Dialect, p termenv.Profile) *Builder {
	return &Builder{dialect: d, profile: p}
}

func (b *Builder) esc(seq string) *Builder {
	if seq == "" || b.profile == termenv.Ascii {
		return b
	}
	if b.dialect == DialectZsh {
		b.sb.WriteString("%{")
	}
	b.sb.WriteString(termenv.CSI)
	b.sb.WriteString(seq)
	b.sb.WriteString("m")
	if b.dialect == DialectZsh {
		b.sb.WriteString("%}")
	}
	return b
}

// Fg sets the foreground color.
func (b *Builder) Fg(c color.Color) *Builder {
	return b.esc(b.profile.Convert(c.Termenv()).Sequence(false))
}

// Bg sets the background color.
func (b *Builder) Bg(c color.Color) *Builder {
	return b.esc(b.profile.Convert(c.Termenv()).Sequence(true))
}

// EndFg restores the default foreground.
func (b *Builder) EndFg() *Builder { return b.esc("39") }

// EndBg restores the default background.
func (b *Builder) EndBg() *Builder { return b.esc("49") }

// Reset clears every attribute.
func (b *Builder) Reset() *Builder { return b.esc(termenv.ResetSeq) }

// Str appends literal text.
func (b *Builder) Str(s string) *Builder {
	if b.dialect == DialectZsh {
		s = strings.ReplaceAll(s, "%", "%%")
	}
	b.sb.WriteString(s)
	return b
}

// Repeat appends s n times; n <= 0 appends nothing.
func (b *Builder) Repeat(s string, n int) *Builder {
	if n > 0 {
		b.Str(strings.Repeat(s, n))
	}
	return b
}

// Append copies another builder's output.
func (b *Builder) Append(o *Builder) *Builder {
	b.sb.WriteString(o.sb.String())
	return b
}

// Newline appends a line break.
func (b *Builder) Newline() *Builder {
	b.sb.WriteByte('\n')
	return b
}

// Len reports whether anything was written.
func (b *Builder) Len() int { return b.sb.Len() }

func (b *Builder) String() string { return b.sb.String() }

// Width returns the number of terminal columns b's output occupies.
func (b *Builder) Width() int { return VisibleWidth(b.String(), b.dialect) }

// VisibleWidth counts the terminal columns of s, excluding escape sequences
// and, in the zsh dialect, the %{ %} markers and %% escapes.
func VisibleWidth(s string, d Dialect) int {
	if d == DialectZsh {
		s = strings.NewReplacer("%{", "", "%}", "", "%%", "%").Replace(s)
	}
	return ansi.StringWidth(s)
}
