// Package theme defines the prompt theme document: the rows of the prompt,
// their sources, colors, separators and connectors.
package theme

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"zsh-infinite/internal/color"
	"zsh-infinite/internal/segment"
	"zsh-infinite/internal/source"
)

// AccentWhich selects what the accent colors.
type AccentWhich string

const (
	// AccentForeground colors the separators; content sits on a flat bg.
	AccentForeground AccentWhich = "foreground"
	// AccentBackground colors each content's background.
	AccentBackground AccentWhich = "background"
)

func (a *AccentWhich) UnmarshalText(text []byte) error {
	switch s := AccentWhich(text); s {
	case AccentForeground, AccentBackground:
		*a = s
	case "":
		*a = AccentForeground
	default:
		return fmt.Errorf("unknown accent_which %q (want foreground or background)", text)
	}
	return nil
}

// ColorScheme is the palette of one row.
type ColorScheme struct {
	BG     color.Color  `yaml:"bg"`
	FG     color.Color  `yaml:"fg"`
	PC     color.Color  `yaml:"pc"` // primary: frame corners, transient glyph
	SC     color.Color  `yaml:"sc"` // secondary: connector fill
	Accent color.Accent `yaml:"accent"`
}

// DefaultColorScheme is used for rows and the transient prompt that do not
// configure colors.
func DefaultColorScheme() ColorScheme {
	return ColorScheme{
		BG:     color.Black,
		FG:     color.White,
		PC:     color.Cyan,
		SC:     color.LightBlack,
		Accent: color.Single(color.LightBlack),
	}
}

// Separators configures one half of a row.
type Separators struct {
	Start          Separation `yaml:"start"`
	Mid            Separation `yaml:"mid"`
	End            Separation `yaml:"end"`
	EdgeCap        bool       `yaml:"edge_cap"`
	BoldSeparation bool       `yaml:"bold_separation"`
}

// DefaultSeparators returns Sharp separators with plain cuts.
func DefaultSeparators() Separators {
	return Separators{Start: SepSharp, Mid: SepSharp, End: SepSharp}
}

// Line is one row of the prompt.
type Line struct {
	Left            []source.Spec `yaml:"left,omitempty"`
	Right           []source.Spec `yaml:"right,omitempty"`
	Color           ColorScheme   `yaml:"color"`
	Connection      Connection    `yaml:"connection"`
	LeftSeparators  Separators    `yaml:"left_separators"`
	RightSeparators Separators    `yaml:"right_separators"`
	AccentWhich     AccentWhich   `yaml:"accent_which"`
}

// DefaultLine returns a row with default colors and separators and no
// sources.
func DefaultLine() Line {
	return Line{
		Color:           DefaultColorScheme(),
		Connection:      ConnNone,
		LeftSeparators:  DefaultSeparators(),
		RightSeparators: DefaultSeparators(),
		AccentWhich:     AccentForeground,
	}
}

// UnmarshalYAML fills in defaults for keys the document omits.
func (l *Line) UnmarshalYAML(value *yaml.Node) error {
	type plain Line
	p := plain(DefaultLine())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*l = Line(p)
	return nil
}

// Theme is the whole prompt.
type Theme struct {
	Lines     []Line      `yaml:"lines"`
	Transient ColorScheme `yaml:"transient_color"`
}

// UnmarshalYAML fills in the default transient colors when omitted.
func (t *Theme) UnmarshalYAML(value *yaml.Node) error {
	type plain Theme
	p := plain{Transient: DefaultColorScheme()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*t = Theme(p)
	return nil
}

// Default returns the theme written on first use: user and host on the
// left, working directory, VCS branch and exit status on the right.
func Default() *Theme {
	line := DefaultLine()
	line.Left = []source.Spec{
		{BuiltIn: &source.CommandSpec{Command: segment.KindUser}},
		{BuiltIn: &source.CommandSpec{Command: segment.KindHost}},
	}
	line.Right = []source.Spec{
		{BuiltIn: &source.CommandSpec{Command: segment.KindCwd}},
		{Daemon: &source.CommandSpec{Command: segment.KindGitBranch}},
		{BuiltIn: &source.CommandSpec{Command: segment.KindExitCode}},
	}
	return &Theme{
		Lines:     []Line{line},
		Transient: DefaultColorScheme(),
	}
}

// Validate checks the parts of a theme that decoding cannot.
func (t *Theme) Validate() error {
	if len(t.Lines) == 0 {
		return fmt.Errorf("theme has no lines")
	}
	for i, l := range t.Lines {
		if _, err := source.FromSpecs(l.Left, source.Deps{}); err != nil {
			return fmt.Errorf("line %d left: %w", i, err)
		}
		if _, err := source.FromSpecs(l.Right, source.Deps{}); err != nil {
			return fmt.Errorf("line %d right: %w", i, err)
		}
	}
	return nil
}
