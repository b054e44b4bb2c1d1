// Package prompt renders the prompt text for each zsh draw trigger.
package prompt

import (
	"context"
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"zsh-infinite/internal/color"
	"zsh-infinite/internal/segment"
	"zsh-infinite/internal/source"
	"zsh-infinite/internal/termstyle"
	"zsh-infinite/internal/theme"
)

// Trigger names the prompt part zsh asks for.
type Trigger string

const (
	TriggerLeft      Trigger = "left"
	TriggerRight     Trigger = "right"
	TriggerTransient Trigger = "transient"
	TriggerHook      Trigger = "hook"
)

// Triggers lists every trigger.
var Triggers = []Trigger{TriggerLeft, TriggerRight, TriggerTransient, TriggerHook}

// ParseTrigger validates a trigger name.
func ParseTrigger(s string) (Trigger, error) {
	for _, t := range Triggers {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown trigger %q (want left, right, transient or hook)", s)
}

// TransientGlyph replaces the full prompt of lines already submitted.
const TransientGlyph = "❯ "

// ThemeSource yields the theme to render with. *theme.Watcher implements it
// for long-lived processes.
type ThemeSource interface {
	Current() *theme.Theme
}

// Static is a ThemeSource that never changes.
type Static struct{ Theme *theme.Theme }

func (s Static) Current() *theme.Theme { return s.Theme }

var _ ThemeSource = (*theme.Watcher)(nil)

// Options configures an Engine. Zero values fall back to the defaults noted.
type Options struct {
	Themes  ThemeSource       // required
	Client  source.Getter     // daemon sources yield nothing when nil
	Exec    segment.Executor  // segment.Builtin
	Width   func() int        // TerminalWidth
	Dir     string            // os.Getwd
	Status  int               // exit status of the last command
	Dialect termstyle.Dialect // DialectZsh
	Profile termenv.Profile   // zero value is TrueColor
	Log     zerolog.Logger
}

// Engine renders prompt triggers.
type Engine struct {
	opts Options
}

// New returns an engine for opts.
func New(opts Options) *Engine {
	if opts.Exec == nil {
		opts.Exec = segment.Builtin
	}
	if opts.Width == nil {
		opts.Width = TerminalWidth
	}
	if opts.Dialect == "" {
		opts.Dialect = termstyle.DialectZsh
	}
	if opts.Dir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.Dir = wd
		}
	}
	return &Engine{opts: opts}
}

func (e *Engine) builder() *termstyle.Builder {
	return termstyle.NewBuilder(e.opts.Dialect, e.opts.Profile)
}

func (e *Engine) theme() (*theme.Theme, error) {
	if e.opts.Themes == nil {
		return nil, fmt.Errorf("prompt engine has no theme")
	}
	t := e.opts.Themes.Current()
	if t == nil || len(t.Lines) == 0 {
		return nil, fmt.Errorf("theme has no lines")
	}
	return t, nil
}

// Render returns the text for trigger. Source failures never fail a render;
// only an unusable theme does.
func (e *Engine) Render(ctx context.Context, trigger Trigger) (string, error) {
	t, err := e.theme()
	if err != nil {
		return "", err
	}
	switch trigger {
	case TriggerLeft:
		rows, err := e.acquire(ctx, t.Lines)
		if err != nil {
			return "", err
		}
		return e.layout(t.Lines, rows, e.opts.Width()), nil
	case TriggerRight:
		return e.renderRight(t.Lines[len(t.Lines)-1]), nil
	case TriggerTransient:
		return e.renderTransient(t.Transient), nil
	case TriggerHook:
		return e.renderHook(t), nil
	}
	return "", fmt.Errorf("unknown trigger %q", trigger)
}

// acquire fetches every source of every line concurrently. Results keep
// configuration order; sources that yield nothing are dropped.
func (e *Engine) acquire(ctx context.Context, lines []theme.Line) ([]row, error) {
	deps := source.Deps{Client: e.opts.Client, Exec: e.opts.Exec}
	env := source.Env{Dir: e.opts.Dir, Status: e.opts.Status}

	type half struct {
		srcs []source.Source
		out  [][]segment.Segment
	}
	halves := make([][2]half, len(lines))
	for i, l := range lines {
		left, err := source.FromSpecs(l.Left, deps)
		if err != nil {
			return nil, fmt.Errorf("line %d left: %w", i, err)
		}
		right, err := source.FromSpecs(l.Right, deps)
		if err != nil {
			return nil, fmt.Errorf("line %d right: %w", i, err)
		}
		halves[i][0] = half{srcs: left, out: make([][]segment.Segment, len(left))}
		halves[i][1] = half{srcs: right, out: make([][]segment.Segment, len(right))}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range halves {
		for side := range halves[i] {
			h := &halves[i][side]
			for j, src := range h.srcs {
				g.Go(func() error {
					h.out[j] = src.Fetch(gctx, env)
					return nil
				})
			}
		}
	}
	g.Wait()

	rows := make([]row, len(lines))
	for i := range halves {
		rows[i].left = contents(halves[i][0].out)
		rows[i].right = contents(halves[i][1].out)
		e.opts.Log.Debug().Int("line", i).Int("left", len(rows[i].left)).Int("right", len(rows[i].right)).Msg("acquired")
	}
	return rows, nil
}

func contents(results [][]segment.Segment) []content {
	var out []content
	for _, segs := range results {
		var kept content
		for _, s := range segs {
			if s.Text != "" {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			out = append(out, kept)
		}
	}
	return out
}

// renderRight closes the connector of the last row at the right edge.
func (e *Engine) renderRight(l theme.Line) string {
	f := l.Connection.Frame()
	return e.builder().Fg(l.Color.SC).Str(theme.ConnLine.Glyph()).Str(f.BottomRight).EndFg().String()
}

// renderTransient draws the short prompt left behind after a command is
// submitted, red when it failed.
func (e *Engine) renderTransient(scheme theme.ColorScheme) string {
	c := scheme.PC
	if e.opts.Status != 0 {
		c = color.Red
	}
	return e.builder().Fg(c).Str(TransientGlyph).EndFg().Reset().String()
}

// renderHook emits one newline per row so the multi-row prompt has room.
func (e *Engine) renderHook(t *theme.Theme) string {
	b := e.builder()
	for range t.Lines {
		b.Newline()
	}
	return b.String()
}
