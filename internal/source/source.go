// Package source implements the content sources a prompt line is built
// from: literal text, daemon-backed commands, in-process built-ins and
// external shell commands.
package source

import (
	"context"

	"zsh-infinite/internal/color"
	"zsh-infinite/internal/segment"
)

// Env carries the requesting shell's state into a fetch.
type Env struct {
	Dir    string // shell working directory
	Status int    // exit status of the last command
}

// Source produces the segments for one configured prompt entry. An empty
// result means the entry contributes nothing; it is never an error.
type Source interface {
	Fetch(ctx context.Context, env Env) []segment.Segment
}

// Getter is the daemon client capability a Daemon source needs.
type Getter interface {
	Get(ctx context.Context, cmd segment.Command) []segment.Segment
}

// Literal returns one constant segment.
type Literal struct {
	Text  string
	Color *color.Color
}

func (l Literal) Fetch(context.Context, Env) []segment.Segment {
	if l.Text == "" {
		return nil
	}
	return []segment.Segment{{Text: l.Text, Color: l.Color}}
}

// Daemon fetches a command from the running daemon.
type Daemon struct {
	Client Getter
	Kind   segment.Kind
	Format string
}

func (d Daemon) Fetch(ctx context.Context, env Env) []segment.Segment {
	if d.Client == nil {
		return nil
	}
	return d.Client.Get(ctx, command(d.Kind, d.Format, env))
}

// BuiltIn computes the same command in process. For a given Command and
// unchanged environment it returns exactly what Daemon would.
type BuiltIn struct {
	Exec   segment.Executor
	Kind   segment.Kind
	Format string
}

func (b BuiltIn) Fetch(ctx context.Context, env Env) []segment.Segment {
	exec := b.Exec
	if exec == nil {
		exec = segment.Builtin
	}
	return exec.Exec(ctx, command(b.Kind, b.Format, env))
}

func command(kind segment.Kind, format string, env Env) segment.Command {
	return segment.Command{Kind: kind, Dir: env.Dir, Status: env.Status, Format: format}
}
