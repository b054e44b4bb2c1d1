package source

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"zsh-infinite/internal/color"
	"zsh-infinite/internal/segment"
)

// Spec is the theme-document form of a source: a mapping with exactly one of
// the keys literal, daemon, builtin or shell.
//
//	- literal: {text: "λ", color: Cyan}
//	- daemon: git_branch
//	- builtin: {command: time, format: "15:04"}
//	- shell: {cmd: zsh, args: [-c, whoami], envs: [{LANG: C}]}
//
// An untagged {cmd, args, envs} mapping is read as a shell source.
type Spec struct {
	Literal *LiteralSpec `yaml:"literal,omitempty"`
	Daemon  *CommandSpec `yaml:"daemon,omitempty"`
	BuiltIn *CommandSpec `yaml:"builtin,omitempty"`
	Shell   *ShellSpec   `yaml:"shell,omitempty"`
}

type LiteralSpec struct {
	Text  string       `yaml:"text"`
	Color *color.Color `yaml:"color,omitempty"`
}

// CommandSpec names a segment command. It may be written as a bare kind.
type CommandSpec struct {
	Command segment.Kind `yaml:"command"`
	Format  string       `yaml:"format,omitempty"`
}

type ShellSpec struct {
	Cmd     string              `yaml:"cmd"`
	Args    []string            `yaml:"args,omitempty"`
	Envs    []map[string]string `yaml:"envs,omitempty"`
	EnvFile string              `yaml:"env_file,omitempty"`
	Color   *color.Color        `yaml:"color,omitempty"`
}

func (c *CommandSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		c.Command = segment.Kind(value.Value)
		return nil
	}
	type plain CommandSpec
	return value.Decode((*plain)(c))
}

func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode && hasKey(value, "cmd") {
		var sh ShellSpec
		if err := value.Decode(&sh); err != nil {
			return err
		}
		*s = Spec{Shell: &sh}
		return nil
	}
	type plain Spec
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = Spec(p)
	if n := s.count(); n != 1 {
		return fmt.Errorf("line %d: source needs exactly one of literal, daemon, builtin, shell (got %d)", value.Line, n)
	}
	return nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func (s Spec) count() int {
	n := 0
	if s.Literal != nil {
		n++
	}
	if s.Daemon != nil {
		n++
	}
	if s.BuiltIn != nil {
		n++
	}
	if s.Shell != nil {
		n++
	}
	return n
}

// Deps are the collaborators sources are bound to at build time.
type Deps struct {
	Client Getter
	Exec   segment.Executor
}

// FromSpec builds the Source a Spec describes.
func FromSpec(spec Spec, deps Deps) (Source, error) {
	if spec.count() != 1 {
		return nil, errors.New("source needs exactly one of literal, daemon, builtin, shell")
	}
	switch {
	case spec.Literal != nil:
		return Literal{Text: spec.Literal.Text, Color: spec.Literal.Color}, nil
	case spec.Daemon != nil:
		kind, err := segment.ParseKind(string(spec.Daemon.Command))
		if err != nil {
			return nil, fmt.Errorf("daemon source: %w", err)
		}
		return Daemon{Client: deps.Client, Kind: kind, Format: spec.Daemon.Format}, nil
	case spec.BuiltIn != nil:
		kind, err := segment.ParseKind(string(spec.BuiltIn.Command))
		if err != nil {
			return nil, fmt.Errorf("builtin source: %w", err)
		}
		return BuiltIn{Exec: deps.Exec, Kind: kind, Format: spec.BuiltIn.Format}, nil
	default:
		sh := spec.Shell
		if sh.Cmd == "" {
			return nil, errors.New("shell source: cmd is required")
		}
		return Shell{Cmd: sh.Cmd, Args: sh.Args, Envs: sh.Envs, EnvFile: sh.EnvFile, Color: sh.Color}, nil
	}
}

// FromSpecs builds every spec in order.
func FromSpecs(specs []Spec, deps Deps) ([]Source, error) {
	out := make([]Source, 0, len(specs))
	for i, spec := range specs {
		src, err := FromSpec(spec, deps)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		out = append(out, src)
	}
	return out, nil
}
