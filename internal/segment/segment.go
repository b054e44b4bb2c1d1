// Package segment defines the prompt segment data model and the commands
// that compute segments, shared by the daemon and the in-process path.
package segment

import (
	"fmt"
	"strings"

	"zsh-infinite/internal/color"
)

// Segment is one atomic unit of rendered prompt text.
type Segment struct {
	Text  string       `json:"text"`
	Color *color.Color `json:"color,omitempty"`
}

// New returns an uncolored segment.
func New(text string) Segment { return Segment{Text: text} }

// Colored returns a segment with a foreground color.
func Colored(text string, c color.Color) Segment { return Segment{Text: text, Color: &c} }

// Kind identifies which computed segment a Command fetches.
type Kind string

const (
	KindCwd       Kind = "cwd"
	KindGitBranch Kind = "git_branch"
	KindGitStatus Kind = "git_status"
	KindExitCode  Kind = "exit_code"
	KindTime      Kind = "time"
	KindOS        Kind = "os"
	KindUser      Kind = "user"
	KindHost      Kind = "host"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{KindCwd, KindGitBranch, KindGitStatus, KindExitCode, KindTime, KindOS, KindUser, KindHost}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown command %q (want one of %s)", s, strings.Join(names, ", "))
}

// Command is a request for one computed segment list. Everything the
// computation depends on that belongs to the requesting shell travels in the
// command, so the daemon and the in-process path see identical inputs.
type Command struct {
	Kind   Kind   `json:"kind"`
	Dir    string `json:"dir,omitempty"`    // shell working directory
	Status int    `json:"status,omitempty"` // last command exit status
	Format string `json:"format,omitempty"` // kind-specific format, e.g. a time layout
}

func (c Command) String() string {
	if c.Dir == "" {
		return string(c.Kind)
	}
	return fmt.Sprintf("%s@%s", c.Kind, c.Dir)
}

// Format joins segment texts with a single space.
func Format(segs []Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}
