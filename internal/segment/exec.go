package segment

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"zsh-infinite/internal/color"
	"zsh-infinite/internal/git"
)

// Executor computes the segments for a command.
type Executor interface {
	Exec(ctx context.Context, cmd Command) []Segment
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, cmd Command) []Segment

func (f ExecutorFunc) Exec(ctx context.Context, cmd Command) []Segment { return f(ctx, cmd) }

// Builtin is the executor shared by the daemon and the in-process path.
var Builtin Executor = ExecutorFunc(Exec)

// DefaultTimeFormat is the clock layout used when a time command has no format.
const DefaultTimeFormat = "15:04:05"

// Overridable for tests.
var (
	now           = time.Now
	osReleasePath = "/etc/os-release"
)

// Exec computes cmd in process. It never fails: anything that cannot be
// computed yields an empty list.
func Exec(ctx context.Context, cmd Command) []Segment {
	switch cmd.Kind {
	case KindCwd:
		return []Segment{New(abbreviateHome(commandDir(cmd)))}
	case KindGitBranch:
		return gitBranch(ctx, commandDir(cmd))
	case KindGitStatus:
		return gitStatus(ctx, commandDir(cmd))
	case KindExitCode:
		if cmd.Status == 0 {
			return []Segment{Colored("✔", color.Green)}
		}
		return []Segment{Colored(fmt.Sprintf("✘ %d", cmd.Status), color.Red)}
	case KindTime:
		layout := cmd.Format
		if layout == "" {
			layout = DefaultTimeFormat
		}
		return []Segment{New(now().Format(layout))}
	case KindOS:
		return []Segment{New(osName())}
	case KindUser:
		if name := userName(); name != "" {
			return []Segment{New(name)}
		}
	case KindHost:
		if host, err := os.Hostname(); err == nil && host != "" {
			short, _, _ := strings.Cut(host, ".")
			return []Segment{New(short)}
		}
	}
	return nil
}

func commandDir(cmd Command) string {
	if cmd.Dir != "" {
		return cmd.Dir
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}

// abbreviateHome replaces a $HOME prefix with "~".
func abbreviateHome(dir string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" || home == "/" {
		return dir
	}
	if dir == home {
		return "~"
	}
	if rel, ok := strings.CutPrefix(dir, home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rel
	}
	return dir
}

func gitBranch(ctx context.Context, dir string) []Segment {
	if dir == "" || !git.IsRepo(ctx, dir) {
		return nil
	}
	branch, err := git.Branch(ctx, dir)
	if err != nil || branch == "" {
		return nil
	}
	return []Segment{Colored(" "+branch, color.Magenta)}
}

func gitStatus(ctx context.Context, dir string) []Segment {
	if dir == "" || !git.IsRepo(ctx, dir) {
		return nil
	}
	st, err := git.WorkingTree(ctx, dir)
	if err != nil {
		return nil
	}
	if st.Clean() {
		return []Segment{Colored("✔", color.Green)}
	}

	var segs []Segment
	add := func(n int, prefix string, c color.Color) {
		if n > 0 {
			segs = append(segs, Colored(fmt.Sprintf("%s%d", prefix, n), c))
		}
	}
	add(st.Ahead, "⇡", color.Cyan)
	add(st.Behind, "⇣", color.Cyan)
	add(st.Conflicted, "=", color.Red)
	add(st.Staged, "+", color.Green)
	add(st.Modified, "!", color.Yellow)
	add(st.Untracked, "?", color.LightRed)
	return segs
}

func userName() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

// osName returns the distribution name from os-release on Linux and GOOS
// elsewhere.
func osName() string {
	if runtime.GOOS != "linux" {
		return runtime.GOOS
	}
	f, err := os.Open(osReleasePath)
	if err != nil {
		return runtime.GOOS
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if v, ok := strings.CutPrefix(sc.Text(), "NAME="); ok {
			if v = strings.Trim(v, `"'`); v != "" {
				return v
			}
		}
	}
	return runtime.GOOS
}
