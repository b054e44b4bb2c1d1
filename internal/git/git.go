package git

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Status summarizes a working tree for the prompt.
type Status struct {
	Branch     string
	Ahead      int
	Behind     int
	Staged     int
	Modified   int
	Untracked  int
	Conflicted int
}

// Clean reports whether there is nothing to commit and nothing to push or pull.
func (s Status) Clean() bool {
	return s.Ahead == 0 && s.Behind == 0 && s.Staged == 0 && s.Modified == 0 && s.Untracked == 0 && s.Conflicted == 0
}

// IsRepo returns true if the directory is inside a git work tree.
func IsRepo(ctx context.Context, dir string) bool {
	out, err := run(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Branch returns the checked-out branch name, or ":<short-sha>" on a
// detached HEAD.
func Branch(ctx context.Context, dir string) (string, error) {
	if name, err := run(ctx, dir, "symbolic-ref", "--short", "-q", "HEAD"); err == nil && name != "" {
		return name, nil
	}
	sha, err := run(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return ":" + sha, nil
}

// WorkingTree runs git status in dir and parses the result.
func WorkingTree(ctx context.Context, dir string) (Status, error) {
	out, err := run(ctx, dir, "status", "--porcelain=v1", "--branch")
	if err != nil {
		return Status{}, err
	}
	return ParseStatus(out), nil
}

// ParseStatus parses `git status --porcelain=v1 --branch` output.
func ParseStatus(out string) Status {
	var st Status
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "## ") {
			parseBranchHeader(line[3:], &st)
			continue
		}
		if len(line) < 2 {
			continue
		}
		x, y := line[0], line[1]
		switch {
		case x == '?' && y == '?':
			st.Untracked++
		case isConflict(x, y):
			st.Conflicted++
		default:
			if x != ' ' {
				st.Staged++
			}
			if y != ' ' {
				st.Modified++
			}
		}
	}
	return st
}

// parseBranchHeader handles "main...origin/main [ahead 1, behind 2]",
// "No commits yet on main" and "HEAD (no branch)".
func parseBranchHeader(h string, st *Status) {
	info := ""
	if i := strings.Index(h, " ["); i >= 0 && strings.HasSuffix(h, "]") {
		info = h[i+2 : len(h)-1]
		h = h[:i]
	}
	h = strings.TrimPrefix(h, "No commits yet on ")
	h = strings.TrimPrefix(h, "Initial commit on ")
	if i := strings.Index(h, "..."); i >= 0 {
		h = h[:i]
	}
	st.Branch = h

	for _, part := range strings.Split(info, ", ") {
		fields := strings.Fields(part)
		if len(fields) != 2 {
			continue
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		switch fields[0] {
		case "ahead":
			st.Ahead = n
		case "behind":
			st.Behind = n
		}
	}
}

func isConflict(x, y byte) bool {
	if x == 'U' || y == 'U' {
		return true
	}
	return (x == 'A' && y == 'A') || (x == 'D' && y == 'D')
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(output)), nil
}
