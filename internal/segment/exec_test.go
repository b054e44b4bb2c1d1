package segment

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"zsh-infinite/internal/color"
)

func TestExec_Cwd(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	ctx := context.Background()

	tests := []struct {
		dir  string
		want string
	}{
		{home, "~"},
		{filepath.Join(home, "src", "app"), "~/src/app"},
		{"/usr/local", "/usr/local"},
		{home + "suffix", home + "suffix"},
	}
	for _, tt := range tests {
		got := Exec(ctx, Command{Kind: KindCwd, Dir: tt.dir})
		if diff := cmp.Diff([]Segment{New(tt.want)}, got); diff != "" {
			t.Errorf("cwd %q mismatch (-want +got):\n%s", tt.dir, diff)
		}
	}
}

func TestExec_ExitCode(t *testing.T) {
	ctx := context.Background()

	ok := Exec(ctx, Command{Kind: KindExitCode, Status: 0})
	if diff := cmp.Diff([]Segment{Colored("✔", color.Green)}, ok); diff != "" {
		t.Errorf("status 0 (-want +got):\n%s", diff)
	}

	failed := Exec(ctx, Command{Kind: KindExitCode, Status: 127})
	if diff := cmp.Diff([]Segment{Colored("✘ 127", color.Red)}, failed); diff != "" {
		t.Errorf("status 127 (-want +got):\n%s", diff)
	}
}

func TestExec_Time(t *testing.T) {
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()
	ctx := context.Background()

	if got := Format(Exec(ctx, Command{Kind: KindTime})); got != "05:06:07" {
		t.Errorf("default time = %q", got)
	}
	if got := Format(Exec(ctx, Command{Kind: KindTime, Format: "2006-01-02"})); got != "2026-03-04" {
		t.Errorf("formatted time = %q", got)
	}
}

func TestExec_OS(t *testing.T) {
	if runtime.GOOS != "linux" {
		if got := Format(Exec(context.Background(), Command{Kind: KindOS})); got != runtime.GOOS {
			t.Errorf("os = %q, want %q", got, runtime.GOOS)
		}
		return
	}

	path := filepath.Join(t.TempDir(), "os-release")
	os.WriteFile(path, []byte("PRETTY_NAME=\"Debian GNU/Linux 12\"\nNAME=\"Debian GNU/Linux\"\nID=debian\n"), 0o644)
	osReleasePath = path
	defer func() { osReleasePath = "/etc/os-release" }()

	if got := Format(Exec(context.Background(), Command{Kind: KindOS})); got != "Debian GNU/Linux" {
		t.Errorf("os = %q", got)
	}

	osReleasePath = filepath.Join(t.TempDir(), "missing")
	if got := Format(Exec(context.Background(), Command{Kind: KindOS})); got != "linux" {
		t.Errorf("os without os-release = %q", got)
	}
}

func TestExec_User(t *testing.T) {
	t.Setenv("USER", "alice")
	if got := Format(Exec(context.Background(), Command{Kind: KindUser})); got != "alice" {
		t.Errorf("user = %q", got)
	}
}

func TestExec_GitOutsideRepo(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, k := range []Kind{KindGitBranch, KindGitStatus} {
		if got := Exec(ctx, Command{Kind: k, Dir: dir}); len(got) != 0 {
			t.Errorf("%s outside repo = %v, want empty", k, got)
		}
	}
}

func TestExec_UnknownKind(t *testing.T) {
	if got := Exec(context.Background(), Command{Kind: "bogus"}); got != nil {
		t.Errorf("unknown kind = %v, want nil", got)
	}
}

func TestExec_Idempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, k := range []Kind{KindCwd, KindExitCode, KindOS, KindUser, KindHost} {
		cmd := Command{Kind: k, Dir: dir, Status: 3}
		if diff := cmp.Diff(Exec(ctx, cmd), Exec(ctx, cmd)); diff != "" {
			t.Errorf("%s not idempotent:\n%s", k, diff)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKind("weather"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q", got)
	}
	if got := Format([]Segment{New("a"), Colored("b", color.Red)}); got != "a b" {
		t.Errorf("Format = %q", got)
	}
}
