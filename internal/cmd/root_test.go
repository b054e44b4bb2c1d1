package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zsh-infinite/internal/config"
	"zsh-infinite/internal/socketdir"
	"zsh-infinite/internal/termstyle"
)

// isolate points the config and runtime directories at fresh temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	t.Setenv(config.EnvConfigDir, configDir)
	t.Setenv("XDG_RUNTIME_DIR", dir)
	for _, k := range []string{config.EnvTimeout, config.EnvLogLevel, config.EnvDialect, config.EnvColor} {
		t.Setenv(k, "")
	}
	config.ResetResolveCache()
	socketdir.ResetCache()
	t.Cleanup(func() {
		config.ResetResolveCache()
		socketdir.ResetCache()
	})
	return configDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestPromptCmd_Transient(t *testing.T) {
	isolate(t)
	tests := []struct {
		status string
		want   string
	}{
		{"0", "\x1b[36m❯ \x1b[39m\x1b[0m"},
		{"1", "\x1b[31m❯ \x1b[39m\x1b[0m"},
	}
	for _, tt := range tests {
		got, err := execute(t, "prompt", "transient", "--status", tt.status, "--dialect", "ansi", "--color", "16")
		if err != nil {
			t.Fatalf("prompt transient: %v", err)
		}
		if got != tt.want {
			t.Errorf("status %s: got %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestPromptCmd_ZshDialectByDefault(t *testing.T) {
	isolate(t)
	got, err := execute(t, "prompt", "transient", "--color", "16")
	if err != nil {
		t.Fatal(err)
	}
	if got != "%{\x1b[36m%}❯ %{\x1b[39m%}%{\x1b[0m%}" {
		t.Errorf("got %q", got)
	}
}

func TestPromptCmd_HookWritesDefaultTheme(t *testing.T) {
	configDir := isolate(t)
	got, err := execute(t, "prompt", "hook")
	if err != nil {
		t.Fatal(err)
	}
	if got != "\n" {
		t.Errorf("hook = %q, want one newline for the default theme", got)
	}
	if _, err := os.Stat(filepath.Join(configDir, "theme.yaml")); err != nil {
		t.Errorf("default theme not written: %v", err)
	}
}

func TestPromptCmd_LeftFillsWidth(t *testing.T) {
	isolate(t)
	got, err := execute(t, "prompt", "left", "--width", "100", "--dir", "/", "--dialect", "ansi", "--color", "none")
	if err != nil {
		t.Fatal(err)
	}
	rows := strings.Split(got, "\n")
	if len(rows) != 2 {
		t.Fatalf("got %d rows: %q", len(rows), got)
	}
	if w := termstyle.VisibleWidth(rows[0], termstyle.DialectANSI); w != 100 {
		t.Errorf("row width = %d, want 100: %q", w, rows[0])
	}
	if !strings.Contains(rows[0], " / ") {
		t.Errorf("cwd segment missing: %q", rows[0])
	}
}

func TestPromptCmd_Errors(t *testing.T) {
	isolate(t)
	tests := [][]string{
		{"prompt", "middle"},
		{"prompt", "left", "--dialect", "fish"},
		{"prompt", "left", "--color", "cmyk"},
		{"prompt"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestPromptCmd_BrokenTheme(t *testing.T) {
	configDir := isolate(t)
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "theme.yaml"), []byte("lines: []\n"), 0o644)
	if _, err := execute(t, "prompt", "left"); err == nil {
		t.Error("expected error for an invalid theme")
	}
}

func TestSegmentCmd(t *testing.T) {
	isolate(t)
	got, err := execute(t, "segment", "exit_code", "--status", "2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "✘ 2\n" {
		t.Errorf("got %q", got)
	}

	// No daemon: the daemon path collapses to an empty line.
	got, err = execute(t, "segment", "cwd", "--daemon")
	if err != nil {
		t.Fatal(err)
	}
	if got != "\n" {
		t.Errorf("daemon path without daemon = %q", got)
	}

	if _, err := execute(t, "segment", "weather"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestThemeCmds(t *testing.T) {
	configDir := isolate(t)

	got, err := execute(t, "theme", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(got) != filepath.Join(configDir, "theme.yaml") {
		t.Errorf("theme path = %q", got)
	}

	if _, err := execute(t, "theme", "reset"); err != nil {
		t.Fatalf("theme reset: %v", err)
	}
	got, err = execute(t, "theme", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"lines:", "transient_color:", "git_branch"} {
		if !strings.Contains(got, want) {
			t.Errorf("theme show missing %q:\n%s", want, got)
		}
	}

	got, err = execute(t, "theme", "preview", "--width", "60")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"line 0", "transient", "accent", "❯"} {
		if !strings.Contains(got, want) {
			t.Errorf("theme preview missing %q:\n%s", want, got)
		}
	}
}

func TestDaemonCmds_NoDaemon(t *testing.T) {
	isolate(t)

	got, err := execute(t, "daemon", "status")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "not running") {
		t.Errorf("status = %q", got)
	}

	got, err = execute(t, "daemon", "stop")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(got) != "No running daemon." {
		t.Errorf("stop = %q", got)
	}
}

func TestRootCmd_HidesInternalDaemon(t *testing.T) {
	root := NewRootCmd()
	for _, c := range root.Commands() {
		if c.Name() == "_daemon" && !c.Hidden {
			t.Error("_daemon should be hidden")
		}
	}
}
