package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"zsh-infinite/internal/termstyle"
)

// clearEnv blanks every settings variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfigDir, EnvTimeout, EnvLogLevel, EnvDialect, EnvColor} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestResolveDir_EnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	ResetResolveCache()
	t.Cleanup(ResetResolveCache)

	got, err := ResolveDir()
	if err != nil {
		t.Fatalf("ResolveDir: %v", err)
	}
	if got != dir {
		t.Errorf("ResolveDir = %q, want %q", got, dir)
	}
}

func TestResolveDir_UserConfigDir(t *testing.T) {
	clearEnv(t)
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	t.Setenv("HOME", base)
	ResetResolveCache()
	t.Cleanup(ResetResolveCache)

	got, err := ResolveDir()
	if err != nil {
		t.Fatalf("ResolveDir: %v", err)
	}
	if filepath.Base(got) != "zsh-infinite" {
		t.Errorf("ResolveDir = %q, want a zsh-infinite directory", got)
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	s, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if s.ConfigDir != dir {
		t.Errorf("ConfigDir = %q", s.ConfigDir)
	}
	if s.ThemePath != filepath.Join(dir, "theme.yaml") {
		t.Errorf("ThemePath = %q", s.ThemePath)
	}
	if s.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s, want %s", s.Timeout, DefaultTimeout)
	}
	if s.LogLevel != zerolog.WarnLevel {
		t.Errorf("LogLevel = %s, want warn", s.LogLevel)
	}
	if s.Dialect != termstyle.DialectZsh {
		t.Errorf("Dialect = %q, want zsh", s.Dialect)
	}
}

func TestLoadFrom_Env(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		timeout time.Duration
		level   zerolog.Level
		dialect termstyle.Dialect
	}{
		{
			name:    "milliseconds",
			env:     map[string]string{EnvTimeout: "250"},
			timeout: 250 * time.Millisecond,
			level:   zerolog.WarnLevel,
			dialect: termstyle.DialectZsh,
		},
		{
			name:    "duration",
			env:     map[string]string{EnvTimeout: "1.5s", EnvLogLevel: "DEBUG"},
			timeout: 1500 * time.Millisecond,
			level:   zerolog.DebugLevel,
			dialect: termstyle.DialectZsh,
		},
		{
			name:    "ansi dialect",
			env:     map[string]string{EnvDialect: "ansi", EnvColor: "256"},
			timeout: DefaultTimeout,
			level:   zerolog.WarnLevel,
			dialect: termstyle.DialectANSI,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			s, err := LoadFrom(t.TempDir())
			if err != nil {
				t.Fatalf("LoadFrom: %v", err)
			}
			if s.Timeout != tt.timeout || s.LogLevel != tt.level || s.Dialect != tt.dialect {
				t.Errorf("got timeout=%s level=%s dialect=%s", s.Timeout, s.LogLevel, s.Dialect)
			}
		})
	}
}

func TestLoadFrom_InvalidEnv(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvTimeout, "soon"},
		{EnvTimeout, "0"},
		{EnvTimeout, "-5ms"},
		{EnvLogLevel, "loud"},
		{EnvDialect, "fish"},
		{EnvColor, "cmyk"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := LoadFrom(t.TempDir()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFrom_EnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := EnvTimeout + "=900\n" + EnvDialect + "=ansi\n"
	if err := os.WriteFile(filepath.Join(dir, EnvFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	// The real environment wins over the file.
	t.Setenv(EnvDialect, "zsh")
	t.Cleanup(func() { os.Unsetenv(EnvTimeout) })

	s, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if s.Timeout != 900*time.Millisecond {
		t.Errorf("Timeout = %s, want 900ms from env file", s.Timeout)
	}
	if s.Dialect != termstyle.DialectZsh {
		t.Errorf("Dialect = %q, env var should win over file", s.Dialect)
	}
}

func TestNewLogger_JSONWhenNotTTY(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Settings{LogLevel: zerolog.InfoLevel}, &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("k", "v").Msg("shown")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "shown" || entry["k"] != "v" || entry["level"] != "info" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("missing time field")
	}
}
