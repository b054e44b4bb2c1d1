// Package config resolves the zsh-infinite configuration directory and the
// process settings read from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"zsh-infinite/internal/termstyle"
)

const (
	// EnvFile is the optional settings file inside the config directory.
	EnvFile = "infinite.env"

	EnvConfigDir = "ZSH_INFINITE_CONFIG_DIR"
	EnvTimeout   = "ZSH_INFINITE_TIMEOUT"
	EnvLogLevel  = "ZSH_INFINITE_LOG_LEVEL"
	EnvDialect   = "ZSH_INFINITE_DIALECT"
	EnvColor     = "ZSH_INFINITE_COLOR"

	// DefaultTimeout bounds one daemon round trip.
	DefaultTimeout = 500 * time.Millisecond
)

// Settings are the process-wide knobs. Everything else lives in the theme.
type Settings struct {
	ConfigDir    string
	ThemePath    string
	Timeout      time.Duration
	LogLevel     zerolog.Level
	Dialect      termstyle.Dialect
	ColorProfile string // passed to termstyle.ParseProfile
}

var (
	resolvedDir string
	resolvedErr error
	resolveOnce sync.Once
)

// ResolveDir finds the config directory.
// Order: ZSH_INFINITE_CONFIG_DIR -> os.UserConfigDir()/zsh-infinite.
// Result is cached for the process lifetime.
func ResolveDir() (string, error) {
	resolveOnce.Do(func() {
		resolvedDir, resolvedErr = resolveDir()
	})
	return resolvedDir, resolvedErr
}

// ResetResolveCache resets the cached ResolveDir result. For testing only.
func ResetResolveCache() {
	resolveOnce = sync.Once{}
	resolvedDir = ""
	resolvedErr = nil
}

func resolveDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("%s: %w", EnvConfigDir, err)
		}
		return abs, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, "zsh-infinite"), nil
}

// Load resolves the config directory, applies its env file and reads the
// settings from the environment.
func Load() (Settings, error) {
	dir, err := ResolveDir()
	if err != nil {
		return Settings{}, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads settings with dir as the config directory.
// A missing env file is not an error. Variables already set in the real
// environment win over the file.
func LoadFrom(dir string) (Settings, error) {
	envPath := filepath.Join(dir, EnvFile)
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return Settings{}, fmt.Errorf("load %s: %w", envPath, err)
	}

	s := Settings{
		ConfigDir:    dir,
		ThemePath:    filepath.Join(dir, "theme.yaml"),
		Timeout:      DefaultTimeout,
		LogLevel:     zerolog.WarnLevel,
		Dialect:      termstyle.DialectZsh,
		ColorProfile: os.Getenv(EnvColor),
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		s.Timeout = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		s.LogLevel = lvl
	}
	if v := os.Getenv(EnvDialect); v != "" {
		d, err := termstyle.ParseDialect(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvDialect, err)
		}
		s.Dialect = d
	}
	if _, err := termstyle.ParseProfile(s.ColorProfile); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", EnvColor, err)
	}
	return s, nil
}

// parseTimeout accepts a Go duration ("300ms") or a bare number of
// milliseconds.
func parseTimeout(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %d", ms)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", v)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}
