package theme

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// FileName is the theme document's name inside the config directory.
const FileName = "theme.yaml"

const lockTimeout = 2 * time.Second

// Path returns the theme path inside configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, FileName)
}

func lockPath(path string) string {
	return path + ".lock"
}

// acquireLock takes the advisory lock guarding the theme file. Readers take
// it shared, Save takes it exclusive, so nobody reads a half-written theme.
func acquireLock(path string, exclusive bool) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create theme dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	fl := flock.New(lockPath(path))
	var ok bool
	var err error
	if exclusive {
		ok, err = fl.TryLockContext(ctx, 20*time.Millisecond)
	} else {
		ok, err = fl.TryRLockContext(ctx, 20*time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire theme lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire theme lock: timed out after %s", lockTimeout)
	}
	return fl, nil
}

// LoadFrom reads the theme at path.
// If the file does not exist, it returns the default theme with no error.
func LoadFrom(path string) (*Theme, error) {
	data, err := readLocked(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// LoadOrCreate is LoadFrom that also writes the default theme back when the
// file is missing. The write is best effort: created reports whether it
// happened and a failed write is not an error.
func LoadOrCreate(path string) (t *Theme, created bool, err error) {
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		t = Default()
		if err := Save(path, t); err == nil {
			created = true
		}
		return t, created, nil
	}
	t, err = LoadFrom(path)
	return t, false, err
}

func readLocked(path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	fl, err := acquireLock(path, false)
	if err != nil {
		return nil, err
	}
	defer fl.Unlock()
	return os.ReadFile(path)
}

// Parse decodes and validates a theme document.
func Parse(data []byte) (*Theme, error) {
	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}
	return &t, nil
}

// Marshal encodes t as YAML.
func Marshal(t *Theme) ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode theme: %w", err)
	}
	return data, nil
}

// Save writes t to path atomically under the exclusive lock.
func Save(path string, t *Theme) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}

	fl, err := acquireLock(path, true)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".theme-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp theme: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write theme: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod theme: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace theme: %w", err)
	}
	return nil
}
