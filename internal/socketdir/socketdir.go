package socketdir

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"sync"
)

const (
	// AppName prefixes every runtime file and the /tmp fallback directory.
	AppName = "zsh-infinite"

	SocketFile = AppName + ".sock"
	PIDFile    = AppName + ".pid"
	LogFile    = AppName + ".log"
)

// Paths holds the per-user runtime file locations of the daemon.
type Paths struct {
	Dir    string // base runtime directory
	Socket string // Unix domain socket
	PID    string // decimal PID of the running daemon
	Log    string // daemon stdout/stderr and structured log
}

// Env is the subset of the process environment the resolver reads.
// Tests construct it directly; Resolve fills it from the real process.
type Env struct {
	RuntimeDir string // $XDG_RUNTIME_DIR
	UID        int
	User       string
	RunUserDir string // parent of the per-uid runtime dir, normally /run/user
	TmpDir     string // parent of the fallback dir, normally /tmp
}

var (
	resolved     Paths
	resolvedOnce sync.Once
)

// Resolve returns the daemon paths for the current process.
// The result is cached for the process lifetime.
func Resolve() Paths {
	resolvedOnce.Do(func() {
		resolved = ResolveFrom(ProcessEnv())
	})
	return resolved
}

// ResetCache resets the cached Resolve result. For testing only.
func ResetCache() {
	resolvedOnce = sync.Once{}
	resolved = Paths{}
}

// ProcessEnv reads the resolver inputs from the running process.
func ProcessEnv() Env {
	name := os.Getenv("USER")
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		} else {
			name = "unknown"
		}
	}
	return Env{
		RuntimeDir: os.Getenv("XDG_RUNTIME_DIR"),
		UID:        os.Getuid(),
		User:       name,
		RunUserDir: "/run/user",
		TmpDir:     "/tmp",
	}
}

// ResolveFrom picks the base directory:
// XDG_RUNTIME_DIR -> /run/user/<uid> if it exists -> /tmp/zsh-infinite-<user>.
// The fallback directory is created with owner-only permissions. Creation is
// best effort: a path is always returned.
func ResolveFrom(env Env) Paths {
	return pathsIn(baseDir(env))
}

func baseDir(env Env) string {
	if env.RuntimeDir != "" {
		return env.RuntimeDir
	}

	runUser := filepath.Join(env.RunUserDir, strconv.Itoa(env.UID))
	if info, err := os.Stat(runUser); err == nil && info.IsDir() {
		return runUser
	}

	tmpDir := filepath.Join(env.TmpDir, fmt.Sprintf("%s-%s", AppName, env.User))
	os.MkdirAll(tmpDir, 0o700)
	// MkdirAll leaves an existing directory's mode alone and is subject to umask.
	os.Chmod(tmpDir, 0o700)
	return tmpDir
}

func pathsIn(dir string) Paths {
	return Paths{
		Dir:    dir,
		Socket: filepath.Join(dir, SocketFile),
		PID:    filepath.Join(dir, PIDFile),
		Log:    filepath.Join(dir, LogFile),
	}
}
