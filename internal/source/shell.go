package source

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/joho/godotenv"

	"zsh-infinite/internal/color"
	"zsh-infinite/internal/segment"
)

// ShellTimeout bounds one shell source. Exposed as a variable so tests can
// override it.
var ShellTimeout = 2 * time.Second

// shellWaitDelay caps how long Wait keeps reading stdout after a timeout.
const shellWaitDelay = 100 * time.Millisecond

// Shell runs an external command and shows its trimmed stdout.
type Shell struct {
	Cmd  string
	Args []string
	// Envs are extra variables layered over the inherited environment, in
	// order; later maps win.
	Envs []map[string]string
	// EnvFile is an optional dotenv file read before Envs.
	EnvFile string
	Color   *color.Color
}

// Fetch never fails: spawn errors, non-zero exits, timeouts and blank output
// all yield no segment.
func (s Shell) Fetch(ctx context.Context, env Env) []segment.Segment {
	argv, err := s.argv()
	if err != nil || len(argv) == 0 {
		return nil
	}

	extra := s.extraEnv()
	if _, ok := extra["LAST_STATUS"]; !ok {
		extra["LAST_STATUS"] = strconv.Itoa(env.Status)
	}
	for i := 1; i < len(argv); i++ {
		argv[i] = os.Expand(argv[i], func(key string) string {
			if v, ok := extra[key]; ok {
				return v
			}
			if v, ok := os.LookupEnv(key); ok {
				return v
			}
			return unexpanded(key)
		})
	}

	ctx, cancel := context.WithTimeout(ctx, ShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = env.Dir
	cmd.Env = os.Environ()
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cmd.Env = append(cmd.Env, k+"="+extra[k])
	}
	// Kill the whole group so forked children cannot hold stdout open past
	// the timeout.
	cmd.SysProcAttr = newSysProcAttr()
	cmd.Cancel = func() error { return killGroup(cmd.Process) }
	cmd.WaitDelay = shellWaitDelay

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return nil
	}
	return []segment.Segment{{Text: text, Color: s.Color}}
}

// unexpanded rebuilds a reference the environment does not define so the
// command's own shell can still expand it, e.g. "${PWD/#$HOME/~}".
func unexpanded(key string) string {
	if isName(key) {
		return "$" + key
	}
	return "${" + key + "}"
}

func isName(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for _, r := range s {
		if r != '_' && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// argv splits Cmd with shell quoting rules when it carries its own
// arguments and no Args are configured.
func (s Shell) argv() ([]string, error) {
	name := strings.TrimSpace(s.Cmd)
	if name == "" {
		return nil, nil
	}
	if len(s.Args) == 0 && strings.ContainsAny(name, " \t") {
		return shlex.Split(name)
	}
	return append([]string{name}, s.Args...), nil
}

func (s Shell) extraEnv() map[string]string {
	vars := make(map[string]string)
	if s.EnvFile != "" {
		if fileVars, err := godotenv.Read(os.ExpandEnv(s.EnvFile)); err == nil {
			for k, v := range fileVars {
				vars[k] = v
			}
		}
	}
	for _, m := range s.Envs {
		for k, v := range m {
			vars[k] = v
		}
	}
	return vars
}
