package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"zsh-infinite/internal/config"
	"zsh-infinite/internal/daemon"
	"zsh-infinite/internal/socketdir"
	"zsh-infinite/internal/theme"
)

// runtimeEnv is what every command needs from the environment.
type runtimeEnv struct {
	settings config.Settings
	log      zerolog.Logger
	paths    socketdir.Paths
}

// loadEnv reads the settings and builds the stderr logger.
func loadEnv() (runtimeEnv, error) {
	s, err := config.Load()
	if err != nil {
		return runtimeEnv{}, err
	}
	return runtimeEnv{
		settings: s,
		log:      config.NewLogger(s, os.Stderr),
		paths:    socketdir.Resolve(),
	}, nil
}

func (e runtimeEnv) client() *daemon.Client {
	c := daemon.NewClient(e.paths.Socket)
	c.Timeout = e.settings.Timeout
	c.Log = e.log
	return c
}

func (e runtimeEnv) manager() *daemon.Manager {
	m := daemon.NewManager(e.log)
	m.Paths = e.paths
	return m
}

// loadTheme reads the theme, writing the default on first use.
func (e runtimeEnv) loadTheme() (*theme.Theme, error) {
	t, created, err := theme.LoadOrCreate(e.settings.ThemePath)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	if created {
		e.log.Info().Str("path", e.settings.ThemePath).Msg("wrote default theme")
	}
	return t, nil
}
