// Package version holds the release version of zsh-infinite.
package version

// Version is overridden at build time with -ldflags "-X".
var Version = "0.4.0"
