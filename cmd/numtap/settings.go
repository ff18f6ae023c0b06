package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/numtap/internal/config"
	"github.com/vovakirdan/numtap/internal/core"
	"github.com/vovakirdan/numtap/internal/registry"
)

const defaultDBPath = "~/.numtap/times.db"

// settings is everything a command needs after flags, environment and
// config file have been merged. Flags win over the environment, which wins
// over the file.
type settings struct {
	game     config.Config
	runtime  core.RuntimeConfig
	dbPath   string
	logLevel log.Level
	sshAddr  string
}

// loadSettings merges flags, NUMTAP_* variables and numtap.yaml.
func loadSettings(cmd *cobra.Command) (settings, error) {
	env, err := config.ParseEnv()
	if err != nil {
		return settings{}, err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return settings{}, err
	}
	env.Apply(&cfg)
	if flagAudio != "" {
		cfg.Audio.Backend = flagAudio
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, err
	}
	if !registry.Exists(cfg.Audio.Backend) {
		return settings{}, fmt.Errorf("unknown audio backend %q (see 'numtap backends')", cfg.Audio.Backend)
	}

	s := settings{
		game:    cfg,
		runtime: core.DefaultConfig(),
		dbPath:  pick(cmd, "db", flagDBPath, env.DBPath),
	}
	s.runtime.Seed = flagSeed

	level := pick(cmd, "log-level", flagLogLevel, env.LogLevel)
	s.logLevel, err = log.ParseLevel(level)
	if err != nil {
		return settings{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	s.sshAddr = env.SSHAddr
	return s, nil
}

// pick returns the flag value when it was set explicitly, else the
// environment value when present, else the flag default.
func pick(cmd *cobra.Command, name, flagValue, envValue string) string {
	if cmd.Flags().Changed(name) || envValue == "" {
		return flagValue
	}
	return envValue
}

// newLogger builds the program logger.
func newLogger(w io.Writer, level log.Level, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// openLogFile opens ~/.numtap/numtap.log for appending. The TUI owns the
// terminal, so logs go there while a game is running.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".numtap")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	return os.OpenFile(filepath.Join(dir, "numtap.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

// fail prints an error and exits, the way every command reports fatal errors.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
