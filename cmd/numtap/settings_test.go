package main

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// resetFlags restores the global flag variables after a test.
func resetFlags(t *testing.T) {
	t.Helper()
	seed, db, cfg, audio, level := flagSeed, flagDBPath, flagConfig, flagAudio, flagLogLevel
	t.Cleanup(func() {
		flagSeed, flagDBPath, flagConfig, flagAudio, flagLogLevel = seed, db, cfg, audio, level
	})
}

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&flagDBPath, "db", defaultDBPath, "")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "")
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return cmd
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	for _, k := range []string{"NUMTAP_DB", "NUMTAP_AUDIO", "NUMTAP_LOG_LEVEL", "NUMTAP_SSH_ADDR", "NUMTAP_GRID_COLUMNS"} {
		t.Setenv(k, "")
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	isolate(t)
	resetFlags(t)
	flagConfig, flagAudio, flagSeed = "", "", 0

	s, err := loadSettings(newTestCmd(t))
	if err != nil {
		t.Fatalf("loadSettings() failed: %v", err)
	}
	if s.dbPath != defaultDBPath {
		t.Errorf("dbPath = %q", s.dbPath)
	}
	if s.logLevel != log.InfoLevel {
		t.Errorf("logLevel = %v", s.logLevel)
	}
	if s.game.Audio.Backend != "bell" {
		t.Errorf("backend = %q", s.game.Audio.Backend)
	}
	if s.runtime.TickRate <= 0 {
		t.Errorf("TickRate = %d", s.runtime.TickRate)
	}
}

func TestLoadSettingsPrecedence(t *testing.T) {
	isolate(t)
	resetFlags(t)
	flagConfig, flagAudio = "", ""
	t.Setenv("NUMTAP_DB", "/env/times.db")
	t.Setenv("NUMTAP_LOG_LEVEL", "debug")
	t.Setenv("NUMTAP_AUDIO", "log")

	// Environment beats defaults
	s, err := loadSettings(newTestCmd(t))
	if err != nil {
		t.Fatalf("loadSettings() failed: %v", err)
	}
	if s.dbPath != "/env/times.db" {
		t.Errorf("dbPath = %q, want env value", s.dbPath)
	}
	if s.logLevel != log.DebugLevel {
		t.Errorf("logLevel = %v, want debug", s.logLevel)
	}
	if s.game.Audio.Backend != "log" {
		t.Errorf("backend = %q, want log", s.game.Audio.Backend)
	}

	// Explicit flags beat the environment
	flagAudio = "silent"
	s, err = loadSettings(newTestCmd(t, "--db", "/flag/times.db", "--log-level", "warn"))
	if err != nil {
		t.Fatalf("loadSettings() failed: %v", err)
	}
	if s.dbPath != "/flag/times.db" {
		t.Errorf("dbPath = %q, want flag value", s.dbPath)
	}
	if s.logLevel != log.WarnLevel {
		t.Errorf("logLevel = %v, want warn", s.logLevel)
	}
	if s.game.Audio.Backend != "silent" {
		t.Errorf("backend = %q, want silent", s.game.Audio.Backend)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	isolate(t)
	resetFlags(t)
	flagConfig = ""

	flagAudio = "trumpet"
	if _, err := loadSettings(newTestCmd(t)); err == nil {
		t.Error("unknown backend should fail")
	}

	flagAudio = ""
	if _, err := loadSettings(newTestCmd(t, "--log-level", "loud")); err == nil {
		t.Error("bad log level should fail")
	}

	t.Setenv("NUMTAP_GRID_COLUMNS", "12")
	if _, err := loadSettings(newTestCmd(t)); err == nil {
		t.Error("invalid column count should fail validation")
	}
}

func TestPort(t *testing.T) {
	tests := map[string]string{
		":23234":         "23234",
		"localhost:2222": "2222",
		"nohost":         "nohost",
	}
	for addr, want := range tests {
		if got := port(addr); got != want {
			t.Errorf("port(%q) = %q, want %q", addr, got, want)
		}
	}
}
