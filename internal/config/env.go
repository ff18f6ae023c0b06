package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds overrides read from environment variables. Empty values leave
// the flag or file setting alone.
type Env struct {
	DBPath   string `env:"NUMTAP_DB"`
	Audio    string `env:"NUMTAP_AUDIO"`
	LogLevel string `env:"NUMTAP_LOG_LEVEL"`
	SSHAddr  string `env:"NUMTAP_SSH_ADDR"`
	Columns  int    `env:"NUMTAP_GRID_COLUMNS"`
}

// ParseEnv loads overrides from the environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply copies the file-level overrides into cfg.
func (e Env) Apply(cfg *Config) {
	if e.Audio != "" {
		cfg.Audio.Backend = e.Audio
	}
	if e.Columns > 0 {
		cfg.Grid.Columns = e.Columns
	}
}
