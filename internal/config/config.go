// Package config provides YAML-based game configuration loading with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/numtap/internal/game"
)

// Config contains all configuration for numtap.
type Config struct {
	Grid   GridConfig   `yaml:"grid"`
	Labels LabelsConfig `yaml:"labels"`
	Cues   CuesConfig   `yaml:"cues"`
	Audio  AudioConfig  `yaml:"audio"`
}

// GridConfig defines the button grid layout.
type GridConfig struct {
	Columns      int `yaml:"columns"`       // Buttons per row
	ButtonWidth  int `yaml:"button_width"`  // Cells, including border
	ButtonHeight int `yaml:"button_height"` // Rows, including border
}

// LabelsConfig holds the texts shown on the status line and start control.
type LabelsConfig struct {
	Ready   string `yaml:"ready"`
	Start   string `yaml:"start"`
	Restart string `yaml:"restart"`
	Elapsed string `yaml:"elapsed"` // fmt format receiving seconds as float64
}

// CuesConfig maps game moments to cue IDs.
type CuesConfig struct {
	Ready string         `yaml:"ready"`
	Notes map[int]string `yaml:"notes"` // Button label -> cue ID
}

// AudioConfig selects the audio backend.
type AudioConfig struct {
	Backend   string `yaml:"backend"`
	QueueSize int    `yaml:"queue_size"`
}

// GameLabels converts the label config for the game controller.
// Empty fields fall back to the built-in labels.
func (c Config) GameLabels() game.Labels {
	def := game.DefaultLabels()
	l := game.Labels{
		Ready:   c.Labels.Ready,
		Start:   c.Labels.Start,
		Restart: c.Labels.Restart,
		Elapsed: c.Labels.Elapsed,
	}
	if l.Ready == "" {
		l.Ready = def.Ready
	}
	if l.Start == "" {
		l.Start = def.Start
	}
	if l.Restart == "" {
		l.Restart = def.Restart
	}
	if l.Elapsed == "" {
		l.Elapsed = def.Elapsed
	}
	return l
}

// Validate reports every problem with the config at once.
func (c Config) Validate() error {
	var errs []error

	if c.Grid.Columns < 1 || c.Grid.Columns > game.Count {
		errs = append(errs, fmt.Errorf("grid.columns must be between 1 and %d, got %d", game.Count, c.Grid.Columns))
	}
	if c.Grid.ButtonWidth < 3 {
		errs = append(errs, fmt.Errorf("grid.button_width must be at least 3, got %d", c.Grid.ButtonWidth))
	}
	if c.Grid.ButtonHeight < 1 {
		errs = append(errs, fmt.Errorf("grid.button_height must be at least 1, got %d", c.Grid.ButtonHeight))
	}
	if c.Labels.Elapsed != "" && strings.Count(c.Labels.Elapsed, "%")-2*strings.Count(c.Labels.Elapsed, "%%") != 1 {
		errs = append(errs, fmt.Errorf("labels.elapsed must contain exactly one verb, got %q", c.Labels.Elapsed))
	}
	for value := range c.Cues.Notes {
		if value < 1 || value > game.Count {
			errs = append(errs, fmt.Errorf("cues.notes has key %d outside 1..%d", value, game.Count))
		}
	}
	if c.Audio.Backend == "" {
		errs = append(errs, errors.New("audio.backend must not be empty"))
	}
	if c.Audio.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("audio.queue_size must not be negative, got %d", c.Audio.QueueSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
