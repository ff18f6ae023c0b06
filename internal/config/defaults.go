package config

import (
	_ "embed"
)

//go:embed defaults/numtap.yaml
var defaultYAML []byte

// Default returns the built-in configuration, matching defaults/numtap.yaml.
func Default() Config {
	return Config{
		Grid: GridConfig{
			Columns:      4,
			ButtonWidth:  9,
			ButtonHeight: 3,
		},
		Labels: LabelsConfig{
			Ready:   "Tap 1 to 8 in order",
			Start:   "Start",
			Restart: "Restart",
			Elapsed: "Time: %.2f s",
		},
		Cues: CuesConfig{
			Ready: "ganbatte",
			Notes: map[int]string{
				1: "do",
				2: "re",
				3: "mi",
				4: "fa",
				5: "so",
				6: "la",
				7: "si",
				8: "do'",
			},
		},
		Audio: AudioConfig{
			Backend:   "bell",
			QueueSize: 16,
		},
	}
}
