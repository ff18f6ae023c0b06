package core

// Color represents a foreground color for a screen cell.
// The platform maps each color to an ANSI 256-color code.
type Color uint8

// Colors used by the button grid.
const (
	ColorDefault Color = iota
	ColorButton        // Button waiting to be tapped
	ColorLabel         // Number inside a button
	ColorHidden        // Outline left behind by a tapped button
	ColorControl       // Start/restart control
	ColorStatus        // Status line
	ColorCue           // Note name flashed on playback
	ColorDone          // Completion time
)
