package core

// CueHandle identifies a sound cue loaded into an audio engine.
// The zero value means "no cue" and is never returned for a loaded cue.
type CueHandle int

// NoCue is the handle used when a value has no cue mapped.
const NoCue CueHandle = 0

// Valid reports whether the handle refers to a loaded cue.
func (h CueHandle) Valid() bool {
	return h > NoCue
}
