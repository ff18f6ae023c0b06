package game

import "fmt"

// EventKind tags an Event.
type EventKind int

const (
	EventStart EventKind = iota // Start (or restart) button pressed
	EventTap                    // Number button tapped
)

// Event is a discrete UI event delivered to Controller.Handle.
type Event struct {
	Kind  EventKind
	Value int // Button label, only meaningful for EventTap
}

// Start returns the start/restart event.
func Start() Event {
	return Event{Kind: EventStart}
}

// Tap returns a tap event for the button labelled value.
func Tap(value int) Event {
	return Event{Kind: EventTap, Value: value}
}

// String returns a human-readable form of the event.
func (e Event) String() string {
	switch e.Kind {
	case EventStart:
		return "start"
	case EventTap:
		return fmt.Sprintf("tap(%d)", e.Value)
	default:
		return "unknown"
	}
}

// Outcome reports what the controller did with an event.
type Outcome int

const (
	OutcomeIgnored   Outcome = iota // Out-of-order tap, nothing changed
	OutcomeStarted                  // New session began
	OutcomeAccepted                 // Correct tap, session continues
	OutcomeCompleted                // Correct tap that finished the session
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeStarted:
		return "started"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeCompleted:
		return "completed"
	default:
		return "unknown"
	}
}
