// Package game implements the number tap reflex game: a shuffled grid of
// buttons labelled 1..Count that must be tapped in ascending order.
//
// The package holds pure game logic. Rendering, sound and timing are reached
// through the Display, Audio and Clock interfaces supplied by the platform.
package game

import (
	"math/rand"
	"time"
)

// Count is the number of buttons on the board.
const Count = 8

// State is the controller's position in the Idle -> InProgress -> Completed
// progression.
type State int

const (
	StateIdle State = iota
	StateInProgress
	StateCompleted
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Session is a single play-through, from start until completion or the next
// start. The order is fixed for the lifetime of the session.
type Session struct {
	id        string
	order     []int
	next      int
	startedAt time.Time
	completed bool
	elapsed   time.Duration
}

// newSession creates a session with a fresh permutation of 1..Count.
func newSession(id string, rng *rand.Rand, now time.Time) *Session {
	return &Session{
		id:        id,
		order:     Shuffle(rng, Count),
		next:      1,
		startedAt: now,
	}
}

// Shuffle returns a uniformly random permutation of 1..n.
func Shuffle(rng *rand.Rand, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i + 1
	}

	// Fisher-Yates, walking down from the last slot
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// accept advances the session if value is the next expected one.
// Returns false (and leaves the session untouched) otherwise.
func (s *Session) accept(value int) bool {
	if s.completed || value != s.next {
		return false
	}
	s.next++
	return true
}

// finish marks the session complete with the measured elapsed time.
func (s *Session) finish(elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	s.completed = true
	s.elapsed = elapsed
}

// done reports whether every button has been tapped.
func (s *Session) done() bool {
	return s.next > Count
}

// Snapshot captures a read-only copy of the session.
type Snapshot struct {
	ID        string
	Order     []int
	Next      int
	StartedAt time.Time
	Completed bool
	Elapsed   time.Duration
	State     State
}

// Snapshot returns a copy of the session that callers may keep.
func (s *Session) Snapshot() Snapshot {
	order := make([]int, len(s.order))
	copy(order, s.order)

	state := StateInProgress
	if s.completed {
		state = StateCompleted
	}

	return Snapshot{
		ID:        s.id,
		Order:     order,
		Next:      s.next,
		StartedAt: s.startedAt,
		Completed: s.completed,
		Elapsed:   s.elapsed,
		State:     state,
	}
}
