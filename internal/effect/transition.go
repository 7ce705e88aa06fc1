package effect

import "sync"

// Transition describes how an observed state type changed since the previous
// observation.
type Transition struct {
	Previous        StateType
	Current         StateType
	JustStarted     bool
	JustCompleted   bool
	JustFailed      bool
	JustInterrupted bool
}

// Changed reports whether the state type differs from the last observation.
func (t Transition) Changed() bool {
	return t.Previous != t.Current
}

// Tracker derives Transitions for an observer that only sees snapshots.
type Tracker struct {
	mu   sync.Mutex
	prev StateType
}

// NewTracker starts tracking from initial.
func NewTracker(initial StateType) *Tracker {
	return &Tracker{prev: initial}
}

// Observe records current and reports the transition from the previous value.
func (t *Tracker) Observe(current StateType) Transition {
	t.mu.Lock()
	prev := t.prev
	t.prev = current
	t.mu.Unlock()

	return Transition{
		Previous:        prev,
		Current:         current,
		JustStarted:     prev != StateRunning && current == StateRunning,
		JustCompleted:   prev != StateCompleted && current == StateCompleted,
		JustFailed:      prev != StateFailed && current == StateFailed,
		JustInterrupted: prev != StateInterrupted && current == StateInterrupted,
	}
}
