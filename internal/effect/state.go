package effect

import (
	"fmt"
	"slices"
)

// StateType identifies one variant of the task lifecycle.
type StateType int

const (
	StateIdle StateType = iota
	StateRunning
	StateCompleted
	StateFailed
	StateInterrupted
	StateDeath
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateRunning:     "running",
	StateCompleted:   "completed",
	StateFailed:      "failed",
	StateInterrupted: "interrupted",
	StateDeath:       "death",
}

// AllStateTypes lists every lifecycle variant in declaration order.
var AllStateTypes = []StateType{
	StateIdle, StateRunning, StateCompleted, StateFailed, StateInterrupted, StateDeath,
}

func (t StateType) String() string {
	if t < 0 || int(t) >= len(stateNames) {
		return fmt.Sprintf("StateType(%d)", int(t))
	}
	return stateNames[t]
}

// IsTerminal reports whether nothing further happens without an explicit
// Run or Reset.
func (t StateType) IsTerminal() bool {
	switch t {
	case StateCompleted, StateFailed, StateInterrupted, StateDeath:
		return true
	default:
		return false
	}
}

// validTransitions is the lifecycle adjacency table. Self-transitions are
// listed explicitly so repeated settlement is accepted.
var validTransitions = map[StateType][]StateType{
	StateIdle:        {StateIdle, StateRunning},
	StateRunning:     {StateRunning, StateCompleted, StateFailed, StateInterrupted, StateDeath, StateIdle},
	StateCompleted:   {StateIdle, StateRunning, StateCompleted},
	StateFailed:      {StateIdle, StateRunning, StateFailed},
	StateInterrupted: {StateIdle, StateRunning, StateInterrupted},
	StateDeath:       {StateIdle, StateRunning, StateDeath},
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to StateType) bool {
	return slices.Contains(validTransitions[from], to)
}

// State is the lifecycle state of a controller producing A.
// Only the field matching Type is meaningful: Result for StateCompleted,
// Err for StateFailed, Cause for StateDeath.
type State[A any] struct {
	Type   StateType
	Result A
	Err    error
	Cause  any
}

func Idle[A any]() State[A] { return State[A]{Type: StateIdle} }

func Running[A any]() State[A] { return State[A]{Type: StateRunning} }

func Completed[A any](result A) State[A] { return State[A]{Type: StateCompleted, Result: result} }

func Failed[A any](err error) State[A] { return State[A]{Type: StateFailed, Err: err} }

func Interrupted[A any]() State[A] { return State[A]{Type: StateInterrupted} }

func Death[A any](cause any) State[A] { return State[A]{Type: StateDeath, Cause: cause} }

// Outcome returns the payload of the state: the result, the error, the defect
// cause, or nil for payload-free variants.
func (s State[A]) Outcome() any {
	switch s.Type {
	case StateCompleted:
		return s.Result
	case StateFailed:
		return s.Err
	case StateDeath:
		return s.Cause
	default:
		return nil
	}
}

func (s State[A]) String() string {
	switch s.Type {
	case StateCompleted:
		return fmt.Sprintf("completed(%v)", s.Result)
	case StateFailed:
		return fmt.Sprintf("failed(%v)", s.Err)
	case StateDeath:
		return fmt.Sprintf("death(%v)", s.Cause)
	default:
		return s.Type.String()
	}
}

// StateCases holds one handler per lifecycle variant.
type StateCases[A, T any] struct {
	Idle        func() T
	Running     func() T
	Completed   func(result A) T
	Failed      func(err error) T
	Interrupted func() T
	Death       func(cause any) T
}

// MatchState dispatches s to the handler for its variant. A missing handler
// for the variant being matched is a programming error and panics.
func MatchState[A, T any](s State[A], cases StateCases[A, T]) T {
	missing := func() T {
		panic(fmt.Sprintf("effect: MatchState has no case for %s", s.Type))
	}
	switch s.Type {
	case StateIdle:
		if cases.Idle == nil {
			return missing()
		}
		return cases.Idle()
	case StateRunning:
		if cases.Running == nil {
			return missing()
		}
		return cases.Running()
	case StateCompleted:
		if cases.Completed == nil {
			return missing()
		}
		return cases.Completed(s.Result)
	case StateFailed:
		if cases.Failed == nil {
			return missing()
		}
		return cases.Failed(s.Err)
	case StateInterrupted:
		if cases.Interrupted == nil {
			return missing()
		}
		return cases.Interrupted()
	case StateDeath:
		if cases.Death == nil {
			return missing()
		}
		return cases.Death(s.Cause)
	default:
		return missing()
	}
}
