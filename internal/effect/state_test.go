package effect

import (
	"errors"
	"testing"

	"effectsolutions/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCanTransition_Table(t *testing.T) {
	allowed := map[StateType]map[StateType]bool{
		StateIdle:        {StateIdle: true, StateRunning: true},
		StateRunning:     {StateRunning: true, StateCompleted: true, StateFailed: true, StateInterrupted: true, StateDeath: true, StateIdle: true},
		StateCompleted:   {StateIdle: true, StateRunning: true, StateCompleted: true},
		StateFailed:      {StateIdle: true, StateRunning: true, StateFailed: true},
		StateInterrupted: {StateIdle: true, StateRunning: true, StateInterrupted: true},
		StateDeath:       {StateIdle: true, StateRunning: true, StateDeath: true},
	}

	for _, from := range AllStateTypes {
		for _, to := range AllStateTypes {
			assert.Equal(t, allowed[from][to], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestStateType_StringAndTerminal(t *testing.T) {
	assert.Equal(t, "interrupted", StateInterrupted.String())
	assert.Equal(t, "StateType(42)", StateType(42).String())

	assert.False(t, StateIdle.IsTerminal())
	assert.False(t, StateRunning.IsTerminal())
	for _, st := range []StateType{StateCompleted, StateFailed, StateInterrupted, StateDeath} {
		assert.True(t, st.IsTerminal(), st.String())
	}
}

func TestMatchState(t *testing.T) {
	cases := StateCases[int, string]{
		Idle:        func() string { return "idle" },
		Running:     func() string { return "running" },
		Completed:   func(n int) string { return "completed" },
		Failed:      func(err error) string { return "failed:" + err.Error() },
		Interrupted: func() string { return "interrupted" },
		Death:       func(cause any) string { return "death" },
	}

	assert.Equal(t, "idle", MatchState(Idle[int](), cases))
	assert.Equal(t, "running", MatchState(Running[int](), cases))
	assert.Equal(t, "completed", MatchState(Completed(3), cases))
	assert.Equal(t, "failed:nope", MatchState(Failed[int](errors.New("nope")), cases))
	assert.Equal(t, "interrupted", MatchState(Interrupted[int](), cases))
	assert.Equal(t, "death", MatchState(Death[int]("x"), cases))

	assert.Panics(t, func() {
		MatchState(Completed(1), StateCases[int, string]{Idle: cases.Idle})
	})
}

func TestState_Outcome(t *testing.T) {
	boom := errors.New("boom")
	assert.Equal(t, "ok", Completed("ok").Outcome())
	assert.Equal(t, boom, Failed[string](boom).Outcome())
	assert.Equal(t, 7, Death[string](7).Outcome())
	assert.Nil(t, Interrupted[string]().Outcome())
	assert.Equal(t, "completed(ok)", Completed("ok").String())
}

// driveTo walks a fresh controller to the target state along legal edges.
func driveTo(c *Controller[string], target StateType) {
	switch target {
	case StateIdle:
	case StateRunning:
		c.setState(Running[string]())
	case StateCompleted:
		c.setState(Running[string]())
		c.setState(Completed("done"))
	case StateFailed:
		c.setState(Running[string]())
		c.setState(Failed[string](errors.New("failed")))
	case StateInterrupted:
		c.setState(Running[string]())
		c.setState(Interrupted[string]())
	case StateDeath:
		c.setState(Running[string]())
		c.setState(Death[string]("dead"))
	}
}

func stateOf(t StateType) State[string] {
	return MatchState(State[string]{Type: t}, StateCases[string, State[string]]{
		Idle:        Idle[string],
		Running:     Running[string],
		Completed:   func(string) State[string] { return Completed("other") },
		Failed:      func(error) State[string] { return Failed[string](errors.New("other")) },
		Interrupted: Interrupted[string],
		Death:       func(any) State[string] { return Death[string]("other") },
	})
}

func TestIllegalTransitionsLeaveStateUnchanged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logging.SetBase(zap.New(core))
	t.Cleanup(func() { logging.SetBase(nil) })

	for _, from := range AllStateTypes {
		for _, to := range AllStateTypes {
			if CanTransition(from, to) {
				continue
			}
			c := New("table", func(*TaskContext) (string, error) { return "", nil })
			driveTo(c, from)
			before := c.State()
			require.Equal(t, from, before.Type)

			c.setState(stateOf(to))

			assert.Equal(t, before, c.State(), "%s -> %s must be rejected", from, to)
		}
	}

	assert.NotZero(t, logs.FilterMessageSnippet("invalid state transition").Len())
}
