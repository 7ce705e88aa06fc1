package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_Observe(t *testing.T) {
	tr := NewTracker(StateIdle)

	got := tr.Observe(StateRunning)
	assert.True(t, got.JustStarted)
	assert.True(t, got.Changed())
	assert.Equal(t, StateIdle, got.Previous)

	got = tr.Observe(StateRunning)
	assert.False(t, got.JustStarted)
	assert.False(t, got.Changed())

	got = tr.Observe(StateCompleted)
	assert.True(t, got.JustCompleted)
	assert.False(t, got.JustFailed)

	got = tr.Observe(StateRunning)
	assert.True(t, got.JustStarted)

	got = tr.Observe(StateFailed)
	assert.True(t, got.JustFailed)

	got = tr.Observe(StateInterrupted)
	assert.True(t, got.JustInterrupted)
	assert.Equal(t, StateFailed, got.Previous)
	assert.Equal(t, StateInterrupted, got.Current)
}
