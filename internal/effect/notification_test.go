package effect

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"effectsolutions/internal/logging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func idleController() *Controller[string] {
	return New("notifier", func(*TaskContext) (string, error) { return "", nil })
}

func TestNotify_SupersedesPrevious(t *testing.T) {
	c := idleController()

	first := c.Notify("m1", WithDuration(30*time.Millisecond))
	second := c.Notify("m2", WithDuration(0))

	note, ok := c.Notification()
	require.True(t, ok)
	assert.Equal(t, second, note)
	assert.NotEqual(t, first.ID, second.ID)

	// m1's timer would have fired by now; m2 must survive it.
	time.Sleep(80 * time.Millisecond)
	note, ok = c.Notification()
	require.True(t, ok)
	assert.Equal(t, "m2", note.Message)
}

func TestNotify_ExpiresAfterDuration(t *testing.T) {
	c := idleController()

	c.Notify("short-lived", WithDuration(30*time.Millisecond))
	_, ok := c.Notification()
	assert.True(t, ok, "present immediately after creation")

	assert.Eventually(t, func() bool {
		_, ok := c.Notification()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNotify_Defaults(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	c := New("defaults", func(*TaskContext) (string, error) { return "", nil },
		WithClock(func() time.Time { return fixed }))

	note := c.Notify("hello", WithIcon("✨"))

	assert.Equal(t, DefaultNotificationDuration, note.Duration)
	assert.Equal(t, fixed, note.Timestamp)
	assert.Equal(t, "✨", note.Icon)
	_, err := uuid.Parse(note.ID)
	assert.NoError(t, err)
}

func TestNotify_ControllerDefaultDuration(t *testing.T) {
	c := New("quick", func(*TaskContext) (string, error) { return "", nil },
		WithNotificationDuration(20*time.Millisecond))

	note := c.Notify("blink")
	assert.Equal(t, 20*time.Millisecond, note.Duration)
	assert.Eventually(t, func() bool {
		_, ok := c.Notification()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNotify_NegativeDurationIsSticky(t *testing.T) {
	c := idleController()
	note := c.Notify("stay", WithDuration(-time.Second))
	assert.Zero(t, note.Duration)

	time.Sleep(20 * time.Millisecond)
	_, ok := c.Notification()
	assert.True(t, ok)
}

func TestSubscribeNotifications_FiresOnNotifyAndExpiry(t *testing.T) {
	c := idleController()

	var calls atomic.Int32
	unsubscribe := c.SubscribeNotifications(func() { calls.Add(1) })

	c.Notify("ping", WithDuration(10*time.Millisecond))
	assert.Equal(t, int32(1), calls.Load())
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	unsubscribe()
	c.Notify("unseen", WithDuration(0))
	assert.Equal(t, int32(2), calls.Load())
}

func TestNotification_ClearedOnNonSuccessExit(t *testing.T) {
	failing := New("failing", func(tc *TaskContext) (string, error) {
		tc.Notify("working", WithDuration(0))
		return "", errors.New("nope")
	})
	failing.Run(context.Background())
	_, ok := failing.Notification()
	assert.False(t, ok)

	dying := New("dying", func(tc *TaskContext) (string, error) {
		tc.Notify("working", WithDuration(0))
		panic("dead")
	})
	dying.Run(context.Background())
	_, ok = dying.Notification()
	assert.False(t, ok)

	succeeding := New("succeeding", func(tc *TaskContext) (string, error) {
		tc.Notify("done soon", WithDuration(0))
		return "ok", nil
	})
	succeeding.Run(context.Background())
	note, ok := succeeding.Notification()
	require.True(t, ok)
	assert.Equal(t, "done soon", note.Message)
}

func TestNotification_ClearedOnInterruptSettlement(t *testing.T) {
	c := New("interrupted", func(tc *TaskContext) (string, error) {
		tc.Notify("waiting", WithDuration(0))
		<-tc.Done()
		return "", tc.Err()
	})

	done := c.Start(context.Background())
	require.Eventually(t, func() bool {
		_, ok := c.Notification()
		return ok
	}, waitFor, time.Millisecond)

	c.Interrupt()
	waitDone(t, done)

	_, ok := c.Notification()
	assert.False(t, ok)
}

func TestNotify_LogsUnderNotifyCategory(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetBase(zap.New(core))
	t.Cleanup(func() { logging.SetBase(nil) })

	c := idleController()
	c.Notify("hello", WithDuration(0))

	entries := logs.FilterMessageSnippet(`notify "hello"`).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "notify", entries[0].LoggerName)
	assert.Equal(t, "notifier", entries[0].ContextMap()["task"])
}
