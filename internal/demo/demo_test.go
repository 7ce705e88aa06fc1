package demo

import (
	"context"
	"errors"
	"testing"
	"time"

	"effectsolutions/internal/effect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const step = 30 * time.Millisecond

func newDemo(t *testing.T, name string, opts ...effect.Option) *effect.Controller[any] {
	t.Helper()
	c, err := NewCatalog(step).New(name, opts...)
	require.NoError(t, err)
	return c
}

func TestCatalog_NamesAndLookup(t *testing.T) {
	c := NewCatalog(0)
	assert.Equal(t, []string{"simple", "failure", "defect", "notify", "nested", "parallel", "temperature"}, c.Names())

	d, err := c.Get("simple")
	require.NoError(t, err)
	assert.Equal(t, "Simple Effect", d.Title)
	assert.Contains(t, d.Markdown(), "```go\n")
	assert.Contains(t, d.Markdown(), "# Simple Effect")

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownDemo)
	_, err = c.New("nope")
	assert.ErrorIs(t, err, ErrUnknownDemo)
}

func TestNew_ReturnsFreshIdleControllers(t *testing.T) {
	c := NewCatalog(step)
	a, err := c.New("simple")
	require.NoError(t, err)
	b, err := c.New("simple")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, effect.StateIdle, a.StateType())
}

func TestSimple(t *testing.T) {
	c := newDemo(t, "simple")
	c.Run(context.Background())
	assert.Equal(t, effect.Completed[any]("Success!"), c.State())
}

func TestFailure(t *testing.T) {
	c := newDemo(t, "failure")
	c.Run(context.Background())

	st := c.State()
	assert.Equal(t, effect.StateFailed, st.Type)
	assert.ErrorIs(t, st.Err, ErrUpstream)
}

func TestDefect(t *testing.T) {
	c := newDemo(t, "defect")
	c.Run(context.Background())

	st := c.State()
	assert.Equal(t, effect.StateDeath, st.Type)
	assert.Equal(t, "boom", st.Cause)
}

func TestNotify_LeavesLastNotification(t *testing.T) {
	c := newDemo(t, "notify", effect.WithNotificationDuration(0))

	var seen []string
	unsubscribe := c.SubscribeNotifications(func() {
		if n, ok := c.Notification(); ok {
			seen = append(seen, n.Message)
		}
	})
	defer unsubscribe()

	c.Run(context.Background())

	assert.Equal(t, effect.Completed[any](Emoji("🎉")), c.State())
	assert.Equal(t, []string{"Connecting", "Downloading", "Parsing"}, seen)
	n, ok := c.Notification()
	require.True(t, ok)
	assert.Equal(t, "🧩", n.Icon)
}

func TestNested_RegistersAndResetsChildren(t *testing.T) {
	c := newDemo(t, "nested")
	c.Run(context.Background())

	assert.Equal(t, effect.Completed[any]("ada has 3 orders"), c.State())
	children := c.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "fetch-user", children[0].Name())
	assert.Equal(t, "fetch-orders", children[1].Name())

	c.Reset()
	assert.Equal(t, effect.StateIdle, c.StateType())
	assert.Empty(t, c.Children())
	for _, ch := range children {
		h, ok := ch.(effect.Handle)
		require.True(t, ok)
		assert.Equal(t, effect.StateIdle, h.StateType(), ch.Name())
	}
}

func TestParallel_GathersInOrder(t *testing.T) {
	c := newDemo(t, "parallel")
	c.Run(context.Background())

	st := c.State()
	require.Equal(t, effect.StateCompleted, st.Type, "err=%v cause=%v", st.Err, st.Cause)
	assert.Equal(t, "[12°, 18.5°, 24°]", Render(st.Result))
	assert.Len(t, c.Children(), 3)
}

func TestParallel_InterruptReachesChildren(t *testing.T) {
	c := newDemo(t, "parallel")
	done := c.Start(context.Background())

	require.Eventually(t, func() bool { return len(c.Children()) == 3 }, time.Second, time.Millisecond)
	c.Interrupt()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("parallel demo did not settle")
	}
	assert.Equal(t, effect.StateInterrupted, c.StateType())
}

func TestTemperature(t *testing.T) {
	c := newDemo(t, "temperature")
	c.Run(context.Background())
	assert.Equal(t, "21.5°", Render(c.State().Result))
}

func TestSimple_InterruptedByCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := newDemo(t, "simple")
	done := c.Start(ctx)
	cancel()
	<-done

	st := c.State()
	assert.Equal(t, effect.StateInterrupted, st.Type)
	assert.False(t, errors.Is(st.Err, ErrUpstream))
}
