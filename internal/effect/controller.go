package effect

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"effectsolutions/internal/logging"
)

// Computation is the unit of work wrapped by a Controller. A returned error is
// a declared failure; a panic or an error wrapping *DefectError is a defect.
// Computations must honour tc's cancellation at their suspension points.
type Computation[A any] func(tc *TaskContext) (A, error)

// Handle is the type-erased view of a controller used by hosts that render
// several controllers with different result types.
type Handle interface {
	Child
	StateType() StateType
	ShowTimer() bool
	Outcome() any
	Start(ctx context.Context) <-chan struct{}
	Run(ctx context.Context)
	Interrupt()
	Subscribe(fn func()) func()
	SubscribeNotifications(fn func()) func()
	Notification() (Notification, bool)
	Notify(message string, opts ...NotifyOption) Notification
	Elapsed() (time.Duration, bool)
}

var _ Handle = (*Controller[string])(nil)

// attempt is one execution of the computation.
type attempt struct {
	cancel      context.CancelFunc
	done        chan struct{}
	interrupted bool // guarded by the owning controller's mu
}

type outcome[A any] struct {
	result A
	err    error
	cause  any
	died   bool
}

// Controller drives one computation through the task lifecycle. It is created
// once and mutated in place by Run, Interrupt and Reset. Outcomes are never
// returned to callers; observe them via State and the subscription channels.
type Controller[A any] struct {
	name  string
	fn    Computation[A]
	cfg   settings
	log   *logging.Logger
	notes *notifier

	resetMu sync.Mutex // serializes Reset

	mu        sync.Mutex
	state     State[A]
	startTime time.Time
	endTime   time.Time
	resetting bool
	children  []Child
	attempt   *attempt
	listeners listenerSet
}

// New creates an idle controller.
func New[A any](name string, fn Computation[A], opts ...Option) *Controller[A] {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log
	if log == nil {
		log = logging.Get(logging.CategoryEffect)
	}
	noteLog := cfg.log
	if noteLog == nil {
		noteLog = logging.Get(logging.CategoryNotify)
	}

	return &Controller[A]{
		name:  name,
		fn:    fn,
		cfg:   cfg,
		log:   log.With("task", name),
		notes: newNotifier(cfg.notificationDuration, cfg.now, noteLog.With("task", name)),
		state: Idle[A](),
	}
}

func (c *Controller[A]) Name() string { return c.name }

// ShowTimer reports whether timing fields are tracked.
func (c *Controller[A]) ShowTimer() bool { return c.cfg.showTimer }

// State returns a snapshot of the current lifecycle state.
func (c *Controller[A]) State() State[A] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[A]) StateType() StateType {
	return c.State().Type
}

// Outcome returns the payload of the current state.
func (c *Controller[A]) Outcome() any {
	return c.State().Outcome()
}

// StartTime returns when the current run started, if timing is enabled.
func (c *Controller[A]) StartTime() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startTime, !c.startTime.IsZero()
}

// EndTime returns when the current run left StateRunning, if timing is enabled.
func (c *Controller[A]) EndTime() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endTime, !c.endTime.IsZero()
}

// Elapsed is the run duration so far, or the final duration once ended.
func (c *Controller[A]) Elapsed() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startTime.IsZero() {
		return 0, false
	}
	if c.endTime.IsZero() {
		return c.cfg.now().Sub(c.startTime), true
	}
	return c.endTime.Sub(c.startTime), true
}

// Children returns the registered children in registration order.
func (c *Controller[A]) Children() []Child {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.children)
}

// Subscribe registers a state listener. Listeners are called synchronously
// after every accepted transition, in registration order, and should re-read
// State. The returned func unsubscribes.
func (c *Controller[A]) Subscribe(fn func()) func() {
	return subscribe(&c.mu, &c.listeners, fn)
}

// SubscribeNotifications registers a listener for notification changes.
func (c *Controller[A]) SubscribeNotifications(fn func()) func() {
	return c.notes.subscribe(fn)
}

// Notification returns the live notification, if any.
func (c *Controller[A]) Notification() (Notification, bool) {
	return c.notes.get()
}

// Notify replaces the live notification.
func (c *Controller[A]) Notify(message string, opts ...NotifyOption) Notification {
	return c.notes.notify(message, opts...)
}

// Run starts the computation and waits for it to settle.
func (c *Controller[A]) Run(ctx context.Context) {
	<-c.Start(ctx)
}

// Start moves the controller to StateRunning before returning and executes
// the computation in the background. The returned channel is closed once the
// run has settled and its transition applied. Starting a controller that is
// already running joins the in-flight run instead of executing it twice.
func (c *Controller[A]) Start(ctx context.Context) <-chan struct{} {
	return c.start(ctx, nil)
}

func (c *Controller[A]) start(ctx context.Context, parent *TaskContext) <-chan struct{} {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.state.Type == StateRunning && c.attempt != nil {
		done := c.attempt.done
		c.mu.Unlock()
		c.log.Debug("run requested while running, joining in-flight run")
		return done
	}
	if c.resetting {
		c.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done
	}
	runCtx, cancel := context.WithCancel(ctx)
	att := &attempt{cancel: cancel, done: make(chan struct{})}
	c.attempt = att
	emit := c.transitionLocked(Running[A](), att)
	c.mu.Unlock()

	var tc *TaskContext
	if parent != nil {
		tc = parent.WithContext(runCtx)
	} else {
		tc = newTaskContext(runCtx, c, att)
	}

	emit()
	go c.execute(runCtx, att, tc)
	return att.done
}

func (c *Controller[A]) execute(ctx context.Context, att *attempt, tc *TaskContext) {
	defer close(att.done)
	defer att.cancel()

	out := c.invoke(tc)
	c.settle(ctx, att, out)
}

func (c *Controller[A]) invoke(tc *TaskContext) (out outcome[A]) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome[A]{cause: r, died: true}
		}
	}()
	out.result, out.err = c.fn(tc)
	return out
}

func (c *Controller[A]) settle(ctx context.Context, att *attempt, out outcome[A]) {
	c.mu.Lock()
	if c.attempt != att {
		c.mu.Unlock()
		c.log.Debug("run settled after reset or restart, outcome dropped")
		return
	}
	next := classify(ctx, out, att.interrupted)
	// Cleared under c.mu so a newer run cannot slip in between the attempt
	// check and the clear.
	clearNotes := func() {}
	if next.Type != StateCompleted {
		clearNotes = c.notes.take()
	}
	emit := c.transitionLocked(next, att)
	c.mu.Unlock()

	if next.Type == StateDeath && c.cfg.debugDefects {
		c.log.Error("effect %q died with defect: %v", c.name, next.Cause)
	}
	clearNotes()
	emit()
}

func classify[A any](ctx context.Context, out outcome[A], interrupted bool) State[A] {
	var defect *DefectError
	switch {
	case interrupted:
		return Interrupted[A]()
	case out.died:
		return Death[A](out.cause)
	case out.err == nil:
		return Completed(out.result)
	case errors.As(out.err, &defect):
		return Death[A](defect.Cause)
	case errors.Is(out.err, ErrInterrupted):
		return Interrupted[A]()
	case ctx.Err() != nil && (errors.Is(out.err, context.Canceled) || errors.Is(out.err, context.DeadlineExceeded)):
		return Interrupted[A]()
	default:
		return Failed[A](out.err)
	}
}

// Interrupt marks a running controller interrupted immediately and then
// requests cancellation of the computation without waiting for it.
// It is a no-op unless the controller is running.
func (c *Controller[A]) Interrupt() {
	c.mu.Lock()
	if c.state.Type != StateRunning || c.resetting {
		c.mu.Unlock()
		return
	}
	att := c.attempt
	if att != nil {
		att.interrupted = true
	}
	emit := c.transitionLocked(Interrupted[A](), nil)
	c.mu.Unlock()

	emit()
	if att != nil {
		att.cancel()
	}
}

// Reset resets every registered child, cancels the in-flight run, clears the
// notification and timing fields, and returns the controller to StateIdle.
// Cancellation is requested but not awaited. Concurrent calls run one after
// the other.
func (c *Controller[A]) Reset() {
	c.resetMu.Lock()
	defer c.resetMu.Unlock()

	c.mu.Lock()
	c.resetting = true
	att := c.attempt
	c.attempt = nil
	children := slices.Clone(c.children)
	c.mu.Unlock()

	for _, child := range children {
		child.Reset()
	}

	c.mu.Lock()
	c.children = nil
	c.mu.Unlock()

	if att != nil {
		att.cancel()
	}
	c.notes.clear()

	c.mu.Lock()
	c.startTime = time.Time{}
	c.endTime = time.Time{}
	c.resetting = false
	emit := c.transitionLocked(Idle[A](), nil)
	c.mu.Unlock()
	emit()
}

// Exec runs c as part of the computation owning tc. The child is registered
// for cascading reset, a completed or failed child returns its cached outcome,
// and a dead child re-panics its cause so the defect reaches the parent.
func (c *Controller[A]) Exec(tc *TaskContext) (A, error) {
	var zero A
	if tc == nil {
		c.Run(context.Background())
	} else {
		tc.AddChild(c)
		switch st := c.State(); st.Type {
		case StateCompleted:
			return st.Result, nil
		case StateFailed:
			return zero, st.Err
		case StateDeath:
			panic(st.Cause)
		}
		<-c.start(tc, tc)
	}

	switch st := c.State(); st.Type {
	case StateCompleted:
		return st.Result, nil
	case StateFailed:
		return zero, st.Err
	case StateDeath:
		panic(st.Cause)
	default:
		return zero, fmt.Errorf("%s: %w", c.name, ErrInterrupted)
	}
}

func (c *Controller[A]) addChild(att *attempt, child Child) {
	if Child(c) == child {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if att == nil || c.attempt != att {
		c.log.Debug("ignoring child %q registered by a stale run", child.Name())
		return
	}
	if slices.Contains(c.children, child) {
		return
	}
	c.children = append(c.children, child)
}

// transitionLocked applies next if the table allows it and returns the
// deferred side effects to run after c.mu is released. When att is non-nil
// the transition only applies while att is still the current run.
func (c *Controller[A]) transitionLocked(next State[A], att *attempt) func() {
	noop := func() {}
	if c.resetting {
		c.log.Debug("transition to %s suppressed during reset", next.Type)
		return noop
	}
	if att != nil && c.attempt != att {
		c.log.Debug("discarding %s from a superseded run", next.Type)
		return noop
	}

	prev := c.state
	if !CanTransition(prev.Type, next.Type) {
		c.log.Warn("invalid state transition from %s to %s for task %s", prev.Type, next.Type, c.name)
		return noop
	}
	c.state = next

	if c.cfg.showTimer {
		switch {
		case next.Type == StateRunning && prev.Type != StateRunning:
			c.startTime = c.cfg.now()
			c.endTime = time.Time{}
		case prev.Type == StateRunning && next.Type != StateRunning && !c.startTime.IsZero():
			c.endTime = c.cfg.now()
		}
	}

	fns := c.listeners.snapshot()
	hook := c.cfg.hooks.OnEnterState
	changed := prev.Type != next.Type
	return func() {
		if changed && hook != nil {
			hook(c.name, next.Type)
		}
		fire(fns)
	}
}
