package effect

import (
	"sync"
	"time"

	"effectsolutions/internal/logging"

	"github.com/google/uuid"
)

// DefaultNotificationDuration applies when Notify is called without WithDuration.
const DefaultNotificationDuration = 2 * time.Second

// Notification is an ephemeral advisory message attached to a controller.
type Notification struct {
	ID        string
	Message   string
	Timestamp time.Time
	Duration  time.Duration // zero means it stays until superseded or cleared
	Icon      string
}

// NotifyOption customises a single Notify call.
type NotifyOption func(*notifyOptions)

type notifyOptions struct {
	duration    time.Duration
	durationSet bool
	icon        string
}

// WithDuration sets the auto-dismiss interval. Zero or negative disables it.
func WithDuration(d time.Duration) NotifyOption {
	return func(o *notifyOptions) {
		o.duration = d
		o.durationSet = true
	}
}

// WithIcon attaches an emoji or icon name.
func WithIcon(icon string) NotifyOption {
	return func(o *notifyOptions) {
		o.icon = icon
	}
}

// notifier holds at most one live notification. Last write wins.
type notifier struct {
	mu              sync.Mutex
	current         *Notification
	timer           *time.Timer
	listeners       listenerSet
	defaultDuration time.Duration
	now             func() time.Time
	log             *logging.Logger
}

func newNotifier(defaultDuration time.Duration, now func() time.Time, log *logging.Logger) *notifier {
	return &notifier{defaultDuration: defaultDuration, now: now, log: log}
}

func (n *notifier) notify(message string, opts ...NotifyOption) Notification {
	o := notifyOptions{duration: n.defaultDuration}
	for _, opt := range opts {
		opt(&o)
	}
	if o.duration < 0 {
		o.duration = 0
	}

	note := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: n.now(),
		Duration:  o.duration,
		Icon:      o.icon,
	}

	n.mu.Lock()
	n.stopTimerLocked()
	n.current = &note
	if note.Duration > 0 {
		id := note.ID
		n.timer = time.AfterFunc(note.Duration, func() { n.expire(id) })
	}
	fns := n.listeners.snapshot()
	n.mu.Unlock()

	n.log.Debug("notify %q (id=%s, duration=%s)", message, note.ID, note.Duration)
	fire(fns)
	return note
}

// expire clears the notification only if it is still the one the timer was
// scheduled for.
func (n *notifier) expire(id string) {
	n.mu.Lock()
	if n.current == nil || n.current.ID != id {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	fns := n.listeners.snapshot()
	n.mu.Unlock()

	fire(fns)
}

func (n *notifier) get() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

func (n *notifier) clear() {
	n.take()()
}

// take drops the live notification and returns the listener calls to make
// once the caller has released its own locks.
func (n *notifier) take() func() {
	n.mu.Lock()
	n.stopTimerLocked()
	n.current = nil
	fns := n.listeners.snapshot()
	n.mu.Unlock()

	return func() { fire(fns) }
}

func (n *notifier) stopTimerLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *notifier) subscribe(fn func()) func() {
	return subscribe(&n.mu, &n.listeners, fn)
}
