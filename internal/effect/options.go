package effect

import (
	"time"

	"effectsolutions/internal/logging"
)

// Hooks are side channels invoked on state entry. OnEnterState fires only
// when the state type changes, never on self-transitions.
type Hooks struct {
	OnEnterState func(name string, t StateType)
}

// Option configures a Controller.
type Option func(*settings)

type settings struct {
	showTimer            bool
	debugDefects         bool
	hooks                Hooks
	notificationDuration time.Duration
	now                  func() time.Time
	log                  *logging.Logger
}

func defaultSettings() settings {
	return settings{
		notificationDuration: DefaultNotificationDuration,
		now:                  time.Now,
	}
}

// WithTimer enables start/end time tracking.
func WithTimer(show bool) Option {
	return func(s *settings) { s.showTimer = show }
}

// WithDebugDefects logs defects at error level when the computation dies.
func WithDebugDefects(on bool) Option {
	return func(s *settings) { s.debugDefects = on }
}

// WithHooks installs state-entry side channels.
func WithHooks(h Hooks) Option {
	return func(s *settings) { s.hooks = h }
}

// WithNotificationDuration overrides DefaultNotificationDuration for
// notifications posted without WithDuration.
func WithNotificationDuration(d time.Duration) Option {
	return func(s *settings) { s.notificationDuration = d }
}

// WithClock replaces time.Now for timestamps and timing fields.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger replaces the effect category logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *settings) { s.log = l }
}
