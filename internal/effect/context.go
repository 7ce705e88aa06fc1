package effect

import "context"

// Child is anything a running computation can register for cascading reset.
// Every *Controller satisfies it.
type Child interface {
	Name() string
	Reset()
}

// registrar is the controller side of a TaskContext.
type registrar interface {
	Name() string
	addChild(att *attempt, child Child)
	Notify(message string, opts ...NotifyOption) Notification
}

// TaskContext is handed to a running computation. It carries the attempt's
// cancellation and lets nested work register children with, and post
// notifications to, the outermost controller of the run.
type TaskContext struct {
	context.Context
	root registrar
	att  *attempt
}

func newTaskContext(ctx context.Context, root registrar, att *attempt) *TaskContext {
	return &TaskContext{Context: ctx, root: root, att: att}
}

// WithContext keeps the registration target but swaps the cancellation
// scope, for fanning work out under a derived context such as an errgroup.
func (tc *TaskContext) WithContext(ctx context.Context) *TaskContext {
	return &TaskContext{Context: ctx, root: tc.root, att: tc.att}
}

// AddChild registers child so that resetting the root also resets it.
// Registrations from a run that has since been reset are ignored.
func (tc *TaskContext) AddChild(child Child) {
	if tc == nil || tc.root == nil || child == nil {
		return
	}
	tc.root.addChild(tc.att, child)
}

// Notify posts a notification on the root controller.
func (tc *TaskContext) Notify(message string, opts ...NotifyOption) {
	if tc == nil || tc.root == nil {
		return
	}
	tc.root.Notify(message, opts...)
}

// Name is the name of the outermost controller of the run.
func (tc *TaskContext) Name() string {
	if tc == nil || tc.root == nil {
		return ""
	}
	return tc.root.Name()
}
