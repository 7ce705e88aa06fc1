// Package effect implements the task-lifecycle controller behind the site's
// interactive examples.
//
// A Controller wraps one cancellable computation and moves it through
//
//	idle -> running -> {completed, failed, interrupted, death} -> idle
//
// according to a fixed adjacency table. Illegal transitions are logged and
// dropped. Each controller also carries a single auto-expiring Notification
// and a set of children registered through the TaskContext of a running
// computation; Reset cascades depth-first through those children.
//
// Nothing here returns errors to the caller of Run, Interrupt or Reset. Hosts
// observe outcomes through State and the two subscription channels.
package effect
