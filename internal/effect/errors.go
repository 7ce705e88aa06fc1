package effect

import (
	"errors"
	"fmt"
)

// ErrInterrupted is returned by Exec when the child controller ended
// interrupted. A computation that propagates it is itself treated as
// interrupted.
var ErrInterrupted = errors.New("effect: interrupted")

// DefectError marks an error as a defect rather than a declared failure.
// A computation returning one settles in StateDeath with Cause as the cause.
type DefectError struct {
	Cause any
}

func (e *DefectError) Error() string {
	return fmt.Sprintf("defect: %v", e.Cause)
}

func (e *DefectError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// Die wraps cause so the surrounding controller settles in StateDeath.
func Die(cause any) error {
	return &DefectError{Cause: cause}
}
