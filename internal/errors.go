package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSource is raised when a token is asked to read something that
	// is neither a signal nor a cursor.
	ErrInvalidSource = errors.New("wires: token can only read signals and cursors")

	// ErrStaleToken is raised when a token is used after its run completed.
	ErrStaleToken = errors.New("wires: token used outside of its run")

	ErrDisposed     = errors.New("wires: wire is disposed")
	ErrReentrantRun = errors.New("wires: wire forced while already running")

	// ErrCycle aborts a batch nested deeper than the runtime's max depth,
	// typically post-run tasks that keep writing what their wire reads.
	ErrCycle = errors.New("wires: scheduler nesting exceeded max depth")
)

// RunError reports a failed wire run. The wire keeps the value and the
// dependencies of its last successful run.
type RunError struct {
	Wire ID
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("wires: %s run failed: %v", e.Wire, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// PanicError carries a value recovered from a panicking wire body.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// programmingError reports whether a recovered panic is a misuse of the
// engine itself, which is re-raised instead of being stored on the wire.
func programmingError(v any) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}

	return errors.Is(err, ErrInvalidSource) || errors.Is(err, ErrStaleToken)
}
