package bsp

import (
	"errors"
	"fmt"
)

// ErrAborted is the sentinel every AbortError wraps; test for it with
// errors.Is rather than comparing to a concrete AbortError value.
var ErrAborted = errors.New("bsp: aborted")

// ErrNotBegun names a Proc-scoped operation attempted before Begin has
// produced a handle for the calling goroutine. Proc handles are only
// obtained from Begin, so no operation in this package returns it.
var ErrNotBegun = errors.New("bsp: Begin has not been called")

// ErrProcCountMismatch names a worker observing a process count that
// disagrees with the one pid 0 passed to Begin. Begin is called once, by the
// spawner, so no operation in this package returns it.
var ErrProcCountMismatch = errors.New("bsp: process count mismatch on Begin")

// ErrNotRegistered is returned by Put/Get when the given region was never
// pushed (or has since been popped) on the calling process.
var ErrNotRegistered = errors.New("bsp: region not registered")

// ErrMissingPeerRegistration is returned by Put/Get when the target process
// has not (yet) applied a PushReg for the same global index — a violation
// of the SPMD discipline requiring every process to push in lockstep.
var ErrMissingPeerRegistration = errors.New("bsp: target process has no registration at that index")

// ErrTagSize is returned by Send when the supplied tag's length does not
// equal the tag size in effect for the current superstep.
var ErrTagSize = errors.New("bsp: tag length does not match current tag size")

// AbortError is the sentinel error every worker raises (as a panic, caught
// at the worker boundary) when the abort flag fires while it is blocked in
// Sync, Time, or any other abort-checking call. It unwraps to ErrAborted.
type AbortError struct {
	Reason string
}

// NewAbortError builds an AbortError carrying an optional human-readable
// reason (the formatted message passed to Abort/VAbort, if any).
func NewAbortError(reason string) *AbortError {
	return &AbortError{Reason: reason}
}

func (e *AbortError) Error() string {
	if e.Reason == "" {
		return ErrAborted.Error()
	}
	return fmt.Sprintf("%s: %s", ErrAborted, e.Reason)
}

func (e *AbortError) Unwrap() error {
	return ErrAborted
}
