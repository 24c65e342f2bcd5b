package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSurface indicates the host could not provide a drawable surface.
	// The scheduler disables itself; the host keeps running.
	ErrNoSurface = errors.New("frame: no drawable surface")

	// ErrNotIdle indicates Start was called on a scheduler that already ran.
	ErrNotIdle = errors.New("frame: scheduler is not idle")
)

// FrameError wraps a failure that aborted a frame.
type FrameError struct {
	Frame   uint64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
