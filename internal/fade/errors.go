package fade

import "errors"

var (
	// ErrAlreadyStarted is returned when Start is called on a running engine.
	ErrAlreadyStarted = errors.New("fade: engine already started")

	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("fade: engine not started")
)
