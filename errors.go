package softbody

import "errors"

var (
	// ErrInvalidConfig is returned when authoring parameters are out of range.
	ErrInvalidConfig = errors.New("softbody: invalid configuration")

	// ErrAlreadyBuilt is returned when a blueprint or builder is used twice.
	ErrAlreadyBuilt = errors.New("softbody: already built")

	// ErrAlreadyMirrored is returned when a node would be linked a second time.
	ErrAlreadyMirrored = errors.New("softbody: node already mirrored")

	// ErrUnknownNode is returned when a handle does not name a live node.
	ErrUnknownNode = errors.New("softbody: unknown node")

	// ErrModeMismatch is returned when the worlds do not fit the requested mode.
	ErrModeMismatch = errors.New("softbody: graph mode mismatch")

	// ErrSystemPanic is returned by the scheduler when a system panicked.
	ErrSystemPanic = errors.New("softbody: system panicked")
)
