package signalprep

import "errors"

// ErrInvalidFactor indicates an extension factor below 1.
var ErrInvalidFactor = errors.New("signalprep: extension factor must be at least 1")
