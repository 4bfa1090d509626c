package projection

import "errors"

// ErrIndexOutOfRange indicates a discharge index outside the extended time base.
var ErrIndexOutOfRange = errors.New("projection: discharge index out of range")
