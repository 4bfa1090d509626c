package session

import "errors"

var (
	// ErrUnitRemoved indicates an operation on a unit that was deleted.
	ErrUnitRemoved = errors.New("session: motor unit was removed")
	// ErrNoCandidates indicates a recalculation whose pulse train has no peaks.
	ErrNoCandidates = errors.New("session: recalculated pulse train has no peak candidates")
)
