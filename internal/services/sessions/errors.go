package sessions

import "errors"

var (
	// ErrSessionNotFound is returned when a session id is not in the registry.
	// Distinct from a unit-index miss: the consumer must recreate the whole
	// session, not retry the unit.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned when the registry is at capacity
	ErrTooManySessions = errors.New("session limit reached")
)
