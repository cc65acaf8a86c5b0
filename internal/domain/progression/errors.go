package progression

import "errors"

var (
	// ErrClassChangeUnavailable is returned when the player attempts a
	// class change without an unlocked class-change flag.
	ErrClassChangeUnavailable = errors.New("class change is not available")
)
