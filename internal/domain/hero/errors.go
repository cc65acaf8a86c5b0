package hero

import "errors"

// Sentinel kinds for stat derivation errors.
var (
	ErrInvalidClass = errors.New("invalid hero class")
	ErrInvalidLevel = errors.New("level must be >= 1")
)
