package model

import "errors"

// Sentinel kinds for input validation errors.
var (
	ErrInvalidCurrency   = errors.New("invalid currency")
	ErrInvalidMode       = errors.New("invalid battle mode")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidMove       = errors.New("invalid move")
)
