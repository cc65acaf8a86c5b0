package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrBattleNotFound  = errors.New("battle not found")
	ErrListingNotFound = errors.New("listing not found")
	ErrInvalidLimit    = errors.New("invalid leaderboard limit")
)
