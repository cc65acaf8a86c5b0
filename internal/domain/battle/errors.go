package battle

import "errors"

var (
	// ErrBattleFinished is returned when a move or termination targets a
	// battle that has already reached its terminal state.
	ErrBattleFinished = errors.New("battle already finished")

	// ErrNoChargesLeft is returned when the player plays a special with
	// no ability charges remaining.
	ErrNoChargesLeft = errors.New("no special charges left")
)
