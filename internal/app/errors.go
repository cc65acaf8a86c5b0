package service

import "errors"

// Sentinel kinds for gameplay precondition failures. All are recoverable
// and reported to the caller; none abort the process.
var (
	ErrInsufficientEnergy = errors.New("insufficient energy")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrItemNotOwned       = errors.New("item not owned")
	ErrOwnListing         = errors.New("cannot buy own listing")
	ErrListingSold        = errors.New("listing already sold")
	ErrNotBattleOwner     = errors.New("battle belongs to another player")
	ErrInvalidPrice       = errors.New("listing price must be positive")
	ErrInvalidUsername    = errors.New("username must not be empty")
)
