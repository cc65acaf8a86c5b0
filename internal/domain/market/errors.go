package market

import "errors"

var (
	// ErrUnknownShopItem is returned when a purchase names an item the
	// shop does not carry.
	ErrUnknownShopItem = errors.New("unknown shop item")

	// ErrCurrencyNotAccepted is returned when an item cannot be bought
	// with the offered currency.
	ErrCurrencyNotAccepted = errors.New("currency not accepted for item")
)
