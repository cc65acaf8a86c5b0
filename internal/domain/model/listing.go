package model

import "time"

// ListingStatus tracks a market listing's lifecycle. Sold is terminal;
// listings are never deleted and remain as audit records.
type ListingStatus string

const (
	ListingListed ListingStatus = "listed"
	ListingSold   ListingStatus = "sold"
)

// Listing is a market offer holding custody of an item outside any
// player's inventory.
type Listing struct {
	ID       int64         `json:"id"`
	SellerID string        `json:"sellerId"`
	Item     Item          `json:"item"`
	Price    int           `json:"price"`
	Currency Currency      `json:"currency"`
	Status   ListingStatus `json:"status"`

	BuyerID string     `json:"buyerId,omitempty"`
	SoldAt  *time.Time `json:"soldAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy safe to hand across the store boundary.
func (l *Listing) Clone() *Listing {
	cp := *l
	if l.SoldAt != nil {
		t := *l.SoldAt
		cp.SoldAt = &t
	}
	return &cp
}
