// Package market holds the economy math and the fixed shop catalog.
package market

import (
	"math"

	"github.com/okian/pixelarena/internal/domain/model"
)

// Default economy percentages. Both are configurable at service wiring.
const (
	DefaultCommissionPct = 5
	DefaultQuickSellPct  = 80
)

// Shop item identifiers.
const (
	ShopTicketPack   = "ticket_pack"
	ShopEnergyRefill = "energy_refill"
	ShopAttackBoost  = "attack_boost"
)

// TicketPackSize is the number of tickets a ticket pack grants.
const TicketPackSize = 5

// Item base prices, used for quick-sell valuation.
const (
	TicketBasePrice = 40
	BoostBasePrice  = 150
)

// ShopItem is one purchasable catalog entry. Prices maps each accepted
// currency to its price; absent currencies are not accepted for the item.
type ShopItem struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Kind   model.ItemKind         `json:"kind"`
	Prices map[model.Currency]int `json:"prices"`
}

var catalog = map[string]ShopItem{
	ShopTicketPack: {
		ID:   ShopTicketPack,
		Name: "Ticket Pack",
		Kind: model.ItemTicket,
		Prices: map[model.Currency]int{
			model.CurrencyPremium: 10,
			model.CurrencyCoins:   200,
		},
	},
	ShopEnergyRefill: {
		ID:   ShopEnergyRefill,
		Name: "Energy Refill",
		Kind: model.ItemBoost,
		Prices: map[model.Currency]int{
			model.CurrencyPremium: 5,
			model.CurrencyCoins:   100,
		},
	},
	ShopAttackBoost: {
		ID:   ShopAttackBoost,
		Name: "Attack Boost",
		Kind: model.ItemBoost,
		Prices: map[model.Currency]int{
			model.CurrencyCoins: 150,
		},
	},
}

// catalogOrder keeps the catalog listing stable for API responses.
var catalogOrder = []string{ShopTicketPack, ShopEnergyRefill, ShopAttackBoost}

// Catalog returns the shop items in a stable order.
func Catalog() []ShopItem {
	out := make([]ShopItem, 0, len(catalogOrder))
	for _, id := range catalogOrder {
		out = append(out, catalog[id])
	}
	return out
}

// Lookup returns a shop item by id.
func Lookup(itemID string) (ShopItem, error) {
	it, ok := catalog[itemID]
	if !ok {
		return ShopItem{}, ErrUnknownShopItem
	}
	return it, nil
}

// Price returns the item's price in the given currency, failing when the
// item does not accept that currency.
func (s ShopItem) Price(c model.Currency) (int, error) {
	p, ok := s.Prices[c]
	if !ok {
		return 0, ErrCurrencyNotAccepted
	}
	return p, nil
}

// Commission returns the market's cut of a completed sale.
func Commission(price, pct int) int {
	return int(math.Floor(float64(price) * float64(pct) / 100))
}

// SellerCredit returns what the seller receives after commission. The
// invariant sellerCredit + commission == price holds for every price.
func SellerCredit(price, pct int) int {
	return price - Commission(price, pct)
}

// QuickSellValue returns the instant payout for selling an item back to
// the system instead of listing it.
func QuickSellValue(basePrice, pct int) int {
	return int(math.Floor(float64(basePrice) * float64(pct) / 100))
}
