package service

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	repository "github.com/okian/pixelarena/internal/adapters/repository"
	"github.com/okian/pixelarena/internal/domain/market"
	"github.com/okian/pixelarena/internal/domain/model"
	"github.com/okian/pixelarena/internal/domain/notify"
	"github.com/okian/pixelarena/pkg/logger"
	"github.com/okian/pixelarena/pkg/metrics"
)

// PurchaseOutcome is the result of a shop purchase.
type PurchaseOutcome struct {
	Item   market.ShopItem `json:"item"`
	Player *model.Player   `json:"player"`
}

// QuickSellOutcome is the result of selling an item back to the system.
type QuickSellOutcome struct {
	Credit int           `json:"credit"`
	Player *model.Player `json:"player"`
}

// ShopCatalog returns the purchasable shop items.
func (s *Service) ShopCatalog() []market.ShopItem {
	return market.Catalog()
}

// PurchaseShopItem buys a catalog item with the chosen currency. The
// balance check and the item effect apply atomically.
func (s *Service) PurchaseShopItem(ctx context.Context, playerID, itemID string, currency model.Currency) (*PurchaseOutcome, error) {
	item, err := market.Lookup(itemID)
	if err != nil {
		return nil, err
	}
	price, err := item.Price(currency)
	if err != nil {
		return nil, err
	}

	p, err := s.players.Update(ctx, playerID, func(p *model.Player) error {
		s.applyEnergyRegen(p)
		if p.Balance(currency) < price {
			return ErrInsufficientFunds
		}
		p.Currencies[currency] -= price
		s.applyShopEffect(p, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordShopPurchase(itemID, string(currency))
	s.logger.Info(ctx, "shop purchase",
		logger.String("player_id", playerID),
		logger.String("item", itemID),
		logger.String("currency", string(currency)),
		logger.Int("price", price),
	)
	return &PurchaseOutcome{Item: item, Player: p}, nil
}

// applyShopEffect mutates the player with what the purchased item grants.
func (s *Service) applyShopEffect(p *model.Player, item market.ShopItem) {
	switch item.ID {
	case market.ShopTicketPack:
		for i := 0; i < market.TicketPackSize; i++ {
			p.Inventory = append(p.Inventory, model.Item{
				ID:        uuid.NewString(),
				Kind:      model.ItemTicket,
				Name:      "Arena Ticket",
				BasePrice: market.TicketBasePrice,
			})
		}
	case market.ShopEnergyRefill:
		p.Energy = p.MaxEnergy
	case market.ShopAttackBoost:
		p.Inventory = append(p.Inventory, model.Item{
			ID:        uuid.NewString(),
			Kind:      model.ItemBoost,
			Name:      "Attack Boost",
			BasePrice: market.BoostBasePrice,
		})
	}
}

// ListMarketItem moves an owned item out of the seller's inventory into
// a new open listing.
func (s *Service) ListMarketItem(ctx context.Context, sellerID, itemID string, price int, currency model.Currency) (*model.Listing, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	var item model.Item
	if _, err := s.players.Update(ctx, sellerID, func(p *model.Player) error {
		s.applyEnergyRegen(p)
		idx := p.FindItem(itemID)
		if idx < 0 {
			return ErrItemNotOwned
		}
		item = p.RemoveItem(idx)
		return nil
	}); err != nil {
		return nil, err
	}

	l := &model.Listing{
		SellerID:  sellerID,
		Item:      item,
		Price:     price,
		Currency:  currency,
		Status:    model.ListingListed,
		CreatedAt: s.now(),
	}
	if err := s.listings.Create(ctx, l); err != nil {
		return nil, err
	}

	metrics.RecordMarketListing()
	metrics.UpdateListingsOpen(s.listings.OpenCount(ctx))
	s.logger.Info(ctx, "item listed",
		logger.String("seller_id", sellerID),
		logger.String("item", item.Name),
		logger.Int("price", price),
	)
	return l, nil
}

// MarketListings returns the open listings, oldest first.
func (s *Service) MarketListings(ctx context.Context) []*model.Listing {
	return s.listings.Open(ctx)
}

// BuyMarketItem settles a purchase between buyer and seller. The listing
// record is the serialization point: its status flips to sold in the
// same critical section that moves funds and the item, so two buyers can
// never both win the same listing.
func (s *Service) BuyMarketItem(ctx context.Context, buyerID string, listingID int64) (*model.Listing, *model.Player, error) {
	var (
		buyer      *model.Player
		commission int
	)

	l, err := s.listings.Update(ctx, listingID, func(l *model.Listing) error {
		if l.Status != model.ListingListed {
			return ErrListingSold
		}
		if l.SellerID == buyerID {
			return ErrOwnListing
		}

		commission = market.Commission(l.Price, s.commissionPct)
		credit := market.SellerCredit(l.Price, s.commissionPct)

		var err error
		buyer, _, err = s.players.UpdatePair(ctx, buyerID, l.SellerID, func(b, seller *model.Player) error {
			s.applyEnergyRegen(b)
			if b.Balance(l.Currency) < l.Price {
				return ErrInsufficientFunds
			}
			b.Currencies[l.Currency] -= l.Price
			seller.Currencies[l.Currency] += credit
			b.Inventory = append(b.Inventory, l.Item)
			return nil
		})
		if err != nil {
			return err
		}

		now := s.now()
		l.Status = model.ListingSold
		l.BuyerID = buyerID
		l.SoldAt = &now
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.RecordMarketSale()
	metrics.AddMarketCommission(commission)
	metrics.UpdateListingsOpen(s.listings.OpenCount(ctx))

	s.notifyOnce(ctx, notify.Notification{
		Key:      notify.KindItemSold + ":" + l.SellerID + ":" + strconv.FormatInt(l.ID, 10),
		PlayerID: l.SellerID,
		Kind:     notify.KindItemSold,
		Message:  "Your " + l.Item.Name + " sold for " + strconv.Itoa(l.Price) + " " + string(l.Currency) + ".",
		At:       s.now(),
	})

	s.logger.Info(ctx, "listing sold",
		logger.String("buyer_id", buyerID),
		logger.String("seller_id", l.SellerID),
		logger.Int64("listing_id", l.ID),
		logger.Int("price", l.Price),
		logger.Int("commission", commission),
	)
	return l, buyer, nil
}

// QuickSellItem sells an owned item straight to the system for a floored
// percentage of its base price, skipping the listing step.
func (s *Service) QuickSellItem(ctx context.Context, playerID, itemID string) (*QuickSellOutcome, error) {
	credit := 0
	p, err := s.players.Update(ctx, playerID, func(p *model.Player) error {
		s.applyEnergyRegen(p)
		idx := p.FindItem(itemID)
		if idx < 0 {
			return ErrItemNotOwned
		}
		item := p.RemoveItem(idx)
		credit = market.QuickSellValue(item.BasePrice, s.quickSellPct)
		p.Currencies[model.CurrencyCoins] += credit
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMarketQuickSell()
	return &QuickSellOutcome{Credit: credit, Player: p}, nil
}

// Leaderboard returns up to limit rows ordered by arena rating, ties
// broken by registration order. Limits beyond the configured maximum are
// clamped rather than rejected.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]repository.Entry, error) {
	if limit < 1 {
		return nil, repository.ErrInvalidLimit
	}
	if limit > s.maxLeaderboard {
		limit = s.maxLeaderboard
	}
	return s.rating.TopN(ctx, limit)
}

// PlayerRank returns the leaderboard row for one player.
func (s *Service) PlayerRank(ctx context.Context, playerID string) (repository.Entry, error) {
	return s.rating.Rank(ctx, playerID)
}
