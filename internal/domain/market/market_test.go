package market

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pixelarena/internal/domain/model"
)

func TestCommission(t *testing.T) {
	Convey("Commission is floored and the seller gets the remainder", t, func() {
		cases := []struct {
			price      int
			commission int
		}{
			{100, 5},
			{101, 5},
			{119, 5},
			{120, 6},
			{1, 0},
			{19, 0},
			{20, 1},
		}
		for _, c := range cases {
			So(Commission(c.price, DefaultCommissionPct), ShouldEqual, c.commission)
			So(SellerCredit(c.price, DefaultCommissionPct)+Commission(c.price, DefaultCommissionPct), ShouldEqual, c.price)
		}
	})
}

func TestQuickSellValue(t *testing.T) {
	Convey("Quick-sell pays a floored percentage of the base price", t, func() {
		So(QuickSellValue(150, DefaultQuickSellPct), ShouldEqual, 120)
		So(QuickSellValue(40, DefaultQuickSellPct), ShouldEqual, 32)
		So(QuickSellValue(1, DefaultQuickSellPct), ShouldEqual, 0)
		So(QuickSellValue(99, DefaultQuickSellPct), ShouldEqual, 79)
	})
}

func TestCatalog(t *testing.T) {
	Convey("Given the shop catalog", t, func() {
		items := Catalog()

		Convey("Then it lists the three items in a stable order", func() {
			So(items, ShouldHaveLength, 3)
			So(items[0].ID, ShouldEqual, ShopTicketPack)
			So(items[1].ID, ShouldEqual, ShopEnergyRefill)
			So(items[2].ID, ShouldEqual, ShopAttackBoost)
		})

		Convey("Then the ticket pack accepts both currencies", func() {
			it, err := Lookup(ShopTicketPack)
			So(err, ShouldBeNil)

			p, err := it.Price(model.CurrencyPremium)
			So(err, ShouldBeNil)
			So(p, ShouldEqual, 10)

			p, err = it.Price(model.CurrencyCoins)
			So(err, ShouldBeNil)
			So(p, ShouldEqual, 200)
		})

		Convey("Then the attack boost rejects premium currency", func() {
			it, err := Lookup(ShopAttackBoost)
			So(err, ShouldBeNil)

			_, err = it.Price(model.CurrencyPremium)
			So(err, ShouldEqual, ErrCurrencyNotAccepted)
		})

		Convey("Then an unknown item is rejected", func() {
			_, err := Lookup("mystery_box")
			So(err, ShouldEqual, ErrUnknownShopItem)
		})
	})
}
