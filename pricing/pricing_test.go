package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/models"
)

func product(id string, price float64, stock int) *models.Product {
	return &models.Product{
		ID:       id,
		Title:    "Product " + id,
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
}

func defaultOpts() Options {
	return Options{
		SalesTaxRate:  0.06875,
		ExciseTaxRate: 0.10,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPriceOrderTotals(t *testing.T) {
	// $12.99 x 2 with both tax rates: subtotal 25.98, tax rounds to 4.38.
	products := map[string]*models.Product{"p1": product("p1", 12.99, 10)}
	opts := defaultOpts()
	opts.DeliveryFee = 5
	opts.Tip = 3

	totals, err := PriceOrder([]Line{{ProductID: "p1", Quantity: 2}}, products, opts)
	if err != nil {
		t.Fatalf("PriceOrder: %v", err)
	}
	if !almostEqual(totals.Subtotal, 25.98) {
		t.Errorf("subtotal = %v, want 25.98", totals.Subtotal)
	}
	if !almostEqual(totals.Tax, 4.38) {
		t.Errorf("tax = %v, want 4.38", totals.Tax)
	}
	if !almostEqual(totals.Total, 25.98+4.38+5+3) {
		t.Errorf("total = %v, want %v", totals.Total, 25.98+4.38+5+3)
	}
}

func TestPriceOrderIgnoresClientPrice(t *testing.T) {
	// The line carries no price field at all; totals come from the stored
	// price regardless of what the client computed.
	products := map[string]*models.Product{"p1": product("p1", 40, 5)}
	totals, err := PriceOrder([]Line{{ProductID: "p1", Quantity: 1}}, products, defaultOpts())
	if err != nil {
		t.Fatalf("PriceOrder: %v", err)
	}
	if !almostEqual(totals.Subtotal, 40) {
		t.Errorf("subtotal = %v, want 40", totals.Subtotal)
	}
	if len(totals.Items) != 1 || !almostEqual(totals.Items[0].PriceAtPurchase, 40) {
		t.Errorf("item snapshot price = %+v, want 40", totals.Items)
	}
}

func TestPriceOrderGuards(t *testing.T) {
	products := map[string]*models.Product{
		"p1": product("p1", 10, 3),
		"p2": {ID: "p2", Title: "Inactive", Price: 10, Stock: 10, IsActive: false},
	}

	cases := []struct {
		name  string
		lines []Line
	}{
		{"empty order", nil},
		{"unknown product", []Line{{ProductID: "missing", Quantity: 1}}},
		{"inactive product", []Line{{ProductID: "p2", Quantity: 1}}},
		{"zero quantity", []Line{{ProductID: "p1", Quantity: 0}}},
		{"negative quantity", []Line{{ProductID: "p1", Quantity: -2}}},
		{"quantity over cap", []Line{{ProductID: "p1", Quantity: 101}}},
		{"quantity over stock", []Line{{ProductID: "p1", Quantity: 4}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PriceOrder(tc.lines, products, defaultOpts())
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if _, ok := err.(*ValidationError); !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestPriceOrderLineCap(t *testing.T) {
	products := map[string]*models.Product{"p1": product("p1", 1, 1000)}
	lines := make([]Line, MaxOrderLines+1)
	for i := range lines {
		lines[i] = Line{ProductID: "p1", Quantity: 1}
	}
	if _, err := PriceOrder(lines, products, defaultOpts()); err == nil {
		t.Fatal("expected rejection above the line cap")
	}
}

func TestClampTip(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-5, 0},
		{0, 0},
		{999.99, 999.99},
		{1000, 1000},
		{1500, 1000},
	}
	for _, tc := range cases {
		if got := ClampTip(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("ClampTip(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNegativeDeliveryFeeClamped(t *testing.T) {
	products := map[string]*models.Product{"p1": product("p1", 10, 10)}
	opts := defaultOpts()
	opts.DeliveryFee = -7

	totals, err := PriceOrder([]Line{{ProductID: "p1", Quantity: 1}}, products, opts)
	if err != nil {
		t.Fatalf("PriceOrder: %v", err)
	}
	if totals.DeliveryFee != 0 {
		t.Errorf("delivery fee = %v, want 0", totals.DeliveryFee)
	}
}

func TestPromoDiscount(t *testing.T) {
	products := map[string]*models.Product{"p1": product("p1", 100, 10)}
	min := 50.0

	t.Run("percentage reduces taxable base", func(t *testing.T) {
		opts := defaultOpts()
		opts.Promo = &models.PromoCode{
			Code:           "TEN",
			DiscountType:   models.DiscountPercentage,
			DiscountValue:  10,
			MinOrderAmount: &min,
			IsActive:       true,
		}
		totals, err := PriceOrder([]Line{{ProductID: "p1", Quantity: 1}}, products, opts)
		if err != nil {
			t.Fatalf("PriceOrder: %v", err)
		}
		if !almostEqual(totals.Discount, 10) {
			t.Errorf("discount = %v, want 10", totals.Discount)
		}
		// tax on 90, not 100
		if !almostEqual(totals.Tax, Round2(90*0.16875)) {
			t.Errorf("tax = %v, want %v", totals.Tax, Round2(90*0.16875))
		}
	})

	t.Run("fixed discount capped at subtotal", func(t *testing.T) {
		opts := defaultOpts()
		opts.Promo = &models.PromoCode{
			Code:          "BIG",
			DiscountType:  models.DiscountFixed,
			DiscountValue: 500,
			IsActive:      true,
		}
		totals, err := PriceOrder([]Line{{ProductID: "p1", Quantity: 1}}, products, opts)
		if err != nil {
			t.Fatalf("PriceOrder: %v", err)
		}
		if !almostEqual(totals.Discount, 100) {
			t.Errorf("discount = %v, want capped at 100", totals.Discount)
		}
		if totals.Tax != 0 {
			t.Errorf("tax = %v, want 0 on fully discounted order", totals.Tax)
		}
	})

	t.Run("expired promo rejected", func(t *testing.T) {
		expired := time.Now().Add(-time.Hour)
		opts := defaultOpts()
		opts.Promo = &models.PromoCode{
			Code:          "OLD",
			DiscountType:  models.DiscountFixed,
			DiscountValue: 5,
			ExpiresAt:     &expired,
			IsActive:      true,
		}
		if _, err := PriceOrder([]Line{{ProductID: "p1", Quantity: 1}}, products, opts); err == nil {
			t.Fatal("expected expired promo to be rejected")
		}
	})

	t.Run("exhausted promo rejected", func(t *testing.T) {
		maxUses := 3
		opts := defaultOpts()
		opts.Promo = &models.PromoCode{
			Code:          "FULL",
			DiscountType:  models.DiscountFixed,
			DiscountValue: 5,
			MaxUses:       &maxUses,
			CurrentUses:   3,
			IsActive:      true,
		}
		if _, err := PriceOrder([]Line{{ProductID: "p1", Quantity: 1}}, products, opts); err == nil {
			t.Fatal("expected exhausted promo to be rejected")
		}
	})
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{4.3841249, 4.38},
		{4.385, 4.39},
		{0, 0},
		{25.98, 25.98},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
