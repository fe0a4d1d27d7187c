// Package pricing recomputes order totals from authoritative product rows.
// Client-supplied prices and totals are never consulted.
package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/models"
)

const (
	MaxOrderLines   = 50
	MaxLineQuantity = 100
	MaxTip          = 1000
)

// Line is a client-submitted order line. Only the product id and quantity
// are trusted as input; everything else is looked up server-side.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Options carries the per-order knobs that feed into the total.
type Options struct {
	SalesTaxRate  float64
	ExciseTaxRate float64
	DeliveryFee   float64
	Tip           float64
	Promo         *models.PromoCode
	Now           time.Time
}

// Totals is the authoritative pricing result, every field rounded to cents.
type Totals struct {
	Subtotal    float64
	Discount    float64
	Tax         float64
	DeliveryFee float64
	Tip         float64
	Total       float64
	Items       []models.OrderItem
}

// ValidationError marks a guard failure that should map to a 400 response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Round2 rounds a monetary amount to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ClampTip bounds a tip to [0, MaxTip]. Out-of-range values are clamped,
// not rejected.
func ClampTip(tip float64) float64 {
	if tip < 0 {
		return 0
	}
	if tip > MaxTip {
		return MaxTip
	}
	return tip
}

// PriceOrder validates the submitted lines against the fetched product rows
// and produces the order totals. Any guard failure returns a
// *ValidationError and no partial result.
func PriceOrder(lines []Line, products map[string]*models.Product, opts Options) (*Totals, error) {
	if len(lines) == 0 {
		return nil, invalid("order must contain at least one item")
	}
	if len(lines) > MaxOrderLines {
		return nil, invalid("order exceeds the maximum of %d line items", MaxOrderLines)
	}

	subtotal := 0.0
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, invalid("unknown product %s", line.ProductID)
		}
		if !product.IsActive {
			return nil, invalid("product %q is no longer available", product.Title)
		}
		if line.Quantity <= 0 {
			return nil, invalid("invalid quantity for %q", product.Title)
		}
		if line.Quantity > MaxLineQuantity {
			return nil, invalid("quantity for %q exceeds the maximum of %d", product.Title, MaxLineQuantity)
		}
		if line.Quantity > product.Stock {
			return nil, invalid("insufficient stock for %q", product.Title)
		}

		subtotal += product.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID:       product.ID,
			Quantity:        line.Quantity,
			PriceAtPurchase: product.Price,
			ProductTitle:    product.Title,
		})
	}

	subtotal = Round2(subtotal)

	discount, err := PromoDiscount(opts.Promo, subtotal, opts.Now)
	if err != nil {
		return nil, err
	}

	taxable := math.Max(0, subtotal-discount)
	tax := Round2(taxable * (opts.SalesTaxRate + opts.ExciseTaxRate))

	fee := opts.DeliveryFee
	if fee < 0 {
		fee = 0
	}
	fee = Round2(fee)
	tip := Round2(ClampTip(opts.Tip))

	return &Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		Tax:         tax,
		DeliveryFee: fee,
		Tip:         tip,
		Total:       Round2(taxable + tax + fee + tip),
		Items:       items,
	}, nil
}

// PromoDiscount validates the promo against the subtotal and returns the
// discount amount, capped at the subtotal.
func PromoDiscount(promo *models.PromoCode, subtotal float64, now time.Time) (float64, error) {
	if promo == nil {
		return 0, nil
	}
	if now.IsZero() {
		now = time.Now()
	}
	if !promo.IsActive {
		return 0, invalid("promo code %s is not active", promo.Code)
	}
	if promo.ExpiresAt != nil && now.After(*promo.ExpiresAt) {
		return 0, invalid("promo code %s has expired", promo.Code)
	}
	if promo.MaxUses != nil && promo.CurrentUses >= *promo.MaxUses {
		return 0, invalid("promo code %s has reached its usage limit", promo.Code)
	}
	if promo.MinOrderAmount != nil && subtotal < *promo.MinOrderAmount {
		return 0, invalid("promo code %s requires a minimum order of $%.2f", promo.Code, *promo.MinOrderAmount)
	}

	var discount float64
	switch promo.DiscountType {
	case models.DiscountPercentage:
		discount = subtotal * promo.DiscountValue / 100
	case models.DiscountFixed:
		discount = promo.DiscountValue
	default:
		return 0, invalid("promo code %s has an unknown discount type", promo.Code)
	}

	if discount > subtotal {
		discount = subtotal
	}
	return Round2(discount), nil
}
