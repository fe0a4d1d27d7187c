package models

import (
	"strings"
	"time"
)

type WaitlistEntry struct {
	ID        string    `db:"id" json:"id"`
	Phone     string    `db:"phone" json:"phone"`
	Email     *string   `db:"email" json:"email"`
	Source    string    `db:"source" json:"source"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type PromoCode struct {
	ID             string       `db:"id" json:"id"`
	Code           string       `db:"code" json:"code"`
	DiscountType   DiscountType `db:"discount_type" json:"discount_type"`
	DiscountValue  float64      `db:"discount_value" json:"discount_value"`
	MinOrderAmount *float64     `db:"min_order_amount" json:"min_order_amount"`
	MaxUses        *int         `db:"max_uses" json:"max_uses"`
	CurrentUses    int          `db:"current_uses" json:"current_uses"`
	ExpiresAt      *time.Time   `db:"expires_at" json:"expires_at"`
	IsActive       bool         `db:"is_active" json:"is_active"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

type DeliveryZone struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Suburbs          StringList `db:"suburbs" json:"suburbs"`
	DeliveryFee      float64    `db:"delivery_fee" json:"delivery_fee"`
	MinOrder         float64    `db:"min_order" json:"min_order"`
	EstimatedMinutes int        `db:"estimated_minutes" json:"estimated_minutes"`
	IsActive         bool       `db:"is_active" json:"is_active"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// Matches reports whether the zone covers the given city/suburb name,
// compared case-insensitively.
func (z *DeliveryZone) Matches(city string) bool {
	for _, s := range z.Suburbs {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(city)) {
			return true
		}
	}
	return false
}
