package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/dankdeals/dankdeals-backend-go/pricing"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dankdeals/dankdeals-backend-go/database"
)

type validatePromoRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

// ValidatePromo checks a code against a cart subtotal and returns the
// discount it would grant. The authoritative check happens again at
// checkout.
func ValidatePromo(c echo.Context) error {
	var req validatePromoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Promo code is required"})
	}
	if req.Subtotal < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid subtotal"})
	}

	promo, err := fetchPromo(c.Request().Context(), req.Code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to validate promo code"})
	}
	if promo == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Unknown promo code"})
	}

	discount, err := pricing.PromoDiscount(promo, pricing.Round2(req.Subtotal), time.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":     promo.Code,
		"discount": discount,
	})
}

func ListPromos(c echo.Context) error {
	promos := []models.PromoCode{}
	err := database.DB.SelectContext(c.Request().Context(), &promos,
		`SELECT * FROM promo_codes ORDER BY created_at DESC`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch promo codes"})
	}

	return c.JSON(http.StatusOK, promos)
}

type promoRequest struct {
	Code           string              `json:"code"`
	DiscountType   models.DiscountType `json:"discount_type"`
	DiscountValue  float64             `json:"discount_value"`
	MinOrderAmount *float64            `json:"min_order_amount"`
	MaxUses        *int                `json:"max_uses"`
	ExpiresAt      *time.Time          `json:"expires_at"`
	IsActive       bool                `json:"is_active"`
}

func (r *promoRequest) validate() string {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	switch {
	case r.Code == "":
		return "Code is required"
	case r.DiscountType != models.DiscountPercentage && r.DiscountType != models.DiscountFixed:
		return "Discount type must be percentage or fixed"
	case r.DiscountValue <= 0:
		return "Discount value must be positive"
	case r.DiscountType == models.DiscountPercentage && r.DiscountValue > 100:
		return "Percentage discount cannot exceed 100"
	case r.MinOrderAmount != nil && *r.MinOrderAmount < 0:
		return "Minimum order amount cannot be negative"
	case r.MaxUses != nil && *r.MaxUses <= 0:
		return "Max uses must be positive"
	}
	return ""
}

func CreatePromo(c echo.Context) error {
	var req promoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	ctx := c.Request().Context()

	var exists bool
	err := database.DB.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM promo_codes WHERE code = $1)`, req.Code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create promo code"})
	}
	if exists {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Promo code already exists"})
	}

	promo := models.PromoCode{
		ID:             uuid.New().String(),
		Code:           req.Code,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       req.IsActive,
		CreatedAt:      time.Now(),
	}

	_, err = database.DB.NamedExecContext(ctx, `
		INSERT INTO promo_codes (
			id, code, discount_type, discount_value, min_order_amount,
			max_uses, current_uses, expires_at, is_active, created_at
		) VALUES (
			:id, :code, :discount_type, :discount_value, :min_order_amount,
			:max_uses, 0, :expires_at, :is_active, :created_at
		)`, promo)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create promo code"})
	}

	return c.JSON(http.StatusCreated, promo)
}

func UpdatePromo(c echo.Context) error {
	promoID := c.Param("id")
	if _, err := uuid.Parse(promoID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid promo code ID"})
	}

	var req promoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	ctx := c.Request().Context()

	result, err := database.DB.ExecContext(ctx, `
		UPDATE promo_codes
		SET code = $1, discount_type = $2, discount_value = $3, min_order_amount = $4,
		    max_uses = $5, expires_at = $6, is_active = $7
		WHERE id = $8`,
		req.Code, req.DiscountType, req.DiscountValue, req.MinOrderAmount,
		req.MaxUses, req.ExpiresAt, req.IsActive, promoID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update promo code"})
	}
	if rows, err := result.RowsAffected(); err != nil || rows == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Promo code not found"})
	}

	var promo models.PromoCode
	if err := database.DB.GetContext(ctx, &promo,
		`SELECT * FROM promo_codes WHERE id = $1`, promoID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update promo code"})
	}

	return c.JSON(http.StatusOK, promo)
}
