package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/database"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// QuoteDeliveryFee reports whether a city is served and what delivery
// costs there. Public so the storefront can quote before checkout.
func QuoteDeliveryFee(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city"))
	if city == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "City is required"})
	}

	zone, err := matchZone(c.Request().Context(), city)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to check delivery area"})
	}
	if zone == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"served": false})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"served":            true,
		"zone":              zone.Name,
		"delivery_fee":      zone.DeliveryFee,
		"min_order":         zone.MinOrder,
		"estimated_minutes": zone.EstimatedMinutes,
	})
}

func ListZones(c echo.Context) error {
	zones := []models.DeliveryZone{}
	err := database.DB.SelectContext(c.Request().Context(), &zones,
		`SELECT * FROM delivery_zones ORDER BY name ASC`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch delivery zones"})
	}

	return c.JSON(http.StatusOK, zones)
}

type zoneRequest struct {
	Name             string            `json:"name"`
	Suburbs          models.StringList `json:"suburbs"`
	DeliveryFee      float64           `json:"delivery_fee"`
	MinOrder         float64           `json:"min_order"`
	EstimatedMinutes int               `json:"estimated_minutes"`
	IsActive         bool              `json:"is_active"`
}

func (r *zoneRequest) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	switch {
	case r.Name == "":
		return "Name is required"
	case len(r.Suburbs) == 0:
		return "At least one suburb is required"
	case r.DeliveryFee < 0:
		return "Delivery fee cannot be negative"
	case r.MinOrder < 0:
		return "Minimum order cannot be negative"
	case r.EstimatedMinutes < 0:
		return "Estimated minutes cannot be negative"
	}
	if r.EstimatedMinutes == 0 {
		r.EstimatedMinutes = 60
	}
	return ""
}

func CreateZone(c echo.Context) error {
	var req zoneRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	zone := models.DeliveryZone{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Suburbs:          req.Suburbs,
		DeliveryFee:      req.DeliveryFee,
		MinOrder:         req.MinOrder,
		EstimatedMinutes: req.EstimatedMinutes,
		IsActive:         req.IsActive,
		CreatedAt:        time.Now(),
	}

	_, err := database.DB.NamedExecContext(c.Request().Context(), `
		INSERT INTO delivery_zones (id, name, suburbs, delivery_fee, min_order, estimated_minutes, is_active, created_at)
		VALUES (:id, :name, :suburbs, :delivery_fee, :min_order, :estimated_minutes, :is_active, :created_at)`,
		zone)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create delivery zone"})
	}

	return c.JSON(http.StatusCreated, zone)
}

func UpdateZone(c echo.Context) error {
	zoneID := c.Param("id")
	if _, err := uuid.Parse(zoneID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid zone ID"})
	}

	var req zoneRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	ctx := c.Request().Context()

	result, err := database.DB.ExecContext(ctx, `
		UPDATE delivery_zones
		SET name = $1, suburbs = $2, delivery_fee = $3, min_order = $4, estimated_minutes = $5, is_active = $6
		WHERE id = $7`,
		req.Name, req.Suburbs, req.DeliveryFee, req.MinOrder, req.EstimatedMinutes, req.IsActive, zoneID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update delivery zone"})
	}
	if rows, err := result.RowsAffected(); err != nil || rows == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Delivery zone not found"})
	}

	var zone models.DeliveryZone
	if err := database.DB.GetContext(ctx, &zone,
		`SELECT * FROM delivery_zones WHERE id = $1`, zoneID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update delivery zone"})
	}

	return c.JSON(http.StatusOK, zone)
}
