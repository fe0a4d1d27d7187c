package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/database"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type addressRequest struct {
	Label                string  `json:"label"`
	Street               string  `json:"street"`
	Apt                  *string `json:"apt"`
	City                 string  `json:"city"`
	State                string  `json:"state"`
	Zip                  string  `json:"zip"`
	DeliveryInstructions *string `json:"delivery_instructions"`
	IsDefault            bool    `json:"is_default"`
}

func (r *addressRequest) validate() string {
	switch {
	case r.Label == "":
		return "Label is required"
	case r.Street == "":
		return "Street is required"
	case r.City == "":
		return "City is required"
	case r.State == "":
		return "State is required"
	case r.Zip == "":
		return "ZIP code is required"
	}
	return ""
}

func GetAddresses(c echo.Context) error {
	userID := c.Get("userID").(string)

	addresses := []models.SavedAddress{}
	err := database.DB.SelectContext(c.Request().Context(), &addresses,
		`SELECT * FROM saved_addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`,
		userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch addresses"})
	}

	return c.JSON(http.StatusOK, addresses)
}

// CreateAddress saves a delivery address. Marking it default clears the
// flag on the user's other addresses.
func CreateAddress(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	ctx := c.Request().Context()
	now := time.Now()
	address := models.SavedAddress{
		ID:                   uuid.New().String(),
		UserID:               userID,
		Label:                req.Label,
		Street:               req.Street,
		Apt:                  req.Apt,
		City:                 req.City,
		State:                req.State,
		Zip:                  req.Zip,
		DeliveryInstructions: req.DeliveryInstructions,
		IsDefault:            req.IsDefault,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	tx, err := database.DB.BeginTxx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save address"})
	}
	defer tx.Rollback()

	if req.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE saved_addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1`,
			userID); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save address"})
		}
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO saved_addresses (
			id, user_id, label, street, apt, city, state, zip,
			delivery_instructions, is_default, created_at, updated_at
		) VALUES (
			:id, :user_id, :label, :street, :apt, :city, :state, :zip,
			:delivery_instructions, :is_default, :created_at, :updated_at
		)`, address)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save address"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save address"})
	}

	return c.JSON(http.StatusCreated, address)
}

func UpdateAddress(c echo.Context) error {
	userID := c.Get("userID").(string)
	addressID := c.Param("id")
	if _, err := uuid.Parse(addressID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid address ID"})
	}

	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	ctx := c.Request().Context()

	tx, err := database.DB.BeginTxx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update address"})
	}
	defer tx.Rollback()

	if req.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE saved_addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND id <> $2`,
			userID, addressID); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update address"})
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE saved_addresses
		SET label = $1, street = $2, apt = $3, city = $4, state = $5, zip = $6,
		    delivery_instructions = $7, is_default = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10`,
		req.Label, req.Street, req.Apt, req.City, req.State, req.Zip,
		req.DeliveryInstructions, req.IsDefault, addressID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update address"})
	}
	if rows, err := result.RowsAffected(); err != nil || rows == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Address not found"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update address"})
	}

	var address models.SavedAddress
	err = database.DB.GetContext(ctx, &address,
		`SELECT * FROM saved_addresses WHERE id = $1`, addressID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Address not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update address"})
	}

	return c.JSON(http.StatusOK, address)
}

func DeleteAddress(c echo.Context) error {
	userID := c.Get("userID").(string)
	addressID := c.Param("id")
	if _, err := uuid.Parse(addressID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid address ID"})
	}

	result, err := database.DB.ExecContext(c.Request().Context(),
		`DELETE FROM saved_addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete address"})
	}
	if rows, err := result.RowsAffected(); err != nil || rows == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Address not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Address deleted"})
}
