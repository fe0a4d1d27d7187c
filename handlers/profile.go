package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/dankdeals/dankdeals-backend-go/database"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/dankdeals/dankdeals-backend-go/utils"
	"github.com/labstack/echo/v4"
)

// GetUserProfile retrieves the authenticated user's profile
func GetUserProfile(c echo.Context) error {
	userID := c.Get("userID").(string)

	var profile models.Profile
	err := database.DB.GetContext(c.Request().Context(), &profile,
		`SELECT * FROM profiles WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch profile"})
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateUserProfile updates name, phone and notification preferences
func UpdateUserProfile(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req struct {
		FullName          *string `json:"full_name"`
		Phone             *string `json:"phone"`
		NotificationEmail *bool   `json:"notification_email"`
		NotificationSMS   *bool   `json:"notification_sms"`
		MarketingEmails   *bool   `json:"marketing_emails"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if req.Phone != nil && *req.Phone != "" && !utils.ValidatePhoneNumber(*req.Phone) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please enter a valid phone number"})
	}

	_, err := database.DB.ExecContext(c.Request().Context(), `
		UPDATE profiles SET
			full_name          = COALESCE($2, full_name),
			phone              = COALESCE($3, phone),
			notification_email = COALESCE($4, notification_email),
			notification_sms   = COALESCE($5, notification_sms),
			marketing_emails   = COALESCE($6, marketing_emails),
			updated_at         = NOW()
		WHERE id = $1`,
		userID, req.FullName, req.Phone, req.NotificationEmail, req.NotificationSMS, req.MarketingEmails)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update profile"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}
