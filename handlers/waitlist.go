package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/database"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/dankdeals/dankdeals-backend-go/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type joinWaitlistRequest struct {
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Source string `json:"source"`
}

// JoinWaitlist records a signup keyed by phone number. Re-joining with the
// same phone refreshes the entry instead of failing.
func JoinWaitlist(c echo.Context) error {
	var req joinWaitlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if !utils.ValidatePhoneNumber(req.Phone) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "A valid phone number is required"})
	}
	phone := utils.ToE164(req.Phone)

	email := strings.TrimSpace(req.Email)
	if email != "" && !isValidEmail(email) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid email address"})
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "website"
	}

	entry := models.WaitlistEntry{
		ID:        uuid.New().String(),
		Phone:     phone,
		Source:    source,
		CreatedAt: time.Now(),
	}
	if email != "" {
		entry.Email = &email
	}

	_, err := database.DB.NamedExecContext(c.Request().Context(), `
		INSERT INTO waitlist_entries (id, phone, email, source, created_at)
		VALUES (:id, :phone, :email, :source, :created_at)
		ON CONFLICT (phone) DO UPDATE
		SET email = COALESCE(EXCLUDED.email, waitlist_entries.email),
		    source = EXCLUDED.source`, entry)
	if err != nil {
		logger.Error("failed to save waitlist entry", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to join waitlist"})
	}

	publisher.WaitlistJoined(c.Request().Context(), phone)
	go backupWaitlistEntry(entry)

	return c.JSON(http.StatusCreated, map[string]string{"message": "You're on the list"})
}

// backupWaitlistEntry writes a JSON copy of the entry to object storage.
// Best effort; the signup already succeeded.
func backupWaitlistEntry(entry models.WaitlistEntry) {
	if store == nil || !store.Configured() {
		return
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, entry.Phone)
	path := "entries/" + entry.CreatedAt.UTC().Format("20060102T150405") + "_" + digits + ".json"

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := store.Upload(ctx, path, "application/json", body); err != nil {
		logger.Warn("waitlist backup upload failed", zap.String("path", path), zap.Error(err))
	}
}
