package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/database"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListWaitlist returns every signup, newest first, with a total count.
func ListWaitlist(c echo.Context) error {
	entries := []models.WaitlistEntry{}
	err := database.DB.SelectContext(c.Request().Context(), &entries,
		`SELECT * FROM waitlist_entries ORDER BY created_at DESC`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch waitlist"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"total":   len(entries),
		"entries": entries,
	})
}

type broadcastRequest struct {
	Message    string          `json:"message"`
	Recipients json.RawMessage `json:"recipients"`
}

// BroadcastSMS sends a message to every waitlist member or an explicit list
// of phone numbers. Recipients is either the string "all" or an array of
// numbers.
func BroadcastSMS(c echo.Context) error {
	var req broadcastRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	message := strings.TrimSpace(req.Message)
	if message == "" || len(message) > 1600 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message must be between 1 and 1600 characters"})
	}

	if !smsClient.Configured() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "SMS is not configured"})
	}

	ctx := c.Request().Context()

	var phones []string
	var all string
	if err := json.Unmarshal(req.Recipients, &all); err == nil && all == "all" {
		if err := database.DB.SelectContext(ctx, &phones,
			`SELECT phone FROM waitlist_entries`); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch recipients"})
		}
	} else if err := json.Unmarshal(req.Recipients, &phones); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Recipients must be \"all\" or a list of phone numbers"})
	}

	if len(phones) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No recipients"})
	}

	result := smsClient.SendBulk(ctx, phones, message)
	logger.Info("broadcast finished",
		zap.Int("successful", result.Successful), zap.Int("failed", result.Failed))

	return c.JSON(http.StatusOK, result)
}

// waitlistCSV renders the export. Every field is quoted, with embedded
// quotes doubled, so phone numbers and free-text sources survive any
// spreadsheet import.
func waitlistCSV(entries []models.WaitlistEntry) string {
	quote := func(s string) string {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}

	rows := make([]string, 0, len(entries)+1)
	rows = append(rows, strings.Join([]string{
		quote("id"), quote("phone"), quote("email"), quote("source"), quote("created_at"),
	}, ","))
	for _, e := range entries {
		email := ""
		if e.Email != nil {
			email = *e.Email
		}
		rows = append(rows, strings.Join([]string{
			quote(e.ID),
			quote(e.Phone),
			quote(email),
			quote(e.Source),
			quote(e.CreatedAt.UTC().Format(time.RFC3339)),
		}, ","))
	}
	return strings.Join(rows, "\n")
}

// ExportWaitlist snapshots the waitlist as CSV, uploads it to the backup
// bucket, and returns the CSV inline.
func ExportWaitlist(c echo.Context) error {
	ctx := c.Request().Context()

	entries := []models.WaitlistEntry{}
	err := database.DB.SelectContext(ctx, &entries,
		`SELECT * FROM waitlist_entries ORDER BY created_at ASC`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch waitlist"})
	}

	csv := waitlistCSV(entries)

	uploaded := ""
	if store.Configured() {
		stamp := strings.NewReplacer(":", "-", ".", "-").Replace(time.Now().UTC().Format(time.RFC3339))
		path := fmt.Sprintf("exports/waitlist_export_%s.csv", stamp)
		if err := store.Upload(ctx, path, "text/csv", []byte(csv)); err != nil {
			logger.Warn("waitlist export upload failed", zap.Error(err))
		} else {
			uploaded = path
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"total":    len(entries),
		"csv":      csv,
		"uploaded": uploaded,
	})
}

// ListBackups lists the stored waitlist backup and export objects.
func ListBackups(c echo.Context) error {
	if !store.Configured() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Storage is not configured"})
	}

	ctx := c.Request().Context()

	entries, err := store.List(ctx, "entries/")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list backups"})
	}
	exports, err := store.List(ctx, "exports/")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list backups"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"exports": exports,
	})
}

// DownloadBackup mints a one-hour signed URL for a stored object.
func DownloadBackup(c echo.Context) error {
	if !store.Configured() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Storage is not configured"})
	}

	file := c.QueryParam("file")
	if file == "" || strings.Contains(file, "..") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "A valid file path is required"})
	}

	url, err := store.SignedURL(c.Request().Context(), file, time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to sign download URL"})
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
