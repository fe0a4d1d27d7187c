package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/models"
)

func TestWaitlistCSVHeaderOnly(t *testing.T) {
	csv := waitlistCSV(nil)
	if csv != `"id","phone","email","source","created_at"` {
		t.Errorf("header = %q", csv)
	}
}

func TestWaitlistCSVQuotesEveryField(t *testing.T) {
	email := "jane@example.com"
	entries := []models.WaitlistEntry{
		{
			ID:        "e1",
			Phone:     "+16125551234",
			Email:     &email,
			Source:    "website",
			CreatedAt: time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "e2",
			Phone:     "+16125555678",
			Source:    `promo "june"`,
			CreatedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		},
	}

	csv := waitlistCSV(entries)
	lines := strings.Split(csv, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	if lines[1] != `"e1","+16125551234","jane@example.com","website","2025-06-14T12:00:00Z"` {
		t.Errorf("row 1 = %q", lines[1])
	}

	// missing email renders as an empty quoted field; embedded quotes double
	if lines[2] != `"e2","+16125555678","","promo ""june""","2025-06-15T12:00:00Z"` {
		t.Errorf("row 2 = %q", lines[2])
	}
}
