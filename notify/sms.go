package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/config"
	"github.com/dankdeals/dankdeals-backend-go/utils"
)

// SMSClient talks to the Twilio Messages REST API.
type SMSClient struct {
	cfg        config.TwilioConfig
	httpClient *http.Client
	baseURL    string
}

func NewSMSClient(cfg config.TwilioConfig) *SMSClient {
	return &SMSClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://api.twilio.com",
	}
}

// Configured reports whether SMS credentials are present. Sends are skipped
// when they are not, matching the rest of the notification pipeline's
// best-effort behavior.
func (c *SMSClient) Configured() bool {
	return c.cfg.AccountSID != "" && c.cfg.AuthToken != "" && c.cfg.FromNumber != ""
}

// Send delivers one SMS. The number is normalized to E.164 first.
func (c *SMSClient) Send(ctx context.Context, to, message string) error {
	if !c.Configured() {
		return errors.New("twilio not configured")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.cfg.AccountSID)
	form := url.Values{
		"To":   {utils.ToE164(to)},
		"From": {c.cfg.FromNumber},
		"Body": {message},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("twilio error: %d %s", resp.StatusCode, string(body))
	}
	return nil
}

// BulkResult tallies a broadcast.
type BulkResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

// SendBulk sends the same message to every recipient, deduplicated, and
// keeps going past individual failures.
func (c *SMSClient) SendBulk(ctx context.Context, recipients []string, message string) BulkResult {
	seen := make(map[string]bool, len(recipients))
	result := BulkResult{Errors: []string{}}

	for _, raw := range recipients {
		phone := strings.TrimSpace(raw)
		if phone == "" || seen[phone] {
			continue
		}
		seen[phone] = true
		result.Total++

		if err := c.Send(ctx, phone, message); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Successful++
	}
	return result
}
