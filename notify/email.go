package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/config"
)

// EmailClient talks to the Resend transactional email API.
type EmailClient struct {
	cfg        config.ResendConfig
	httpClient *http.Client
	baseURL    string
}

func NewEmailClient(cfg config.ResendConfig) *EmailClient {
	return &EmailClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://api.resend.com",
	}
}

func (c *EmailClient) Configured() bool {
	return c.cfg.APIKey != ""
}

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers one HTML email.
func (c *EmailClient) Send(ctx context.Context, to, subject, html string) error {
	if !c.Configured() {
		return errors.New("resend not configured")
	}

	body, err := json.Marshal(emailPayload{
		From:    c.cfg.FromEmail,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("resend error: %d %s", resp.StatusCode, string(respBody))
	}
	return nil
}
