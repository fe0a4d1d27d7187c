// Package storage is a minimal client for the hosted object storage HTTP
// API used for waitlist backups.
package storage

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

type Client struct {
	cfg        config.StorageConfig
	httpClient *http.Client
}

func NewClient(cfg config.StorageConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.cfg.BaseURL != "" && c.cfg.ServiceKey != ""
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("storage error: %d %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// Upload writes an object into the backup bucket.
func (c *Client) Upload(ctx context.Context, path, contentType string, data []byte) error {
	if !c.Configured() {
		return errors.New("storage not configured")
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.cfg.BaseURL, c.cfg.Bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	_, err = c.do(req)
	return err
}

// FileInfo describes one stored object.
type FileInfo struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	Size      int64  `json:"size"`
}

type listedObject struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	Metadata  struct {
		Size int64 `json:"size"`
	} `json:"metadata"`
}

// List returns the objects under a prefix, newest first.
func (c *Client) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	if !c.Configured() {
		return nil, errors.New("storage not configured")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"prefix": prefix,
		"sortBy": map[string]string{"column": "created_at", "order": "desc"},
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/list/%s", c.cfg.BaseURL, c.cfg.Bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var objects []listedObject
	if err := json.Unmarshal(body, &objects); err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0, len(objects))
	for _, o := range objects {
		files = append(files, FileInfo{Name: o.Name, CreatedAt: o.CreatedAt, Size: o.Metadata.Size})
	}
	return files, nil
}

// SignedURL mints a time-limited download URL for an object.
func (c *Client) SignedURL(ctx context.Context, path string, expiresIn time.Duration) (string, error) {
	if !c.Configured() {
		return "", errors.New("storage not configured")
	}

	payload, err := json.Marshal(map[string]int{"expiresIn": int(expiresIn.Seconds())})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", c.cfg.BaseURL, c.cfg.Bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.Unmarshal(body, &signed); err != nil {
		return "", err
	}
	return c.cfg.BaseURL + "/storage/v1" + signed.SignedURL, nil
}
