// Package notify delivers trigger events to an optional webhook.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gazekit/gazescroll/internal/httpc"
)

// Webhook posts trigger events as JSON to a configured URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook notifier. The URL typically comes from an
// environment variable so it stays out of config files.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: httpc.Client,
	}
}

// SetClient overrides the HTTP client, for tests.
func (w *Webhook) SetClient(c *http.Client) {
	w.client = c
}

// Send posts v as a JSON body. A non-2xx response is an error.
func (w *Webhook) Send(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("webhook: encode payload: %w", err)
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}
