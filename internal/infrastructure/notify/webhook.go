package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookConfig configures the webhook notifier.
type WebhookConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// webhookPayload is the JSON body posted to the webhook.
type webhookPayload struct {
	Subject string    `json:"subject"`
	Text    string    `json:"text"`
	SentAt  time.Time `json:"sentAt"`
}

// Webhook posts alerts as JSON to an HTTP endpoint.
type Webhook struct {
	client *resty.Client
	url    string
}

// NewWebhook builds a resty-backed webhook notifier.
func NewWebhook(cfg WebhookConfig) *Webhook {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &Webhook{client: client, url: cfg.URL}
}

// Name implements Notifier.
func (w *Webhook) Name() string { return "webhook" }

// Notify implements Notifier.
func (w *Webhook) Notify(ctx context.Context, msg Message) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(webhookPayload{Subject: msg.Subject, Text: msg.Text, SentAt: time.Now().UTC()}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook error: status=%d, body=%s", resp.StatusCode(), resp.String())
	}
	return nil
}
