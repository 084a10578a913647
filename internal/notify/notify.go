// Package notify delivers WhatsApp-style outage notifications through the
// Watzap send_message_group HTTP API. Transport mechanics (configurable
// timeout, client-side rate limiting) are adapted from the Flight Deck API
// client; the request/response contract and message content are grounded on
// the original monitor's watzap.py client and notification templates.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/pilot-net/fleetwatch/pkg/types"
)

// Config configures the notification transport.
type Config struct {
	WebhookURL string
	APIKey     string
	DeviceKey  string
	GroupIDs   []string
	Timeout    time.Duration
	RatePerMin int
}

// Client sends outage and recovery notifications to one or more WhatsApp
// groups through a single HTTP webhook.
type Client struct {
	webhookURL  string
	apiKey      string
	deviceKey   string
	groupIDs    []string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient builds a Client, logging a bcrypt fingerprint of the configured
// API key rather than the key itself; the device key is not logged.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	rateLimit := cfg.RatePerMin
	if rateLimit == 0 {
		rateLimit = 60
	}

	logger = logger.With("component", "notify")
	logger.Info("notification client configured",
		"webhook_url", cfg.WebhookURL,
		"api_key_fingerprint", fingerprint(cfg.APIKey),
		"group_count", len(cfg.GroupIDs))

	return &Client{
		webhookURL:  cfg.WebhookURL,
		apiKey:      cfg.APIKey,
		deviceKey:   cfg.DeviceKey,
		groupIDs:    cfg.GroupIDs,
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rateLimit)/60.0), 1),
		logger:      logger,
	}
}

// fingerprint renders a short bcrypt-derived fingerprint of a secret,
// cost 4 since this is a log-safe identifier, not a stored credential.
func fingerprint(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	sum, err := bcrypt.GenerateFromPassword([]byte(secret), 4)
	if err != nil {
		return "(error)"
	}
	if len(sum) > 12 {
		sum = sum[len(sum)-12:]
	}
	return string(sum)
}

// payload is the Watzap send_message_group request body: credentials travel
// in the JSON body alongside the target group and message, not in headers.
type payload struct {
	APIKey    string `json:"api_key"`
	NumberKey string `json:"number_key"`
	GroupID   string `json:"group_id"`
	Message   string `json:"message"`
}

// apiResponse is the Watzap response envelope. A transport-level failure is
// signalled by status "1001" or "1003", or ack "fatal_error" — the absence
// of a boolean success field means a 200 response body must still be
// inspected before treating the send as successful.
type apiResponse struct {
	Status  string `json:"status"`
	Ack     string `json:"ack,omitempty"`
	Message string `json:"message,omitempty"`
}

func (r apiResponse) failed() bool {
	return r.Status == "1001" || r.Status == "1003" || r.Ack == "fatal_error"
}

// send posts a message to every configured group, returning the first
// transport or API error encountered. Per policy, a failed send is not
// retried within the same cycle — the next cycle will try again.
func (c *Client) send(ctx context.Context, message string) error {
	var firstErr error
	for _, group := range c.groupIDs {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("notify: rate limiter: %w", err)
		}
		if err := c.post(ctx, group, message); err != nil {
			c.logger.Error("notification send failed", "group_id", group, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		c.logger.Info("notification sent", "group_id", group)
	}
	return firstErr
}

func (c *Client) post(ctx context.Context, groupID, message string) error {
	body, err := json.Marshal(payload{
		APIKey:    c.apiKey,
		NumberKey: c.deviceKey,
		GroupID:   groupID,
		Message:   message,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	endpoint := strings.TrimRight(c.webhookURL, "/") + "/send_message_group"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if parsed.failed() {
		return fmt.Errorf("watzap reported failure: status=%s ack=%s message=%s", parsed.Status, parsed.Ack, parsed.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(data))
	}
	return nil
}

// Send delivers an arbitrary pre-formatted message, satisfying
// shift.Sender for the shift-digest delivery path.
func (c *Client) Send(ctx context.Context, message string) error {
	return c.send(ctx, message)
}

// NotifyDown sends an outage alert for a device.
func (c *Client) NotifyDown(ctx context.Context, d types.Device, firstFailedAt time.Time) error {
	return c.send(ctx, downMessage(d, firstFailedAt))
}

// NotifyRecovered sends a recovery notice for a device.
func (c *Client) NotifyRecovered(ctx context.Context, d types.Device, recoveredAt time.Time) error {
	return c.send(ctx, recoveredMessage(d, recoveredAt))
}
