package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/xurxxo/termfolio/internal/database"
	"github.com/xurxxo/termfolio/internal/email"
)

const maxResponseBodyBytes = 1024

// ContactReceived is the event name of contact notifications.
const ContactReceived = "contact.received"

// Event is the JSON body of a webhook delivery.
type Event struct {
	Name      string         `json:"event"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// Client delivers signed events to one URL with retries. Attempts are
// recorded in webhook_deliveries when a database is set.
type Client struct {
	url         string
	secret      string
	db          database.DBTX
	http        *http.Client
	clock       clockwork.Clock
	retryDelays []time.Duration
}

type Option func(*Client)

// WithDeliveryLog records every attempt through db.
func WithDeliveryLog(db database.DBTX) Option {
	return func(c *Client) { c.db = db }
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

func New(url, secret string, opts ...Option) *Client {
	c := &Client{
		url:         url,
		secret:      secret,
		http:        &http.Client{Timeout: 10 * time.Second},
		clock:       clockwork.NewRealClock(),
		retryDelays: []time.Duration{1 * time.Second, 4 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignPayload computes HMAC-SHA256 of the payload using the secret.
func SignPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) SendContactMessage(ctx context.Context, msg email.ContactMessage) error {
	event := Event{
		Name:      ContactReceived,
		Timestamp: msg.ReceivedAt.UTC(),
		Data: map[string]any{
			"id":      msg.ID,
			"email":   msg.FromEmail,
			"message": msg.Body,
			"country": msg.Country,
		},
	}
	return c.Dispatch(ctx, msg.ID, event)
}

// Dispatch sends event with up to 1+len(retryDelays) attempts.
func (c *Client) Dispatch(ctx context.Context, messageID string, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	signature := SignPayload(c.secret, body)
	maxAttempts := 1 + len(c.retryDelays)
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		statusCode, respBody, err := c.doPost(ctx, body, signature)
		c.logDelivery(ctx, messageID, event.Name, body, statusCode, respBody, attempt)

		if err == nil && statusCode != nil && *statusCode >= 200 && *statusCode < 300 {
			return nil
		}

		if err != nil {
			lastErr = err
		} else if statusCode != nil {
			lastErr = fmt.Errorf("webhook returned status %d", *statusCode)
		}

		if attempt < maxAttempts {
			select {
			case <-c.clock.After(c.retryDelays[attempt-1]):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}

func (c *Client) doPost(ctx context.Context, body []byte, signature string) (*int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", signature)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err.Error(), err
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, _ := io.ReadAll(io.LimitReader(resp.Body, int64(maxResponseBodyBytes)+1))
	respBody := string(respBytes)
	if len(respBody) > maxResponseBodyBytes {
		respBody = respBody[:maxResponseBodyBytes]
	}

	return &resp.StatusCode, respBody, nil
}

func (c *Client) logDelivery(ctx context.Context, messageID, event string, payload []byte, statusCode *int, responseBody string, attempt int) {
	if c.db == nil {
		slog.Debug("webhook: delivery attempt", "message_id", messageID, "attempt", attempt, "status", statusCode)
		return
	}
	if _, err := c.db.Exec(ctx,
		`INSERT INTO webhook_deliveries (message_id, event, payload, status_code, response_body, attempt)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		messageID, event, payload, statusCode, responseBody, attempt,
	); err != nil {
		slog.Error("webhook: failed to log delivery", "message_id", messageID, "error", err)
	}
}
