package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Config points the client at a listmonk instance. With an empty BaseURL
// messages are only logged.
type Config struct {
	BaseURL    string
	Username   string
	Password   string
	TemplateID int
	OwnerEmail string
}

type Client struct {
	config Config
	http   *http.Client
}

func New(cfg Config) *Client {
	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// ContactMessage is a visitor's message as forwarded to the site owner.
type ContactMessage struct {
	ID         string
	FromEmail  string
	Body       string
	Country    string
	ReceivedAt time.Time
}

type txRequest struct {
	SubscriberEmail string            `json:"subscriber_email"`
	TemplateID      int               `json:"template_id"`
	Data            map[string]string `json:"data"`
	ContentType     string            `json:"content_type"`
}

// SendContactMessage forwards msg to the configured owner address.
func (c *Client) SendContactMessage(ctx context.Context, msg ContactMessage) error {
	if c.config.BaseURL == "" || c.config.OwnerEmail == "" {
		slog.Info("email not configured, contact message logged only",
			"id", msg.ID,
			"from", msg.FromEmail,
			"length", len(msg.Body),
		)
		return nil
	}

	body := txRequest{
		SubscriberEmail: c.config.OwnerEmail,
		TemplateID:      c.config.TemplateID,
		Data: map[string]string{
			"id":         msg.ID,
			"fromEmail":  msg.FromEmail,
			"message":    msg.Body,
			"country":    msg.Country,
			"receivedAt": msg.ReceivedAt.UTC().Format(time.RFC3339),
		},
		ContentType: "plain",
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/tx", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.Username, c.config.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("listmonk returned status %d", resp.StatusCode)
	}
	return nil
}
