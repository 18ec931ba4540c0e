package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xurxxo/termfolio/internal/email"
)

const maxPreviewRunes = 500

// Client posts contact notifications to a Slack incoming webhook.
type Client struct {
	webhookURL string
	http       *http.Client
}

func New(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

type block struct {
	Type     string `json:"type"`
	Text     *text  `json:"text,omitempty"`
	Elements []text `json:"elements,omitempty"`
}

type text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type payload struct {
	Blocks []block `json:"blocks"`
}

func (c *Client) postMessage(ctx context.Context, p payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send slack message: %w", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}
	return nil
}

// quote renders body as a Slack block quote, shortened to maxPreviewRunes.
func quote(body string) string {
	runes := []rune(body)
	if len(runes) > maxPreviewRunes {
		body = string(runes[:maxPreviewRunes]) + "…"
	}
	return "> " + strings.ReplaceAll(body, "\n", "\n> ")
}

func (c *Client) SendContactMessage(ctx context.Context, msg email.ContactMessage) error {
	details := "received " + msg.ReceivedAt.UTC().Format("2006-01-02 15:04 MST")
	if msg.Country != "" {
		details += " from " + msg.Country
	}

	p := payload{
		Blocks: []block{
			{
				Type: "section",
				Text: &text{
					Type: "mrkdwn",
					Text: fmt.Sprintf(":incoming_envelope: *New message from <mailto:%s|%s>*\n%s", msg.FromEmail, msg.FromEmail, quote(msg.Body)),
				},
			},
			{
				Type:     "context",
				Elements: []text{{Type: "mrkdwn", Text: details}},
			},
		},
	}

	if err := c.postMessage(ctx, p); err != nil {
		return fmt.Errorf("slack contact notification: %w", err)
	}
	return nil
}
