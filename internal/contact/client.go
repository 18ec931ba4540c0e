package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMalformedReply is returned when the endpoint answers with a body that
// is not a JSON object carrying a boolean success field.
var ErrMalformedReply = errors.New("malformed reply")

// Payload is the body of a contact submission. Values are sent verbatim.
type Payload struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Reply is the /send-email response contract.
type Reply struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type wireReply struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// Sender delivers a payload and reports the endpoint's reply.
type Sender interface {
	Send(ctx context.Context, p Payload) (Reply, error)
}

type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient returns a Sender posting to baseURL + "/send-email". The client
// sets no timeout of its own; callers bound requests with ctx.
func NewClient(baseURL string) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(baseURL, "/") + "/send-email",
		http:     &http.Client{},
	}
}

func (c *Client) Send(ctx context.Context, p Payload) (Reply, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return Reply{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Reply{}, fmt.Errorf("create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("send message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Status codes are not inspected; a 400 carrying a well-formed body is
	// a server-reported failure.
	var wire wireReply
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Reply{}, fmt.Errorf("decode reply: %w: %v", ErrMalformedReply, err)
	}
	if wire.Success == nil {
		return Reply{}, fmt.Errorf("decode reply: %w: missing success field", ErrMalformedReply)
	}

	return Reply{Success: *wire.Success, Message: wire.Message}, nil
}
