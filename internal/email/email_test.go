package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testMessage() ContactMessage {
	return ContactMessage{
		ID:         "0b7c7c6e-1f1e-4c43-9a43-1c0f1d3f6a11",
		FromEmail:  "visitor@example.com",
		Body:       "Hello there",
		Country:    "ES",
		ReceivedAt: time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
	}
}

func TestSendContactMessage_Success(t *testing.T) {
	var received txRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tx" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			t.Errorf("unexpected auth: %s:%s", user, pass)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(Config{
		BaseURL:    srv.URL,
		Username:   "admin",
		Password:   "secret",
		TemplateID: 7,
		OwnerEmail: "owner@example.com",
	})

	if err := client.SendContactMessage(context.Background(), testMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received.SubscriberEmail != "owner@example.com" {
		t.Errorf("expected owner as recipient, got %q", received.SubscriberEmail)
	}
	if received.TemplateID != 7 {
		t.Errorf("expected template ID 7, got %d", received.TemplateID)
	}
	if received.Data["fromEmail"] != "visitor@example.com" || received.Data["message"] != "Hello there" {
		t.Errorf("unexpected data: %v", received.Data)
	}
	if received.Data["receivedAt"] != "2026-10-16T09:30:00Z" {
		t.Errorf("unexpected receivedAt: %q", received.Data["receivedAt"])
	}
}

func TestSendContactMessage_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, OwnerEmail: "owner@example.com"})

	if err := client.SendContactMessage(context.Background(), testMessage()); err == nil {
		t.Fatal("expected error for server error response")
	}
}

func TestSendContactMessage_NotConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"NoBaseURL", Config{OwnerEmail: "owner@example.com"}},
		{"NoOwner", Config{BaseURL: "http://127.0.0.1:1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := New(tt.cfg).SendContactMessage(context.Background(), testMessage()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
