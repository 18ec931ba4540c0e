package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/xurxxo/termfolio/internal/contact"
	"github.com/xurxxo/termfolio/internal/email"
	"github.com/xurxxo/termfolio/internal/geoip"
	"github.com/xurxxo/termfolio/internal/httputil"
	"github.com/xurxxo/termfolio/internal/notify"
	"github.com/xurxxo/termfolio/internal/ratelimit"
	"github.com/xurxxo/termfolio/internal/validate"
)

const maxBodyBytes = 64 * 1024

const (
	sentText        = "Message sent successfully!"
	invalidText     = "Error: Invalid request"
	tooLargeText    = "Error: Request too large"
	storeFailedText = "Error: Could not save message"
	deliveryText    = "Error: Could not deliver message"
)

type Archiver interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

type Locator interface {
	Lookup(addr string) geoip.Location
}

type Handler struct {
	store    *Store
	notifier notify.Notifier
	archiver Archiver
	locator  Locator
	clock    clockwork.Clock
}

type Option func(*Handler)

// WithStore persists every accepted message.
func WithStore(store *Store) Option {
	return func(h *Handler) { h.store = store }
}

// WithArchiver keeps a JSON copy of every accepted message.
func WithArchiver(a Archiver) Option {
	return func(h *Handler) { h.archiver = a }
}

func WithLocator(l Locator) Option {
	return func(h *Handler) { h.locator = l }
}

func WithClock(clock clockwork.Clock) Option {
	return func(h *Handler) { h.clock = clock }
}

func NewHandler(notifier notify.Notifier, opts ...Option) *Handler {
	h := &Handler{notifier: notifier, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func reply(w http.ResponseWriter, status int, success bool, message string) {
	httputil.WriteJSON(w, status, contact.Reply{Success: success, Message: message})
}

// SendEmail accepts a contact submission and answers with the reply shape
// the contact page expects.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var payload contact.Payload
	if err := httputil.DecodeJSON(w, r, maxBodyBytes, &payload); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			reply(w, http.StatusRequestEntityTooLarge, false, tooLargeText)
			return
		}
		reply(w, http.StatusBadRequest, false, invalidText)
		return
	}

	if problem := validate.Contact(payload.Email, payload.Message); problem != "" {
		reply(w, http.StatusBadRequest, false, problem)
		return
	}

	msg := Message{
		ID:        uuid.NewString(),
		Email:     payload.Email,
		Body:      payload.Message,
		UserAgent: describeAgent(r.UserAgent()),
		CreatedAt: h.clock.Now().UTC(),
	}
	if h.locator != nil {
		loc := h.locator.Lookup(ratelimit.ClientIP(r))
		msg.Country, msg.City = loc.Country, loc.City
	}

	if h.store != nil {
		if err := h.store.Save(r.Context(), msg); err != nil {
			slog.Error("inbox: failed to save contact message", "id", msg.ID, "error", err)
			reply(w, http.StatusInternalServerError, false, storeFailedText)
			return
		}
	}

	if h.archiver != nil {
		if err := h.archive(r.Context(), msg); err != nil {
			slog.Warn("inbox: failed to archive contact message", "id", msg.ID, "error", err)
		}
	}

	if err := h.notifier.SendContactMessage(r.Context(), email.ContactMessage{
		ID:         msg.ID,
		FromEmail:  msg.Email,
		Body:       msg.Body,
		Country:    msg.Country,
		ReceivedAt: msg.CreatedAt,
	}); err != nil {
		slog.Error("inbox: failed to deliver contact message", "id", msg.ID, "error", err)
		reply(w, http.StatusBadGateway, false, deliveryText)
		return
	}

	slog.Info("inbox: contact message accepted", "id", msg.ID, "country", msg.Country)
	reply(w, http.StatusOK, true, sentText)
}

func (h *Handler) archive(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal archive: %w", err)
	}
	return h.archiver.PutObject(ctx, ArchiveKey(msg), body, "application/json")
}

// ArchiveKey is contact/YYYY/MM/DD/<id>.json, dated by the message time.
func ArchiveKey(msg Message) string {
	return fmt.Sprintf("contact/%s/%s.json", msg.CreatedAt.UTC().Format("2006/01/02"), msg.ID)
}
