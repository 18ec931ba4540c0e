package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/xurxxo/termfolio/internal/contact"
	"github.com/xurxxo/termfolio/internal/email"
	"github.com/xurxxo/termfolio/internal/geoip"
	"github.com/xurxxo/termfolio/internal/notify"
	"github.com/xurxxo/termfolio/internal/validate"
	"github.com/xurxxo/termfolio/internal/webhook"
)

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

type mockMailer struct {
	mu   sync.Mutex
	sent []email.ContactMessage
	err  error
}

func (m *mockMailer) SendContactMessage(_ context.Context, msg email.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *mockMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type mockArchiver struct {
	key         string
	body        []byte
	contentType string
	err         error
}

func (m *mockArchiver) PutObject(_ context.Context, key string, body []byte, contentType string) error {
	m.key, m.body, m.contentType = key, body, contentType
	return m.err
}

type mockLocator struct {
	addr string
	loc  geoip.Location
}

func (m *mockLocator) Lookup(addr string) geoip.Location {
	m.addr = addr
	return m.loc
}

func postJSON(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, contact.Reply) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/send-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.SendEmail(rec, req)

	var reply contact.Reply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("failed to parse response %q: %v", rec.Body.String(), err)
	}
	return rec, reply
}

func TestSendEmail_Success(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer, WithClock(clockwork.NewFakeClockAt(testNow)))

	rec, reply := postJSON(t, h, `{"email":"visitor@example.com","message":"Hello there"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !reply.Success || reply.Message != sentText {
		t.Errorf("unexpected reply: %+v", reply)
	}
	if mailer.count() != 1 {
		t.Fatalf("expected 1 mail, got %d", mailer.count())
	}
	sent := mailer.sent[0]
	if sent.FromEmail != "visitor@example.com" || sent.Body != "Hello there" {
		t.Errorf("unexpected mail: %+v", sent)
	}
	if sent.ID == "" {
		t.Error("expected a message id")
	}
	if !sent.ReceivedAt.Equal(testNow) {
		t.Errorf("expected received at %v, got %v", testNow, sent.ReceivedAt)
	}
}

func TestSendEmail_MissingFields(t *testing.T) {
	for _, body := range []string{
		`{"email":"","message":"hi"}`,
		`{"email":"a@example.com","message":""}`,
		`{}`,
	} {
		mailer := &mockMailer{}
		rec, reply := postJSON(t, NewHandler(mailer), body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status %d, got %d", body, http.StatusBadRequest, rec.Code)
		}
		if reply.Success || reply.Message != validate.MissingFields {
			t.Errorf("%s: unexpected reply: %+v", body, reply)
		}
		if mailer.count() != 0 {
			t.Errorf("%s: expected no mail", body)
		}
	}
}

func TestSendEmail_InvalidEmail(t *testing.T) {
	rec, reply := postJSON(t, NewHandler(&mockMailer{}), `{"email":"not-an-address","message":"hi"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if reply.Success || reply.Message != "Error: Invalid email address" {
		t.Errorf("unexpected reply: %+v", reply)
	}
}

func TestSendEmail_MalformedJSON(t *testing.T) {
	rec, reply := postJSON(t, NewHandler(&mockMailer{}), `{"email":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if reply.Success || reply.Message != invalidText {
		t.Errorf("unexpected reply: %+v", reply)
	}
}

func TestSendEmail_BodyTooLarge(t *testing.T) {
	body := `{"email":"a@example.com","message":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	rec, reply := postJSON(t, NewHandler(&mockMailer{}), body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status %d, got %d", http.StatusRequestEntityTooLarge, rec.Code)
	}
	if reply.Success {
		t.Errorf("unexpected reply: %+v", reply)
	}
}

func TestSendEmail_DeliveryFailure(t *testing.T) {
	mailer := &mockMailer{err: errors.New("listmonk down")}
	rec, reply := postJSON(t, NewHandler(mailer), `{"email":"a@example.com","message":"hi"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, rec.Code)
	}
	if reply.Success || reply.Message != deliveryText {
		t.Errorf("unexpected reply: %+v", reply)
	}
}

func TestSendEmail_StoresArchivesAndLocates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO contact_messages`).
		WithArgs(pgxmock.AnyArg(), "a@example.com", "hi", "ES", "Vigo", pgxmock.AnyArg(), testNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mailer := &mockMailer{}
	archiver := &mockArchiver{}
	locator := &mockLocator{loc: geoip.Location{Country: "ES", City: "Vigo"}}
	h := NewHandler(mailer,
		WithStore(NewStore(mock)),
		WithArchiver(archiver),
		WithLocator(locator),
		WithClock(clockwork.NewFakeClockAt(testNow)),
	)

	rec, reply := postJSON(t, h, `{"email":"a@example.com","message":"hi"}`)
	if rec.Code != http.StatusOK || !reply.Success {
		t.Fatalf("expected success, got %d %+v", rec.Code, reply)
	}

	if locator.addr != "192.0.2.1" {
		t.Errorf("expected lookup of client ip, got %q", locator.addr)
	}
	if !strings.HasPrefix(archiver.key, "contact/2026/10/16/") || !strings.HasSuffix(archiver.key, ".json") {
		t.Errorf("unexpected archive key %q", archiver.key)
	}
	if archiver.contentType != "application/json" {
		t.Errorf("unexpected content type %q", archiver.contentType)
	}
	var archived Message
	if err := json.Unmarshal(archiver.body, &archived); err != nil {
		t.Fatalf("archive body is not json: %v", err)
	}
	if archived.Email != "a@example.com" || archived.Country != "ES" {
		t.Errorf("unexpected archived message: %+v", archived)
	}
	if mailer.sent[0].Country != "ES" {
		t.Errorf("expected mail country ES, got %q", mailer.sent[0].Country)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet pgxmock expectations: %v", err)
	}
}

func TestSendEmail_StoreFailureSkipsDelivery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO contact_messages`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	mailer := &mockMailer{}
	rec, reply := postJSON(t, NewHandler(mailer, WithStore(NewStore(mock))), `{"email":"a@example.com","message":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if reply.Success || reply.Message != storeFailedText {
		t.Errorf("unexpected reply: %+v", reply)
	}
	if mailer.count() != 0 {
		t.Error("expected no mail after store failure")
	}
}

func TestSendEmail_ArchiveFailureStillDelivers(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer, WithArchiver(&mockArchiver{err: errors.New("bucket gone")}))
	rec, reply := postJSON(t, h, `{"email":"a@example.com","message":"hi"}`)
	if rec.Code != http.StatusOK || !reply.Success {
		t.Fatalf("expected success, got %d %+v", rec.Code, reply)
	}
	if mailer.count() != 1 {
		t.Errorf("expected 1 mail, got %d", mailer.count())
	}
}

func TestSendEmail_ContactClientRoundTrip(t *testing.T) {
	mailer := &mockMailer{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /send-email", NewHandler(mailer).SendEmail)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := contact.NewClient(srv.URL)

	reply, err := client.Send(context.Background(), contact.Payload{Email: "a@example.com", Message: "hi"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !reply.Success || reply.Message != sentText {
		t.Errorf("unexpected reply: %+v", reply)
	}

	reply, err = client.Send(context.Background(), contact.Payload{Email: "", Message: "hi"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Success || reply.Message != validate.MissingFields {
		t.Errorf("unexpected reply: %+v", reply)
	}
}

func TestArchiveKey(t *testing.T) {
	key := ArchiveKey(Message{ID: "abc", CreatedAt: time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)})
	if key != "contact/2026/01/02/abc.json" {
		t.Errorf("unexpected key %q", key)
	}
}


func TestSendEmail_RepliesBeforeWebhookRetries(t *testing.T) {
	var attempts atomic.Int32
	hookServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer hookServer.Close()

	hookClock := clockwork.NewFakeClock()
	mailer := &mockMailer{}
	notifier := notify.NewMulti(mailer, webhook.New(hookServer.URL, "secret", webhook.WithClock(hookClock)))
	h := NewHandler(notifier, WithClock(clockwork.NewFakeClockAt(testNow)))

	rec, reply := postJSON(t, h, `{"email":"visitor@example.com","message":"Hello there"}`)
	if rec.Code != http.StatusOK || !reply.Success {
		t.Fatalf("expected success while the webhook is failing, got %d %+v", rec.Code, reply)
	}
	if mailer.count() != 1 {
		t.Fatalf("expected 1 mail, got %d", mailer.count())
	}

	hookClock.BlockUntil(1)
	if got := attempts.Load(); got != 1 {
		t.Fatalf("expected 1 webhook attempt before the first retry delay, got %d", got)
	}
	hookClock.Advance(1 * time.Second)
	hookClock.BlockUntil(1)
	hookClock.Advance(4 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := notifier.Wait(ctx); err != nil {
		t.Fatalf("webhook fan-out did not finish: %v", err)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("expected 3 webhook attempts, got %d", got)
	}
}
